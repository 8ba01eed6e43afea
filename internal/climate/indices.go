package climate

import "math"

// daysPerYear is the mean tropical-year length used to annualize event
// counts and to phase the annual cycle.
const daysPerYear = 365.25

// ComputeIndices reduces an aligned daily series to the CAMELS climate
// index set. The series must be non-empty.
func ComputeIndices(d *Daily) map[string]float64 {
	n := float64(d.Len())
	years := n / daysPerYear

	var pSum, petSum float64
	for i := range d.Dates {
		pSum += d.Precip[i]
		petSum += d.PET[i]
	}
	pMean := pSum / n
	petMean := petSum / n

	aridity := 0.0
	if pMean > 0 {
		aridity = petMean / pMean
	}

	highFreq, highDur := eventStats(d.Precip, func(p float64) bool { return p >= 5*pMean }, years)
	lowFreq, lowDur := eventStats(d.Precip, func(p float64) bool { return p < 1.0 }, years)

	return map[string]float64{
		KeyPMean:        pMean,
		KeyPETMean:      petMean,
		KeyAridity:      aridity,
		KeyPSeasonality: seasonality(d, pMean),
		KeyFracSnow:     fracSnow(d, pSum),
		KeyHighPrecFreq: highFreq,
		KeyHighPrecDur:  highDur,
		KeyLowPrecFreq:  lowFreq,
		KeyLowPrecDur:   lowDur,
	}
}

// fracSnow is the fraction of precipitation falling on days with mean
// temperature below freezing.
func fracSnow(d *Daily, pSum float64) float64 {
	if pSum <= 0 {
		return 0
	}
	var snow float64
	for i := range d.Dates {
		if (d.TempMin[i]+d.TempMax[i])/2 < 0 {
			snow += d.Precip[i]
		}
	}
	return snow / pSum
}

// eventStats returns the annualized frequency (days/year) of days matching
// pred and the mean length (days) of consecutive runs of such days.
func eventStats(precip []float64, pred func(float64) bool, years float64) (freq, dur float64) {
	count := 0
	runs := 0
	run := 0
	var runSum int
	for _, p := range precip {
		if pred(p) {
			count++
			run++
			continue
		}
		if run > 0 {
			runs++
			runSum += run
			run = 0
		}
	}
	if run > 0 {
		runs++
		runSum += run
	}
	if years > 0 {
		freq = float64(count) / years
	}
	if runs > 0 {
		dur = float64(runSum) / float64(runs)
	}
	return freq, dur
}

// seasonality is the dimensionless precipitation-seasonality index: the
// relative amplitude of the first annual harmonic of precipitation, signed
// by its phase alignment with the temperature cycle. Positive values mean
// precipitation peaks in the warm season, negative in the cold season.
func seasonality(d *Daily, pMean float64) float64 {
	if pMean <= 0 {
		return 0
	}
	n := float64(d.Len())

	var pSin, pCos, tSin, tCos float64
	for i, date := range d.Dates {
		phase := 2 * math.Pi * float64(date.YearDay()) / daysPerYear
		sin, cos := math.Sincos(phase)
		tMean := (d.TempMin[i] + d.TempMax[i]) / 2
		pSin += d.Precip[i] * sin
		pCos += d.Precip[i] * cos
		tSin += tMean * sin
		tCos += tMean * cos
	}

	pAmp := 2 * math.Hypot(pSin, pCos) / n
	tAmp := 2 * math.Hypot(tSin, tCos) / n
	if tAmp < 1e-6 {
		// No discernible temperature cycle to phase against.
		return 0
	}

	deltaP := pAmp / pMean
	phaseDiff := math.Atan2(pSin, pCos) - math.Atan2(tSin, tCos)
	return deltaP * math.Cos(phaseDiff)
}
