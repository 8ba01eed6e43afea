package hydrology

import (
	"math"
	"sort"
	"time"
)

// lyneHollickAlpha is the recession constant for the single-parameter
// digital baseflow filter.
const lyneHollickAlpha = 0.925

// signatures reduces a daily flow series (mm/day, chronological) to the
// CAMELS streamflow signature set, minus runoff_ratio which needs
// precipitation.
func signatures(dates []time.Time, flows []float64) map[string]float64 {
	n := len(flows)
	years := float64(n) / 365.25

	var sum float64
	zeros := 0
	for _, q := range flows {
		sum += q
		if q == 0 {
			zeros++
		}
	}
	mean := sum / float64(n)
	median := percentile(flows, 50)

	highFreq, highDur := flowEventStats(flows, func(q float64) bool { return q > 9*median }, years)
	lowFreq, lowDur := flowEventStats(flows, func(q float64) bool { return q < 0.2*mean }, years)

	return map[string]float64{
		KeyQMean:         mean,
		KeySlopeFDC:      slopeFDC(flows),
		KeyBaseflowIndex: baseflowIndex(flows),
		KeyQ5:            percentile(flows, 5),
		KeyQ95:           percentile(flows, 95),
		KeyHighQFreq:     highFreq,
		KeyHighQDur:      highDur,
		KeyLowQFreq:      lowFreq,
		KeyLowQDur:       lowDur,
		KeyZeroQFreq:     float64(zeros) / float64(n),
		KeyHFDMean:       halfFlowDate(dates, flows),
	}
}

// percentile returns the p-th percentile of values with linear
// interpolation between order statistics.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// slopeFDC is the slope of the flow duration curve between the 33% and 66%
// exceedance probabilities, in log space. Non-positive flows at either
// point collapse the slope to the documented default.
func slopeFDC(flows []float64) float64 {
	// 33% exceedance is the 67th percentile and vice versa.
	q33 := percentile(flows, 67)
	q66 := percentile(flows, 34)
	if q33 <= 0 || q66 <= 0 {
		return DefaultSlopeFDC
	}
	return (math.Log(q33) - math.Log(q66)) / (0.66 - 0.33)
}

// baseflowIndex separates baseflow with the Lyne-Hollick digital filter,
// run in three passes (forward, backward, forward), and returns the ratio
// of baseflow volume to total volume.
func baseflowIndex(flows []float64) float64 {
	var total float64
	for _, q := range flows {
		total += q
	}
	if total <= 0 {
		return DefaultBaseflowIndex
	}

	base := make([]float64, len(flows))
	copy(base, flows)
	for pass := 0; pass < 3; pass++ {
		if pass%2 == 0 {
			base = filterPass(base, false)
		} else {
			base = filterPass(base, true)
		}
	}

	var baseSum float64
	for i, b := range base {
		// Baseflow cannot exceed the observed flow.
		if b > flows[i] {
			b = flows[i]
		}
		baseSum += b
	}
	return baseSum / total
}

// filterPass applies one Lyne-Hollick pass over the series, optionally in
// reverse, and returns the baseflow component.
func filterPass(flows []float64, reverse bool) []float64 {
	n := len(flows)
	quick := make([]float64, n)
	base := make([]float64, n)

	idx := func(i int) int {
		if reverse {
			return n - 1 - i
		}
		return i
	}

	prevQuick := 0.0
	for i := 0; i < n; i++ {
		cur := flows[idx(i)]
		if i == 0 {
			quick[idx(i)] = cur / 2
		} else {
			prev := flows[idx(i-1)]
			quick[idx(i)] = lyneHollickAlpha*prevQuick + (1+lyneHollickAlpha)/2*(cur-prev)
		}
		if quick[idx(i)] < 0 {
			quick[idx(i)] = 0
		}
		if quick[idx(i)] > cur {
			quick[idx(i)] = cur
		}
		base[idx(i)] = cur - quick[idx(i)]
		prevQuick = quick[idx(i)]
	}
	return base
}

// flowEventStats returns the annualized frequency (days/year) of days
// matching pred and the mean length (days) of consecutive runs of such
// days.
func flowEventStats(flows []float64, pred func(float64) bool, years float64) (freq, dur float64) {
	count := 0
	runs := 0
	run := 0
	var runSum int
	for _, q := range flows {
		if pred(q) {
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

// halfFlowDate is the mean day of the water year (starting October 1) on
// which cumulative flow reaches half of that water year's total. Water
// years without flow are ignored.
func halfFlowDate(dates []time.Time, flows []float64) float64 {
	type yearAcc struct {
		total float64
		days  []float64
	}
	years := make(map[int]*yearAcc)
	order := make([]int, 0)

	for i, d := range dates {
		wy := d.Year()
		if d.Month() >= time.October {
			wy++
		}
		acc, ok := years[wy]
		if !ok {
			acc = &yearAcc{}
			years[wy] = acc
			order = append(order, wy)
		}
		acc.total += flows[i]
		acc.days = append(acc.days, flows[i])
	}

	var sum float64
	counted := 0
	for _, wy := range order {
		acc := years[wy]
		if acc.total <= 0 {
			continue
		}
		var cum float64
		for day, q := range acc.days {
			cum += q
			if cum >= acc.total/2 {
				sum += float64(day + 1)
				counted++
				break
			}
		}
	}
	if counted == 0 {
		return DefaultHFDMean
	}
	return sum / float64(counted)
}
