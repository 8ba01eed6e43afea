package climate_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/climate"
)

// syntheticDaily builds a two-year daily series from per-day generators.
func syntheticDaily(precip, tMean func(doy int) float64) *climate.Daily {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2001, 12, 31, 0, 0, 0, 0, time.UTC)

	d := &climate.Daily{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		doy := day.YearDay()
		t := tMean(doy)
		d.Dates = append(d.Dates, day)
		d.Precip = append(d.Precip, precip(doy))
		d.TempMin = append(d.TempMin, t-5)
		d.TempMax = append(d.TempMax, t+5)
		d.PET = append(d.PET, 2.0)
	}
	return d
}

func TestComputeIndices_ConstantSeries(t *testing.T) {
	d := syntheticDaily(
		func(int) float64 { return 2.0 },
		func(int) float64 { return 15.0 },
	)

	got := climate.ComputeIndices(d)

	assert.InDelta(t, 2.0, got[climate.KeyPMean], 1e-9)
	assert.InDelta(t, 2.0, got[climate.KeyPETMean], 1e-9)
	assert.InDelta(t, 1.0, got[climate.KeyAridity], 1e-9)
	assert.InDelta(t, 0.0, got[climate.KeyFracSnow], 1e-9)
	assert.InDelta(t, 0.0, got[climate.KeyHighPrecFreq], 1e-9)
	assert.InDelta(t, 0.0, got[climate.KeyHighPrecDur], 1e-9)
	assert.InDelta(t, 0.0, got[climate.KeyLowPrecFreq], 1e-9)
	assert.InDelta(t, 0.0, got[climate.KeyLowPrecDur], 1e-9)
}

func TestComputeIndices_SeasonalitySign(t *testing.T) {
	annual := func(doy int, peak float64) float64 {
		// Peaks mid-July when peak = 1, mid-January when peak = -1.
		return peak * math.Cos(2*math.Pi*float64(doy-196)/365.25)
	}
	temp := func(doy int) float64 { return 10 + 15*annual(doy, 1) }

	summerWet := syntheticDaily(func(doy int) float64 { return 3 + 2*annual(doy, 1) }, temp)
	winterWet := syntheticDaily(func(doy int) float64 { return 3 + 2*annual(doy, -1) }, temp)

	assert.Greater(t, climate.ComputeIndices(summerWet)[climate.KeyPSeasonality], 0.3)
	assert.Less(t, climate.ComputeIndices(winterWet)[climate.KeyPSeasonality], -0.3)
}

func TestComputeIndices_FracSnow(t *testing.T) {
	// Freezing mean temperature for the first 100 days of each year.
	d := syntheticDaily(
		func(int) float64 { return 2.0 },
		func(doy int) float64 {
			if doy <= 100 {
				return -4.0
			}
			return 12.0
		},
	)

	got := climate.ComputeIndices(d)

	days := d.Len()
	want := float64(200) / float64(days)
	assert.InDelta(t, want, got[climate.KeyFracSnow], 1e-9)
}

func TestComputeIndices_PrecipEvents(t *testing.T) {
	// Dry (0 mm) everywhere except a 4-day storm each year.
	d := syntheticDaily(
		func(doy int) float64 {
			if doy >= 150 && doy < 154 {
				return 40.0
			}
			return 0.0
		},
		func(int) float64 { return 15.0 },
	)

	got := climate.ComputeIndices(d)

	// 8 storm days over ~2 years, in two 4-day runs.
	assert.InDelta(t, 4.0, got[climate.KeyHighPrecFreq], 0.1)
	assert.InDelta(t, 4.0, got[climate.KeyHighPrecDur], 1e-9)

	// Every non-storm day is a dry day (< 1 mm).
	days := d.Len()
	wantLowFreq := float64(days-8) / (float64(days) / 365.25)
	assert.InDelta(t, wantLowFreq, got[climate.KeyLowPrecFreq], 0.1)
	assert.Greater(t, got[climate.KeyLowPrecDur], 100.0)
}

func TestComputeIndices_Deterministic(t *testing.T) {
	d := syntheticDaily(
		func(doy int) float64 { return 1 + math.Abs(math.Sin(float64(doy))) },
		func(doy int) float64 { return 5 + 10*math.Sin(2*math.Pi*float64(doy)/365.25) },
	)

	first := climate.ComputeIndices(d)
	second := climate.ComputeIndices(d)
	require.Equal(t, first, second)
}
