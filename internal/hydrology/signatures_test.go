package hydrology

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateRange(start string, n int) []time.Time {
	t0, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(err)
	}
	out := make([]time.Time, n)
	for i := range out {
		out[i] = t0.AddDate(0, 0, i)
	}
	return out
}

func TestPercentile(t *testing.T) {
	values := []float64{5, 1, 3, 2, 4}

	assert.InDelta(t, 1, percentile(values, 0), 1e-9)
	assert.InDelta(t, 3, percentile(values, 50), 1e-9)
	assert.InDelta(t, 5, percentile(values, 100), 1e-9)
	assert.InDelta(t, 1.2, percentile(values, 5), 1e-9)
	assert.InDelta(t, 4.8, percentile(values, 95), 1e-9)
}

func TestSlopeFDC_LogLinearCurve(t *testing.T) {
	// A flow duration curve that is exactly log-linear: Q(p) = e^(-kp)
	// where p is exceedance probability. The slope between any two
	// exceedance points is then k.
	const k = 3.0
	n := 1001
	flows := make([]float64, n)
	for i := range flows {
		p := float64(i) / float64(n-1)
		flows[i] = math.Exp(-k * p)
	}

	assert.InDelta(t, k, slopeFDC(flows), 0.05)
}

func TestSlopeFDC_ZeroFlowsFallBack(t *testing.T) {
	flows := make([]float64, 100)
	assert.InDelta(t, DefaultSlopeFDC, slopeFDC(flows), 1e-9)
}

func TestBaseflowIndex_ConstantFlowIsAllBaseflow(t *testing.T) {
	flows := make([]float64, 365)
	for i := range flows {
		flows[i] = 2.5
	}

	bfi := baseflowIndex(flows)
	assert.Greater(t, bfi, 0.95)
	assert.LessOrEqual(t, bfi, 1.0)
}

func TestBaseflowIndex_FlashyFlowIsMostlyQuickflow(t *testing.T) {
	// Isolated spikes on an otherwise dry record.
	flows := make([]float64, 365)
	for i := 10; i < 365; i += 30 {
		flows[i] = 50
	}

	bfi := baseflowIndex(flows)
	assert.Less(t, bfi, 0.3)
	assert.GreaterOrEqual(t, bfi, 0.0)
}

func TestBaseflowIndex_Bounded(t *testing.T) {
	flows := []float64{1, 4, 9, 3, 2, 1.5, 1.2, 1, 8, 2, 1}
	bfi := baseflowIndex(flows)
	assert.GreaterOrEqual(t, bfi, 0.0)
	assert.LessOrEqual(t, bfi, 1.0)
}

func TestHalfFlowDate_UniformFlow(t *testing.T) {
	// A full water year of constant flow reaches half volume mid-year.
	dates := dateRange("2000-10-01", 365)
	flows := make([]float64, 365)
	for i := range flows {
		flows[i] = 1.0
	}

	hfd := halfFlowDate(dates, flows)
	assert.InDelta(t, 183, hfd, 1.0)
}

func TestHalfFlowDate_EarlyPeak(t *testing.T) {
	// All flow in the first ten days of the water year.
	dates := dateRange("2000-10-01", 365)
	flows := make([]float64, 365)
	for i := 0; i < 10; i++ {
		flows[i] = 10
	}

	hfd := halfFlowDate(dates, flows)
	assert.Less(t, hfd, 10.0)
}

func TestSignatures_SyntheticHydrograph(t *testing.T) {
	// One water year: low baseflow with a spring freshet.
	dates := dateRange("2000-10-01", 365)
	flows := make([]float64, 365)
	for i := range flows {
		flows[i] = 0.5
	}
	// Freshet around day 200 (late April).
	for i := 195; i < 215; i++ {
		flows[i] = 12.0
	}

	sigs := signatures(dates, flows)

	wantMean := (0.5*345 + 12.0*20) / 365
	assert.InDelta(t, wantMean, sigs[KeyQMean], 1e-9)

	// Median is the baseflow level; the freshet days exceed 9x median.
	assert.InDelta(t, 20/(365/365.25), sigs[KeyHighQFreq], 0.1)
	assert.InDelta(t, 20, sigs[KeyHighQDur], 1e-9)

	// No zero-flow days, no days below 0.2x mean (0.5 > 0.2*1.13).
	assert.InDelta(t, 0, sigs[KeyZeroQFreq], 1e-9)
	assert.InDelta(t, 0, sigs[KeyLowQFreq], 1e-9)

	assert.InDelta(t, 0.5, sigs[KeyQ5], 1e-9)
	assert.InDelta(t, 12.0, sigs[KeyQ95], 0.5)

	// Half the volume arrives only once the freshet is underway.
	require.Greater(t, sigs[KeyHFDMean], 190.0)
	assert.Less(t, sigs[KeyHFDMean], 215.0)
}

func TestCfsToMMDay(t *testing.T) {
	// 100 cfs over 100 km²: 100 * 0.0283168 * 86.4 / 100.
	assert.InDelta(t, 2.4465715, cfsToMMDay(100, 100), 1e-6)
	assert.InDelta(t, 0, cfsToMMDay(100, 0), 1e-9)
}
