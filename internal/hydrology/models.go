// Package hydrology computes CAMELS streamflow signatures for a watershed
// from USGS NWIS daily discharge records.
package hydrology

import (
	"errors"
	"time"

	"github.com/galib9690/camels-attrs/internal/attrs"
)

// ErrNoRecords is returned internally when the discharge service yields no
// usable daily values for the requested period.
var ErrNoRecords = errors.New("no discharge records")

// Attribute keys produced by this domain, in output order.
const (
	KeyQMean         = "q_mean"
	KeyRunoffRatio   = "runoff_ratio"
	KeySlopeFDC      = "slope_fdc"
	KeyBaseflowIndex = "baseflow_index"
	KeyQ5            = "q5"
	KeyQ95           = "q95"
	KeyHighQFreq     = "high_q_freq"
	KeyHighQDur      = "high_q_dur"
	KeyLowQFreq      = "low_q_freq"
	KeyLowQDur       = "low_q_dur"
	KeyZeroQFreq     = "zero_q_freq"
	KeyHFDMean       = "hfd_mean"
)

// Keys returns the domain's fixed key set in output order.
func Keys() []string {
	return []string{
		KeyQMean, KeyRunoffRatio, KeySlopeFDC, KeyBaseflowIndex,
		KeyQ5, KeyQ95,
		KeyHighQFreq, KeyHighQDur, KeyLowQFreq, KeyLowQDur,
		KeyZeroQFreq, KeyHFDMean,
	}
}

// Documented fallback values. Flows in mm/day, frequencies in days/year
// (zero_q_freq a fraction), durations in days and hfd_mean a day of the
// water year.
const (
	DefaultQMean         = 1.0
	DefaultRunoffRatio   = 0.3
	DefaultSlopeFDC      = 2.0
	DefaultBaseflowIndex = 0.5
	DefaultQ5            = 0.05
	DefaultQ95           = 5.0
	DefaultHighQFreq     = 10.0
	DefaultHighQDur      = 2.0
	DefaultLowQFreq      = 50.0
	DefaultLowQDur       = 5.0
	DefaultZeroQFreq     = 0.0
	DefaultHFDMean       = 180.0
)

// Defaults returns the documented fallback set used when the discharge
// service is unreachable.
func Defaults() *attrs.Set {
	s := attrs.NewSet()
	s.PutNumber(KeyQMean, DefaultQMean)
	s.PutNumber(KeyRunoffRatio, DefaultRunoffRatio)
	s.PutNumber(KeySlopeFDC, DefaultSlopeFDC)
	s.PutNumber(KeyBaseflowIndex, DefaultBaseflowIndex)
	s.PutNumber(KeyQ5, DefaultQ5)
	s.PutNumber(KeyQ95, DefaultQ95)
	s.PutNumber(KeyHighQFreq, DefaultHighQFreq)
	s.PutNumber(KeyHighQDur, DefaultHighQDur)
	s.PutNumber(KeyLowQFreq, DefaultLowQFreq)
	s.PutNumber(KeyLowQDur, DefaultLowQDur)
	s.PutNumber(KeyZeroQFreq, DefaultZeroQFreq)
	s.PutNumber(KeyHFDMean, DefaultHFDMean)
	return s
}

// Record is one daily mean discharge observation in ft³/s.
type Record struct {
	Date time.Time
	CFS  float64
}

// cfsToMMDay converts a daily mean discharge in ft³/s to a depth in mm/day
// over the basin area. 0.0283168 m³ per ft³, 86400 s per day.
func cfsToMMDay(cfs, areaKm2 float64) float64 {
	if areaKm2 <= 0 {
		return 0
	}
	return cfs * 0.0283168 * 86.4 / areaKm2
}
