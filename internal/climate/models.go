// Package climate extracts CAMELS climate indices for a watershed from
// GridMET daily meteorology (precipitation, temperature, reference ET).
package climate

import (
	"errors"
	"time"

	"github.com/galib9690/camels-attrs/internal/attrs"
)

// ErrEmptySeries is returned internally when the climate service yields no
// daily records for the requested period.
var ErrEmptySeries = errors.New("empty climate series")

// Daily holds aligned daily meteorology at a point. Precipitation and
// reference ET are in mm/day, temperatures in °C.
type Daily struct {
	Dates   []time.Time
	Precip  []float64
	TempMin []float64
	TempMax []float64
	PET     []float64
}

// Len returns the number of daily records.
func (d *Daily) Len() int { return len(d.Dates) }

// Attribute keys produced by this domain, in output order.
const (
	KeyPMean        = "p_mean"
	KeyPETMean      = "pet_mean"
	KeyAridity      = "aridity"
	KeyPSeasonality = "p_seasonality"
	KeyFracSnow     = "frac_snow"
	KeyHighPrecFreq = "high_prec_freq"
	KeyHighPrecDur  = "high_prec_dur"
	KeyLowPrecFreq  = "low_prec_freq"
	KeyLowPrecDur   = "low_prec_dur"
)

// Keys returns the domain's fixed key set in output order.
func Keys() []string {
	return []string{
		KeyPMean, KeyPETMean, KeyAridity, KeyPSeasonality, KeyFracSnow,
		KeyHighPrecFreq, KeyHighPrecDur, KeyLowPrecFreq, KeyLowPrecDur,
	}
}

// Defaults returns the documented fallback values used when the climate
// service is unreachable. Rates in mm/day, frequencies in days/year,
// durations in days.
func Defaults() *attrs.Set {
	s := attrs.NewSet()
	s.PutNumber(KeyPMean, 3.0)
	s.PutNumber(KeyPETMean, 2.5)
	s.PutNumber(KeyAridity, 0.83)
	s.PutNumber(KeyPSeasonality, 0.0)
	s.PutNumber(KeyFracSnow, 0.2)
	s.PutNumber(KeyHighPrecFreq, 15.0)
	s.PutNumber(KeyHighPrecDur, 1.2)
	s.PutNumber(KeyLowPrecFreq, 200.0)
	s.PutNumber(KeyLowPrecDur, 3.5)
	return s
}
