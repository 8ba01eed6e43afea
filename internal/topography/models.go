// Package topography extracts terrain attributes (elevation and slope
// statistics) for a watershed from the USGS 3DEP elevation service.
package topography

import (
	"errors"

	"github.com/galib9690/camels-attrs/internal/attrs"
)

// ErrInsufficientSamples is returned internally when too few grid points
// resolved to valid elevations to compute statistics.
var ErrInsufficientSamples = errors.New("insufficient elevation samples")

// Attribute keys produced by this domain, in output order.
const (
	KeyElevMean  = "elev_mean"
	KeyElevMin   = "elev_min"
	KeyElevMax   = "elev_max"
	KeyElevStd   = "elev_std"
	KeySlopeMean = "slope_mean"
	KeySlopeStd  = "slope_std"
	KeyArea      = "area_geospa_fabric"
)

// Keys returns the domain's fixed key set in output order.
func Keys() []string {
	return []string{
		KeyElevMean, KeyElevMin, KeyElevMax, KeyElevStd,
		KeySlopeMean, KeySlopeStd, KeyArea,
	}
}

// Defaults returns the documented fallback values used when the elevation
// service is unreachable. Elevations in meters, slope in m/km.
func Defaults() *attrs.Set {
	s := attrs.NewSet()
	s.PutNumber(KeyElevMean, 500.0)
	s.PutNumber(KeyElevMin, 200.0)
	s.PutNumber(KeyElevMax, 1000.0)
	s.PutNumber(KeyElevStd, 150.0)
	s.PutNumber(KeySlopeMean, 30.0)
	s.PutNumber(KeySlopeStd, 20.0)
	s.PutNumber(KeyArea, 0.0)
	return s
}
