// Package watershed resolves a USGS gauge identifier to its contributing
// watershed: site metadata plus the basin boundary polygon every downstream
// extraction domain reads.
package watershed

import (
	"errors"
	"fmt"

	"github.com/galib9690/camels-attrs/internal/geo"
)

// Sentinel errors for watershed resolution.
var (
	// ErrGaugeNotFound is returned when the gauge identifier is unknown to
	// the site index.
	ErrGaugeNotFound = errors.New("gauge not found")

	// ErrServiceUnavailable is returned when the delineation services
	// cannot be reached.
	ErrServiceUnavailable = errors.New("delineation service unavailable")
)

// DelineationError is the fatal per-gauge failure: without a boundary no
// domain can extract, so the gauge's entire run is aborted.
type DelineationError struct {
	GaugeID string
	Err     error
}

func (e *DelineationError) Error() string {
	return fmt.Sprintf("delineate watershed for gauge %s: %v", e.GaugeID, e.Err)
}

func (e *DelineationError) Unwrap() error {
	return e.Err
}

// Site is gauge site metadata from the site index.
type Site struct {
	ID    string
	Name  string
	Lat   float64
	Lon   float64
	HUC02 string
}

// Boundary is a delineated watershed: the gauge site, the basin polygon in
// EPSG:4326, and quantities derived from it. A Boundary is immutable for
// the duration of one extraction run.
type Boundary struct {
	Site     Site
	Polygon  geo.Polygon
	AreaKm2  float64
	Centroid geo.Point
}

// BoundingBox returns the basin polygon's bounding box.
func (b *Boundary) BoundingBox() geo.BBox {
	return b.Polygon.BoundingBox()
}
