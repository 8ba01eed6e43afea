package topography

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// ElevationSource samples terrain elevation at a point, in meters.
type ElevationSource interface {
	Elevation(ctx context.Context, lat, lon float64) (float64, error)
}

// Config holds configuration for the topography extractor.
type Config struct {
	// Source is the elevation point-query provider (3DEP).
	Source ElevationSource

	// Logger for extraction operations.
	Logger zerolog.Logger

	// GridSize is the sampling grid dimension per axis (default: 12,
	// i.e. at most 144 point queries per basin).
	GridSize int

	// MinSamples is the minimum number of in-basin elevations required
	// to compute statistics (default: 4).
	MinSamples int
}

// Extractor computes elevation and slope statistics over a sampling grid
// laid across the watershed.
type Extractor struct {
	source     ElevationSource
	logger     zerolog.Logger
	gridSize   int
	minSamples int
}

// New creates a topography extractor.
func New(cfg Config) *Extractor {
	gridSize := cfg.GridSize
	if gridSize == 0 {
		gridSize = 12
	}
	minSamples := cfg.MinSamples
	if minSamples == 0 {
		minSamples = 4
	}
	return &Extractor{
		source:     cfg.Source,
		logger:     cfg.Logger,
		gridSize:   gridSize,
		minSamples: minSamples,
	}
}

// Domain returns the extraction domain.
func (e *Extractor) Domain() attrs.Domain {
	return attrs.DomainTopography
}

// Extract samples elevations over the basin and reduces them to the
// domain's attribute set. On failure the documented defaults are returned
// with a degraded status; area always comes from the boundary itself.
func (e *Extractor) Extract(ctx context.Context, b *watershed.Boundary, _ attrs.Period) (*attrs.Set, attrs.Status) {
	set, err := e.extract(ctx, b)
	if err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("topography extraction degraded to defaults")
		set = Defaults()
		set.PutNumber(KeyArea, b.AreaKm2)
		return set, attrs.Degraded(e.Domain(), err.Error())
	}
	return set, attrs.OK(e.Domain())
}

type sample struct {
	point geo.Point
	elev  float64
	ok    bool
}

func (e *Extractor) extract(ctx context.Context, b *watershed.Boundary) (*attrs.Set, error) {
	points := b.Polygon.GridPoints(e.gridSize)

	samples := make([]sample, 0, len(points))
	var elevs []float64
	var lastErr error
	for _, pt := range points {
		elev, err := e.source.Elevation(ctx, pt.Lat, pt.Lon)
		if err != nil {
			lastErr = err
			samples = append(samples, sample{point: pt})
			continue
		}
		samples = append(samples, sample{point: pt, elev: elev, ok: true})
		elevs = append(elevs, elev)
	}

	if len(elevs) < e.minSamples {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrInsufficientSamples
	}

	mean, std := meanStd(elevs)
	minElev, maxElev := elevs[0], elevs[0]
	for _, v := range elevs[1:] {
		minElev = math.Min(minElev, v)
		maxElev = math.Max(maxElev, v)
	}

	slopeMean, slopeStd := e.slopeStats(samples, b)

	set := attrs.NewSet()
	set.PutNumber(KeyElevMean, mean)
	set.PutNumber(KeyElevMin, minElev)
	set.PutNumber(KeyElevMax, maxElev)
	set.PutNumber(KeyElevStd, std)
	set.PutNumber(KeySlopeMean, slopeMean)
	set.PutNumber(KeySlopeStd, slopeStd)
	set.PutNumber(KeyArea, b.AreaKm2)
	return set, nil
}

// slopeStats estimates slope (m/km) from elevation differences between
// neighboring grid samples. Pairs with a failed sample are skipped.
func (e *Extractor) slopeStats(samples []sample, b *watershed.Boundary) (float64, float64) {
	var slopes []float64
	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			a, c := samples[i], samples[j]
			if !a.ok || !c.ok {
				continue
			}
			distKm := distanceKm(a.point, c.point)
			// Only adjacent-ish pairs carry slope information.
			if distKm == 0 || distKm > 2*gridSpacingKm(b, e.gridSize) {
				continue
			}
			slopes = append(slopes, math.Abs(a.elev-c.elev)/distKm)
		}
	}
	if len(slopes) == 0 {
		return 0, 0
	}
	return meanStd(slopes)
}

func gridSpacingKm(b *watershed.Boundary, gridSize int) float64 {
	bb := b.BoundingBox()
	latSpanKm := (bb.MaxLat - bb.MinLat) * 111.195
	lonSpanKm := (bb.MaxLon - bb.MinLon) * 111.195 * math.Cos(b.Centroid.Lat*math.Pi/180)
	return math.Max(latSpanKm, lonSpanKm) / float64(gridSize-1)
}

func distanceKm(a, b geo.Point) float64 {
	meanLat := (a.Lat + b.Lat) / 2 * math.Pi / 180
	dLat := (b.Lat - a.Lat) * 111.195
	dLon := (b.Lon - a.Lon) * 111.195 * math.Cos(meanLat)
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
