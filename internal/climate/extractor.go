package climate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// Source provides aligned daily meteorology at a point (GridMET).
type Source interface {
	FetchDaily(ctx context.Context, pt geo.Point, period attrs.Period) (*Daily, error)
}

// Config holds configuration for the climate extractor.
type Config struct {
	// Source is the daily-meteorology provider (GridMET).
	Source Source

	// Logger for extraction operations.
	Logger zerolog.Logger
}

// Extractor computes CAMELS climate indices from daily meteorology sampled
// at the basin centroid.
type Extractor struct {
	source Source
	logger zerolog.Logger
}

// New creates a climate extractor.
func New(cfg Config) *Extractor {
	return &Extractor{
		source: cfg.Source,
		logger: cfg.Logger,
	}
}

// Domain returns the extraction domain.
func (e *Extractor) Domain() attrs.Domain {
	return attrs.DomainClimate
}

// Extract fetches the daily series for the period and reduces it to the
// domain's index set. On failure the documented defaults are returned with
// a degraded status.
func (e *Extractor) Extract(ctx context.Context, b *watershed.Boundary, period attrs.Period) (*attrs.Set, attrs.Status) {
	set, err := e.extract(ctx, b, period.OrDefault())
	if err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("climate extraction degraded to defaults")
		return Defaults(), attrs.Degraded(e.Domain(), err.Error())
	}
	return set, attrs.OK(e.Domain())
}

func (e *Extractor) extract(ctx context.Context, b *watershed.Boundary, period attrs.Period) (*attrs.Set, error) {
	daily, err := e.source.FetchDaily(ctx, b.Centroid, period)
	if err != nil {
		return nil, err
	}
	if daily.Len() == 0 {
		return nil, fmt.Errorf("%w: %s..%s", ErrEmptySeries,
			period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
	}

	indices := ComputeIndices(daily)
	set := attrs.NewSet()
	for _, key := range Keys() {
		set.PutNumber(key, indices[key])
	}
	return set, nil
}
