package geology

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// ErrNoCoverage is returned internally when no lithology polygons cover
// the basin.
var ErrNoCoverage = errors.New("no lithology coverage")

// Source provides basin lithology composition (GLiM + GLHYMPS).
type Source interface {
	Composition(ctx context.Context, b *watershed.Boundary) (*Composition, error)
}

// Config holds configuration for the geology extractor.
type Config struct {
	// Source is the lithology provider.
	Source Source

	// Logger for extraction operations.
	Logger zerolog.Logger
}

// Extractor reduces basin lithology composition to the geology attribute
// set.
type Extractor struct {
	source Source
	logger zerolog.Logger
}

// New creates a geology extractor.
func New(cfg Config) *Extractor {
	return &Extractor{
		source: cfg.Source,
		logger: cfg.Logger,
	}
}

// Domain returns the extraction domain.
func (e *Extractor) Domain() attrs.Domain {
	return attrs.DomainGeology
}

// Extract reports the two largest lithology classes, the carbonate
// fraction and mean subsurface properties. On failure the documented
// defaults are returned with a degraded status.
func (e *Extractor) Extract(ctx context.Context, b *watershed.Boundary, _ attrs.Period) (*attrs.Set, attrs.Status) {
	comp, err := e.source.Composition(ctx, b)
	if err == nil && len(comp.Classes) == 0 {
		err = ErrNoCoverage
	}
	if err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("geology extraction degraded to defaults")
		return Defaults(), attrs.Degraded(e.Domain(), err.Error())
	}

	first := comp.Classes[0]
	second := ClassShare{Code: DefaultSecondClass, Frac: 0}
	if len(comp.Classes) > 1 {
		second = comp.Classes[1]
	}

	var carbonate float64
	for _, cs := range comp.Classes {
		if cs.Code == carbonateClass {
			carbonate = cs.Frac
		}
	}

	set := attrs.NewSet()
	set.PutText(KeyFirstClass, first.Code)
	set.PutNumber(KeyFirstClassFrac, first.Frac)
	set.PutText(KeySecondClass, second.Code)
	set.PutNumber(KeySecondClassFrac, second.Frac)
	set.PutNumber(KeyCarbonateFrac, carbonate)
	set.PutNumber(KeyPorosity, comp.Porosity)
	set.PutNumber(KeyPermeability, comp.Permeability)
	return set, attrs.OK(e.Domain())
}

// SkippedExtractor is installed when the lithology source fails its
// availability probe at wiring time. It satisfies the same contract but
// always reports defaults with a skipped status.
type SkippedExtractor struct {
	reason string
}

// NewSkipped creates a default-returning geology extractor.
func NewSkipped(reason string) *SkippedExtractor {
	if reason == "" {
		reason = "lithology source unavailable"
	}
	return &SkippedExtractor{reason: reason}
}

// Domain returns the extraction domain.
func (s *SkippedExtractor) Domain() attrs.Domain {
	return attrs.DomainGeology
}

// Extract returns the documented defaults with a skipped status.
func (s *SkippedExtractor) Extract(context.Context, *watershed.Boundary, attrs.Period) (*attrs.Set, attrs.Status) {
	return Defaults(), attrs.Skipped(attrs.DomainGeology, s.reason)
}
