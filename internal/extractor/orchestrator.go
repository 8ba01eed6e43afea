// Package extractor orchestrates one gauge's attribute extraction run:
// delineation, the per-domain extractors, and aggregation into the fixed
// output schema.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/telemetry"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// runState tracks the orchestrator's progress through one run.
type runState string

const (
	stateCreated     runState = "created"
	stateDelineating runState = "delineating"
	stateDelineated  runState = "delineated"
	stateExtracting  runState = "extracting"
	stateAggregated  runState = "aggregated"
	stateFinalized   runState = "finalized"
)

// ErrNotExtracted is returned by accessors before a successful ExtractAll.
var ErrNotExtracted = errors.New("no extraction result yet")

// Delineator resolves a gauge to its watershed boundary.
type Delineator interface {
	Delineate(ctx context.Context, gaugeID string) (*watershed.Boundary, error)
}

// DomainExtractor is the uniform per-domain contract: extraction never
// returns an error, only an attribute set and a status describing how it
// was obtained.
type DomainExtractor interface {
	Domain() attrs.Domain
	Extract(ctx context.Context, b *watershed.Boundary, period attrs.Period) (*attrs.Set, attrs.Status)
}

// Config holds configuration for an orchestrator.
type Config struct {
	// GaugeID is the USGS station this orchestrator extracts.
	GaugeID string

	// ClimatePeriod bounds the climate record (zero value: the default
	// range).
	ClimatePeriod attrs.Period

	// HydroPeriod bounds the streamflow record (zero value: the default
	// range).
	HydroPeriod attrs.Period

	// Delineator resolves the watershed boundary.
	Delineator Delineator

	// Extractors are the domain extractors to run, at most one per
	// domain.
	Extractors []DomainExtractor

	// Logger for run progress.
	Logger zerolog.Logger

	// Concurrency bounds parallel domain extraction (default: 3).
	// Extractors only read the immutable boundary, so they are safe to
	// run concurrently.
	Concurrency int
}

// Orchestrator runs one gauge's extraction. Instances are not safe for
// concurrent use; batch runs create one per gauge.
type Orchestrator struct {
	gaugeID       string
	climatePeriod attrs.Period
	hydroPeriod   attrs.Period
	delineator    Delineator
	extractors    []DomainExtractor
	logger        zerolog.Logger
	concurrency   int

	mu       sync.Mutex
	state    runState
	boundary *watershed.Boundary
	result   *attrs.Result
}

// New creates an orchestrator for one gauge.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.GaugeID == "" {
		return nil, errors.New("gauge ID is required")
	}
	if cfg.Delineator == nil {
		return nil, errors.New("delineator is required")
	}
	seen := make(map[attrs.Domain]bool)
	for _, ex := range cfg.Extractors {
		if seen[ex.Domain()] {
			return nil, fmt.Errorf("duplicate extractor for domain %s", ex.Domain())
		}
		seen[ex.Domain()] = true
	}
	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = 3
	}
	return &Orchestrator{
		gaugeID:       cfg.GaugeID,
		climatePeriod: cfg.ClimatePeriod,
		hydroPeriod:   cfg.HydroPeriod,
		delineator:    cfg.Delineator,
		extractors:    cfg.Extractors,
		logger:        cfg.Logger.With().Str("gauge_id", cfg.GaugeID).Logger(),
		concurrency:   concurrency,
		state:         stateCreated,
	}, nil
}

// ExtractAll runs delineation and every domain extractor, aggregating one
// result. Prior run state is reset first, so re-running never leaks values
// from an earlier run. Only delineation failure is an error; degraded
// domains are recorded in the result's statuses.
func (o *Orchestrator) ExtractAll(ctx context.Context) (*attrs.Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Reset any prior run.
	o.state = stateCreated
	o.boundary = nil
	o.result = nil

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	logger := o.logger.With().Str("run_id", runID).Logger()

	tracer := telemetry.Tracer("extractor")
	ctx, span := tracer.Start(ctx, "extraction.run", trace.WithAttributes(
		attribute.String("gauge.id", o.gaugeID),
		attribute.String("run.id", runID),
	))
	defer span.End()

	o.state = stateDelineating
	logger.Info().Msg("delineating watershed")
	boundary, err := o.delineator.Delineate(ctx, o.gaugeID)
	if err != nil {
		logger.Error().Err(err).Msg("delineation failed, aborting run")
		return nil, err
	}
	o.boundary = boundary
	o.state = stateDelineated
	logger.Info().
		Float64("area_km2", boundary.AreaKm2).
		Str("huc_02", boundary.Site.HUC02).
		Msg("watershed delineated")

	o.state = stateExtracting
	outcomes := o.runExtractors(ctx, tracer, logger, boundary)
	o.state = stateAggregated

	merged := attrs.NewSet()
	statuses := make([]attrs.Status, 0, len(outcomes))
	for _, out := range outcomes {
		if err := merged.Merge(out.set); err != nil {
			// Duplicate keys across domains are a wiring bug, not a
			// runtime condition to degrade on.
			return nil, fmt.Errorf("aggregate domain %s: %w", out.status.Domain, err)
		}
		statuses = append(statuses, out.status)
	}

	result := &attrs.Result{
		RunID: runID,
		Gauge: attrs.GaugeInfo{
			ID:    boundary.Site.ID,
			Name:  boundary.Site.Name,
			Lat:   boundary.Site.Lat,
			Lon:   boundary.Site.Lon,
			HUC02: boundary.Site.HUC02,
		},
		Attributes:  merged,
		Statuses:    statuses,
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
	}
	o.result = result
	o.state = stateFinalized

	logger.Info().
		Int("attributes", merged.Len()).
		Dur("elapsed", result.CompletedAt.Sub(startedAt)).
		Msg("extraction finalized")
	return result.Clone(), nil
}

type outcome struct {
	set    *attrs.Set
	status attrs.Status
}

// runExtractors fans the domain extractors out over a bounded worker pool
// and returns their outcomes in canonical domain order.
func (o *Orchestrator) runExtractors(ctx context.Context, tracer trace.Tracer, logger zerolog.Logger, boundary *watershed.Boundary) []outcome {
	results := make([]outcome, len(o.extractors))
	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup

	for i, ex := range o.extractors {
		wg.Add(1)
		go func(i int, ex DomainExtractor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			domain := ex.Domain()
			ctx, span := tracer.Start(ctx, "extraction.domain", trace.WithAttributes(
				attribute.String("domain", string(domain)),
			))
			defer span.End()

			set, status := ex.Extract(ctx, boundary, o.periodFor(domain))
			if status.UsedDefaults() {
				logger.Warn().
					Str("domain", string(domain)).
					Str("state", string(status.State)).
					Str("reason", status.Reason).
					Msg("domain fell back to defaults")
			} else {
				logger.Info().Str("domain", string(domain)).Msg("domain extracted")
			}
			results[i] = outcome{set: set, status: status}
		}(i, ex)
	}
	wg.Wait()

	// Canonical domain order keeps merged key order and therefore output
	// columns deterministic regardless of completion order.
	ordered := make([]outcome, 0, len(results))
	for _, d := range attrs.Domains() {
		for _, out := range results {
			if out.status.Domain == d {
				ordered = append(ordered, out)
			}
		}
	}
	return ordered
}

// periodFor selects the date range a domain receives: climate and
// hydrology are period-bound, all other domains are date-independent.
func (o *Orchestrator) periodFor(d attrs.Domain) attrs.Period {
	switch d {
	case attrs.DomainClimate:
		return o.climatePeriod.OrDefault()
	case attrs.DomainHydrology:
		return o.hydroPeriod.OrDefault()
	}
	return attrs.Period{}
}

// Result returns a copy of the finalized result.
func (o *Orchestrator) Result() (*attrs.Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.result == nil {
		return nil, ErrNotExtracted
	}
	return o.result.Clone(), nil
}

// Boundary returns the watershed boundary from the last successful
// delineation.
func (o *Orchestrator) Boundary() (*watershed.Boundary, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.boundary == nil {
		return nil, ErrNotExtracted
	}
	return o.boundary, nil
}

// Table projects the finalized result into a single-row table with the
// fixed output schema.
func (o *Orchestrator) Table() (*attrs.Table, error) {
	result, err := o.Result()
	if err != nil {
		return nil, err
	}
	table := NewTable()
	if err := table.AppendRow(ResultRow(result)); err != nil {
		return nil, fmt.Errorf("project result row: %w", err)
	}
	return table, nil
}

// Save writes the finalized result to path. With FormatAuto the format is
// inferred from the file extension.
func (o *Orchestrator) Save(path string, format attrs.Format) error {
	table, err := o.Table()
	if err != nil {
		return err
	}
	return table.Save(path, format)
}
