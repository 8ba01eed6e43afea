// Package batch runs attribute extraction across many gauges and collects
// the per-gauge outcomes into a single table.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/extractor"
)

// ErrAllGaugesFailed is returned when no gauge in the batch produced a
// result row with live or default attributes.
var ErrAllGaugesFailed = errors.New("all gauges failed")

// ErrNoGauges is returned when the batch is empty.
var ErrNoGauges = errors.New("no gauge IDs supplied")

// OrchestratorFactory builds a per-gauge orchestrator. The batch runner
// never shares orchestrators between gauges.
type OrchestratorFactory func(gaugeID string) (*extractor.Orchestrator, error)

// GaugeOutcome records how one gauge's extraction concluded.
type GaugeOutcome struct {
	GaugeID  string        `json:"gauge_id"`
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Degraded []string      `json:"degraded_domains,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Summary aggregates the outcomes of a batch run.
type Summary struct {
	Total    int            `json:"total"`
	OK       int            `json:"ok"`
	Degraded int            `json:"degraded"`
	Failed   int            `json:"failed"`
	Outcomes []GaugeOutcome `json:"outcomes"`
}

// Config holds batch runner configuration.
type Config struct {
	Factory OrchestratorFactory

	// Concurrency bounds how many gauges extract at once. Defaults to 1:
	// the upstream services already see per-gauge fan-out, so gauges run
	// serially unless the caller opts in.
	Concurrency int

	Logger zerolog.Logger
}

// Runner extracts attributes for a list of gauges.
type Runner struct {
	factory     OrchestratorFactory
	concurrency int
	logger      zerolog.Logger
}

// NewRunner creates a batch runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Factory == nil {
		return nil, errors.New("orchestrator factory is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Runner{
		factory:     cfg.Factory,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
	}, nil
}

type gaugeResult struct {
	row     map[string]attrs.Value
	outcome GaugeOutcome
}

// Run extracts every gauge and returns the combined table plus a summary.
// A gauge whose delineation fails contributes a failed row with default
// attribute values; the batch only errors when every gauge fails.
func (r *Runner) Run(ctx context.Context, gaugeIDs []string) (*attrs.Table, *Summary, error) {
	if len(gaugeIDs) == 0 {
		return nil, nil, ErrNoGauges
	}

	results := make([]gaugeResult, len(gaugeIDs))

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup
	for i, id := range gaugeIDs {
		wg.Add(1)
		go func(idx int, gaugeID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = r.runGauge(ctx, gaugeID)
		}(i, id)
	}
	wg.Wait()

	table := extractor.NewTable()
	summary := &Summary{Total: len(gaugeIDs)}
	for _, res := range results {
		if err := table.AppendRow(res.row); err != nil {
			return nil, nil, fmt.Errorf("append row for gauge %s: %w", res.outcome.GaugeID, err)
		}
		summary.Outcomes = append(summary.Outcomes, res.outcome)
		switch res.outcome.Status {
		case extractor.RunStatusOK:
			summary.OK++
		case extractor.RunStatusDegraded:
			summary.Degraded++
		default:
			summary.Failed++
		}
	}

	if summary.Failed == summary.Total {
		return table, summary, ErrAllGaugesFailed
	}
	return table, summary, nil
}

func (r *Runner) runGauge(ctx context.Context, gaugeID string) gaugeResult {
	started := time.Now()
	logger := r.logger.With().Str("gauge_id", gaugeID).Logger()

	orch, err := r.factory(gaugeID)
	if err != nil {
		logger.Error().Err(err).Msg("orchestrator setup failed")
		return failedResult(gaugeID, err, started)
	}

	result, err := orch.ExtractAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("extraction failed")
		return failedResult(gaugeID, err, started)
	}

	row := extractor.ResultRow(result)
	outcome := GaugeOutcome{
		GaugeID: gaugeID,
		Status:  extractor.RunStatusOK,
		Elapsed: time.Since(started),
	}
	for _, d := range result.DegradedDomains() {
		outcome.Degraded = append(outcome.Degraded, string(d))
	}
	if len(outcome.Degraded) > 0 {
		outcome.Status = extractor.RunStatusDegraded
	}
	logger.Info().
		Str("status", outcome.Status).
		Dur("elapsed", outcome.Elapsed).
		Msg("gauge complete")
	return gaugeResult{row: row, outcome: outcome}
}

func failedResult(gaugeID string, err error, started time.Time) gaugeResult {
	return gaugeResult{
		row: extractor.FailedRow(gaugeID, err),
		outcome: GaugeOutcome{
			GaugeID: gaugeID,
			Status:  extractor.RunStatusFailed,
			Error:   err.Error(),
			Elapsed: time.Since(started),
		},
	}
}
