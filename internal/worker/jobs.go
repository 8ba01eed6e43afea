package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/extractor"
	"github.com/galib9690/camels-attrs/internal/results"
)

// OrchestratorFactory builds a per-gauge orchestrator bound to the job's
// extraction periods.
type OrchestratorFactory func(gaugeID string, climate, hydro attrs.Period) (*extractor.Orchestrator, error)

// ExtractionJob extracts attributes for batches of gauges and persists
// each gauge's result.
type ExtractionJob struct {
	config  JobConfig
	factory OrchestratorFactory
	repo    results.Repository
	logger  zerolog.Logger
}

// ExtractionJobConfig holds configuration for creating an ExtractionJob.
type ExtractionJobConfig struct {
	Config  JobConfig
	Factory OrchestratorFactory
	Repo    results.Repository
	Logger  zerolog.Logger
}

// NewExtractionJob creates a new extraction job processor.
func NewExtractionJob(cfg ExtractionJobConfig) (*ExtractionJob, error) {
	if cfg.Factory == nil {
		return nil, errors.New("orchestrator factory is required")
	}
	if cfg.Repo == nil {
		return nil, errors.New("results repository is required")
	}
	return &ExtractionJob{
		config:  cfg.Config.withDefaults(),
		factory: cfg.Factory,
		repo:    cfg.Repo,
		logger:  cfg.Logger,
	}, nil
}

// JobResult summarizes one batch of gauge extractions.
type JobResult struct {
	Duration   time.Duration
	Successful int
	Failed     int
	Gauges     int
}

// Run extracts every gauge in the batch and persists the results. Gauge
// failures are counted, not fatal; Run errors only when the whole batch
// failed so the message is redelivered.
func (j *ExtractionJob) Run(ctx context.Context, gaugeIDs []string, climate, hydro attrs.Period) (*JobResult, error) {
	if len(gaugeIDs) == 0 {
		return nil, errors.New("no gauge IDs in job")
	}

	started := time.Now()
	result := &JobResult{Gauges: len(gaugeIDs)}

	var mu sync.Mutex
	sem := make(chan struct{}, j.config.Concurrency)
	var wg sync.WaitGroup
	for _, id := range gaugeIDs {
		wg.Add(1)
		go func(gaugeID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			err := j.runGauge(ctx, gaugeID, climate, hydro)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				j.logger.Error().Err(err).Str("gauge_id", gaugeID).Msg("gauge extraction failed")
				result.Failed++
				return
			}
			result.Successful++
		}(id)
	}
	wg.Wait()

	result.Duration = time.Since(started)
	if result.Successful == 0 {
		return result, fmt.Errorf("all %d gauges failed", result.Gauges)
	}
	return result, nil
}

func (j *ExtractionJob) runGauge(ctx context.Context, gaugeID string, climate, hydro attrs.Period) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.GaugeTimeout)
	defer cancel()

	orch, err := j.factory(gaugeID, climate, hydro)
	if err != nil {
		return fmt.Errorf("build orchestrator: %w", err)
	}

	res, err := orch.ExtractAll(ctx)
	if err != nil {
		return err
	}

	if err := j.repo.Save(ctx, results.FromResult(res)); err != nil {
		return fmt.Errorf("persist result: %w", err)
	}
	return nil
}
