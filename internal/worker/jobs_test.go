package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/extractor"
	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/results"
	"github.com/galib9690/camels-attrs/internal/watershed"
	"github.com/galib9690/camels-attrs/internal/worker"
)

type stubDelineator struct {
	failFor map[string]bool
}

func (s *stubDelineator) Delineate(_ context.Context, gaugeID string) (*watershed.Boundary, error) {
	if s.failFor[gaugeID] {
		return nil, &watershed.DelineationError{GaugeID: gaugeID, Err: errors.New("no basin")}
	}
	return &watershed.Boundary{
		Site:     watershed.Site{ID: gaugeID, Name: "Gauge " + gaugeID, Lat: 41.0, Lon: -96.5, HUC02: "10"},
		AreaKm2:  120.5,
		Centroid: geo.Point{Lat: 41.0, Lon: -96.5},
	}, nil
}

type fixedExtractor struct {
	gotPeriod attrs.Period
}

func (f *fixedExtractor) Domain() attrs.Domain { return attrs.DomainClimate }

func (f *fixedExtractor) Extract(_ context.Context, _ *watershed.Boundary, period attrs.Period) (*attrs.Set, attrs.Status) {
	f.gotPeriod = period
	set := attrs.NewSet()
	set.PutNumber("p_mean", 3.1)
	return set, attrs.OK(attrs.DomainClimate)
}

func newFactory(del extractor.Delineator, climateExtractor *fixedExtractor) worker.OrchestratorFactory {
	return func(gaugeID string, climate, hydro attrs.Period) (*extractor.Orchestrator, error) {
		return extractor.New(extractor.Config{
			GaugeID:       gaugeID,
			ClimatePeriod: climate,
			HydroPeriod:   hydro,
			Delineator:    del,
			Extractors:    []extractor.DomainExtractor{climateExtractor},
			Logger:        zerolog.Nop(),
		})
	}
}

func TestExtractionJob_Run(t *testing.T) {
	repo := results.NewInMemoryRepository()
	climateExtractor := &fixedExtractor{}
	job, err := worker.NewExtractionJob(worker.ExtractionJobConfig{
		Config:  worker.JobConfig{Concurrency: 1},
		Factory: newFactory(&stubDelineator{}, climateExtractor),
		Repo:    repo,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	climate, err := attrs.ParsePeriod("2005-01-01", "2010-12-31")
	require.NoError(t, err)

	result, err := job.Run(context.Background(), []string{"01031500", "06803530"}, climate, attrs.Period{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Gauges)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 0, result.Failed)

	// Both gauges were persisted.
	for _, id := range []string{"01031500", "06803530"} {
		stored, err := repo.LatestByGauge(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, stored.GaugeID)
		f, ok := stored.Attributes["p_mean"].Float64()
		require.True(t, ok)
		assert.InDelta(t, 3.1, f, 1e-9)
	}

	// The message's climate period reached the extractor.
	assert.Equal(t, 2005, climateExtractor.gotPeriod.Start.Year())
}

func TestExtractionJob_PartialFailure(t *testing.T) {
	repo := results.NewInMemoryRepository()
	del := &stubDelineator{failFor: map[string]bool{"06803530": true}}
	job, err := worker.NewExtractionJob(worker.ExtractionJobConfig{
		Factory: newFactory(del, &fixedExtractor{}),
		Repo:    repo,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	result, err := job.Run(context.Background(), []string{"01031500", "06803530"}, attrs.Period{}, attrs.Period{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)

	_, err = repo.LatestByGauge(context.Background(), "06803530")
	assert.ErrorIs(t, err, results.ErrNotFound)
}

func TestExtractionJob_AllFailed(t *testing.T) {
	del := &stubDelineator{failFor: map[string]bool{"a": true, "b": true}}
	job, err := worker.NewExtractionJob(worker.ExtractionJobConfig{
		Factory: newFactory(del, &fixedExtractor{}),
		Repo:    results.NewInMemoryRepository(),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	result, err := job.Run(context.Background(), []string{"a", "b"}, attrs.Period{}, attrs.Period{})
	require.Error(t, err)
	assert.Equal(t, 2, result.Failed)
}

func TestExtractionJob_EmptyBatch(t *testing.T) {
	job, err := worker.NewExtractionJob(worker.ExtractionJobConfig{
		Factory: newFactory(&stubDelineator{}, &fixedExtractor{}),
		Repo:    results.NewInMemoryRepository(),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = job.Run(context.Background(), nil, attrs.Period{}, attrs.Period{})
	assert.ErrorContains(t, err, "no gauge IDs")
}

func TestNewExtractionJob_Validation(t *testing.T) {
	_, err := worker.NewExtractionJob(worker.ExtractionJobConfig{
		Repo: results.NewInMemoryRepository(),
	})
	assert.ErrorContains(t, err, "factory")

	_, err = worker.NewExtractionJob(worker.ExtractionJobConfig{
		Factory: newFactory(&stubDelineator{}, &fixedExtractor{}),
	})
	assert.ErrorContains(t, err, "repository")
}
