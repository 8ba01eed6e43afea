package batch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/batch"
	"github.com/galib9690/camels-attrs/internal/extractor"
	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/watershed"
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
	domain attrs.Domain
	key    string
	value  float64
}

func (f *fixedExtractor) Domain() attrs.Domain { return f.domain }

func (f *fixedExtractor) Extract(context.Context, *watershed.Boundary, attrs.Period) (*attrs.Set, attrs.Status) {
	set := attrs.NewSet()
	set.PutNumber(f.key, f.value)
	return set, attrs.OK(f.domain)
}

func newFactory(del extractor.Delineator) batch.OrchestratorFactory {
	return func(gaugeID string) (*extractor.Orchestrator, error) {
		return extractor.New(extractor.Config{
			GaugeID:    gaugeID,
			Delineator: del,
			Extractors: []extractor.DomainExtractor{
				&fixedExtractor{domain: attrs.DomainTopography, key: "elev_mean", value: 312.5},
			},
			Logger: zerolog.Nop(),
		})
	}
}

func TestRun_RowsInInputOrder(t *testing.T) {
	runner, err := batch.NewRunner(batch.Config{
		Factory:     newFactory(&stubDelineator{}),
		Concurrency: 4,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)

	gauges := []string{"01031500", "06803530", "08279500"}
	table, summary, err := runner.Run(context.Background(), gauges)
	require.NoError(t, err)

	require.Equal(t, len(gauges), table.NumRows())
	for i, id := range gauges {
		v, ok := table.Value(i, "gauge_id")
		require.True(t, ok)
		assert.Equal(t, id, v.String())
	}

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.OK)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, summary.Outcomes, 3)
	assert.Equal(t, "01031500", summary.Outcomes[0].GaugeID)
}

func TestRun_FailedGaugeGetsFailedRow(t *testing.T) {
	del := &stubDelineator{failFor: map[string]bool{"06803530": true}}
	runner, err := batch.NewRunner(batch.Config{Factory: newFactory(del), Logger: zerolog.Nop()})
	require.NoError(t, err)

	table, summary, err := runner.Run(context.Background(), []string{"01031500", "06803530"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.OK)
	assert.Equal(t, 1, summary.Failed)

	v, _ := table.Value(1, "run_status")
	assert.Equal(t, extractor.RunStatusFailed, v.String())
	v, _ = table.Value(1, "run_error")
	assert.Contains(t, v.String(), "06803530")

	// The failed row still carries the full schema with defaults.
	v, ok := table.Value(1, "elev_mean")
	require.True(t, ok)
	f, _ := v.Float64()
	assert.InDelta(t, 500.0, f, 1e-9)

	// The healthy gauge's row is untouched.
	v, _ = table.Value(0, "run_status")
	assert.Equal(t, extractor.RunStatusOK, v.String())
	v, _ = table.Value(0, "elev_mean")
	f, _ = v.Float64()
	assert.InDelta(t, 312.5, f, 1e-9)
}

func TestRun_AllGaugesFailed(t *testing.T) {
	del := &stubDelineator{failFor: map[string]bool{"a": true, "b": true}}
	runner, err := batch.NewRunner(batch.Config{Factory: newFactory(del), Logger: zerolog.Nop()})
	require.NoError(t, err)

	table, summary, err := runner.Run(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, batch.ErrAllGaugesFailed)

	// Table and summary still report what happened.
	require.NotNil(t, table)
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, 2, summary.Failed)
}

func TestRun_EmptyBatch(t *testing.T) {
	runner, err := batch.NewRunner(batch.Config{Factory: newFactory(&stubDelineator{}), Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, _, err = runner.Run(context.Background(), nil)
	assert.ErrorIs(t, err, batch.ErrNoGauges)
}

func TestRun_FactoryErrorCountsAsFailed(t *testing.T) {
	factory := func(gaugeID string) (*extractor.Orchestrator, error) {
		return nil, errors.New("bad wiring")
	}
	runner, err := batch.NewRunner(batch.Config{Factory: factory, Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, summary, err := runner.Run(context.Background(), []string{"01031500"})
	assert.ErrorIs(t, err, batch.ErrAllGaugesFailed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "bad wiring", summary.Outcomes[0].Error)
}

func TestNewRunner_RequiresFactory(t *testing.T) {
	_, err := batch.NewRunner(batch.Config{})
	assert.ErrorContains(t, err, "factory")
}
