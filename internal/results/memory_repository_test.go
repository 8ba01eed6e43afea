package results_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/results"
)

func storedResult(gaugeID, runID string, createdAt time.Time) *results.StoredResult {
	return &results.StoredResult{
		ID:        runID + "-row",
		RunID:     runID,
		GaugeID:   gaugeID,
		GaugeName: "Gauge " + gaugeID,
		Lat:       45.17,
		Lon:       -69.31,
		HUC02:     "01",
		Status:    results.StatusOK,
		Attributes: map[string]attrs.Value{
			"elev_mean": attrs.Number(312.5),
		},
		Statuses:  []attrs.Status{attrs.OK(attrs.DomainTopography)},
		CreatedAt: createdAt,
	}
}

func TestInMemoryRepository_LatestByGauge(t *testing.T) {
	repo := results.NewInMemoryRepository()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, storedResult("01031500", "run-1", base)))
	require.NoError(t, repo.Save(ctx, storedResult("01031500", "run-2", base.Add(time.Hour))))
	require.NoError(t, repo.Save(ctx, storedResult("06803530", "run-3", base.Add(2*time.Hour))))

	latest, err := repo.LatestByGauge(ctx, "01031500")
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest.RunID)

	_, err = repo.LatestByGauge(ctx, "08279500")
	assert.ErrorIs(t, err, results.ErrNotFound)
}

func TestInMemoryRepository_ListByGauge(t *testing.T) {
	repo := results.NewInMemoryRepository()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, runID := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, repo.Save(ctx, storedResult("01031500", runID, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := repo.ListByGauge(ctx, "01031500", results.ListOptions{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].RunID)
	assert.Equal(t, "run-1", runs[2].RunID)

	limited, err := repo.ListByGauge(ctx, "01031500", results.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-3", limited[0].RunID)

	empty, err := repo.ListByGauge(ctx, "unknown", results.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryRepository_SaveCopies(t *testing.T) {
	repo := results.NewInMemoryRepository()
	ctx := context.Background()

	original := storedResult("01031500", "run-1", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, original))

	// Mutating the caller's struct after Save must not change what was
	// stored.
	original.Status = "mangled"

	latest, err := repo.LatestByGauge(ctx, "01031500")
	require.NoError(t, err)
	assert.Equal(t, results.StatusOK, latest.Status)
}

func TestFromResult(t *testing.T) {
	set := attrs.NewSet()
	set.PutNumber("elev_mean", 455.2)
	set.PutText("dom_land_cover", "Forest")

	res := &attrs.Result{
		RunID: "run-abc",
		Gauge: attrs.GaugeInfo{
			ID:    "01031500",
			Name:  "Piscataquis River",
			Lat:   45.17,
			Lon:   -69.31,
			HUC02: "01",
		},
		Attributes: set,
		Statuses: []attrs.Status{
			attrs.OK(attrs.DomainTopography),
			attrs.Degraded(attrs.DomainClimate, "service unavailable"),
		},
		CompletedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	stored := results.FromResult(res)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "run-abc", stored.RunID)
	assert.Equal(t, "01031500", stored.GaugeID)
	assert.Equal(t, results.StatusDegraded, stored.Status)
	assert.Equal(t, res.CompletedAt, stored.CreatedAt)

	v, ok := stored.Attributes["elev_mean"]
	require.True(t, ok)
	f, _ := v.Float64()
	assert.InDelta(t, 455.2, f, 1e-9)
	assert.Equal(t, "Forest", stored.Attributes["dom_land_cover"].String())
}
