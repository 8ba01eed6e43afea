package topography_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/topography"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// flatSource returns a constant elevation everywhere.
type flatSource struct {
	elev  float64
	err   error
	calls int
}

func (s *flatSource) Elevation(_ context.Context, _, _ float64) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.elev, nil
}

// rampSource increases elevation with latitude.
type rampSource struct{}

func (rampSource) Elevation(_ context.Context, lat, _ float64) (float64, error) {
	return lat * 1000, nil
}

func testBoundary() *watershed.Boundary {
	poly := geo.Polygon{Exterior: geo.Ring{
		{Lat: 45.0, Lon: -69.5},
		{Lat: 45.0, Lon: -69.0},
		{Lat: 45.5, Lon: -69.0},
		{Lat: 45.5, Lon: -69.5},
	}}
	return &watershed.Boundary{
		Site:     watershed.Site{ID: "01031500"},
		Polygon:  poly,
		AreaKm2:  poly.AreaKm2(),
		Centroid: poly.Centroid(),
	}
}

func TestExtractor_FlatTerrain(t *testing.T) {
	src := &flatSource{elev: 320.5}
	ex := topography.New(topography.Config{Source: src, Logger: zerolog.Nop(), GridSize: 6})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})
	require.Equal(t, attrs.StateOK, status.State)

	assert.Equal(t, topography.Keys(), set.Keys())

	v, _ := set.Get(topography.KeyElevMean)
	f, _ := v.Float64()
	assert.InDelta(t, 320.5, f, 1e-9)

	v, _ = set.Get(topography.KeyElevStd)
	f, _ = v.Float64()
	assert.InDelta(t, 0, f, 1e-9)

	v, _ = set.Get(topography.KeySlopeMean)
	f, _ = v.Float64()
	assert.InDelta(t, 0, f, 1e-9)

	assert.Greater(t, src.calls, 4)
}

func TestExtractor_RampHasPositiveSlope(t *testing.T) {
	ex := topography.New(topography.Config{Source: rampSource{}, Logger: zerolog.Nop(), GridSize: 6})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})
	require.Equal(t, attrs.StateOK, status.State)

	vMin, _ := set.Get(topography.KeyElevMin)
	vMax, _ := set.Get(topography.KeyElevMax)
	fMin, _ := vMin.Float64()
	fMax, _ := vMax.Float64()
	assert.Greater(t, fMax, fMin)

	v, _ := set.Get(topography.KeySlopeMean)
	slope, _ := v.Float64()
	assert.Greater(t, slope, 0.0)
}

func TestExtractor_DegradesToDefaultsOnSourceFailure(t *testing.T) {
	src := &flatSource{err: errors.New("service down")}
	ex := topography.New(topography.Config{Source: src, Logger: zerolog.Nop(), GridSize: 6})

	b := testBoundary()
	set, status := ex.Extract(context.Background(), b, attrs.Period{})

	assert.Equal(t, attrs.StateDegraded, status.State)
	assert.True(t, status.UsedDefaults())
	assert.Contains(t, status.Reason, "service down")

	// Full key set is still present.
	assert.Equal(t, topography.Keys(), set.Keys())

	// Area comes from the boundary even in the degraded case.
	v, _ := set.Get(topography.KeyArea)
	f, _ := v.Float64()
	assert.InDelta(t, b.AreaKm2, f, 1e-9)
}

func TestExtractor_AreaMatchesBoundary(t *testing.T) {
	ex := topography.New(topography.Config{Source: &flatSource{elev: 100}, Logger: zerolog.Nop(), GridSize: 6})

	b := testBoundary()
	set, _ := ex.Extract(context.Background(), b, attrs.Period{})

	v, _ := set.Get(topography.KeyArea)
	f, _ := v.Float64()
	assert.InDelta(t, b.AreaKm2, f, 1e-9)
}
