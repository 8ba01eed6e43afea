package vegetation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/vegetation"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

type mockIndexes struct {
	lai     []float64
	laiErr  error
	ndvi    []float64
	ndviErr error
}

func (m *mockIndexes) SampleLAI(context.Context, *watershed.Boundary) ([]float64, error) {
	return m.lai, m.laiErr
}

func (m *mockIndexes) SampleNDVI(context.Context, *watershed.Boundary) ([]float64, error) {
	return m.ndvi, m.ndviErr
}

type mockCover struct {
	counts map[int]int
	err    error
}

func (m *mockCover) LandCover(context.Context, *watershed.Boundary) (map[int]int, error) {
	return m.counts, m.err
}

func number(t *testing.T, set *attrs.Set, key string) float64 {
	t.Helper()
	v, ok := set.Get(key)
	require.True(t, ok, key)
	f, ok := v.Float64()
	require.True(t, ok, key)
	return f
}

func text(t *testing.T, set *attrs.Set, key string) string {
	t.Helper()
	v, ok := set.Get(key)
	require.True(t, ok, key)
	return v.String()
}

func testBoundary() *watershed.Boundary {
	return &watershed.Boundary{Site: watershed.Site{ID: "01031500"}}
}

func TestExtract_AllSourcesOK(t *testing.T) {
	ex := vegetation.New(vegetation.Config{
		Indexes: &mockIndexes{
			// Raw LAI: ×0.1 gives 0.8..5.2; 250 (→25) is a fill value.
			lai: []float64{8, 52, 30, 250},
			// Raw NDVI: /1e4 gives 0.2, 0.8, 0.5; 20000 is out of range.
			ndvi: []float64{2000, 8000, 5000, 20000},
		},
		Cover: &mockCover{counts: map[int]int{
			42: 60, // Forest
			81: 20, // Cropland
			11: 10, // Water
			71: 10, // Grassland
		}},
		Logger: zerolog.Nop(),
	})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})
	require.Equal(t, attrs.StateOK, status.State)
	assert.Equal(t, vegetation.Keys(), set.Keys())

	assert.InDelta(t, 5.2, number(t, set, vegetation.KeyLAIMax), 1e-9)
	assert.InDelta(t, 0.8, number(t, set, vegetation.KeyLAIMin), 1e-9)
	assert.InDelta(t, 4.4, number(t, set, vegetation.KeyLAIDiff), 1e-9)

	assert.InDelta(t, 0.8, number(t, set, vegetation.KeyGVFMax), 1e-9)
	assert.InDelta(t, 0.6, number(t, set, vegetation.KeyGVFDiff), 1e-9)
	assert.InDelta(t, 0.5, number(t, set, vegetation.KeyGVFMean), 1e-9)

	assert.InDelta(t, 0.6, number(t, set, vegetation.KeyFracForest), 1e-9)
	assert.InDelta(t, 0.2, number(t, set, vegetation.KeyFracCropland), 1e-9)
	assert.InDelta(t, 0.1, number(t, set, vegetation.KeyWaterFrac), 1e-9)
	assert.Equal(t, "Forest", text(t, set, vegetation.KeyDomLandCover))
	assert.InDelta(t, 0.6, number(t, set, vegetation.KeyDomLandCoverFrac), 1e-9)

	// Root depths track the dominant cover.
	assert.InDelta(t, 0.7, number(t, set, vegetation.KeyRootDepth50), 1e-9)
	assert.InDelta(t, 2.0, number(t, set, vegetation.KeyRootDepth99), 1e-9)
}

func TestExtract_SubSourcesFailIndependently(t *testing.T) {
	ex := vegetation.New(vegetation.Config{
		Indexes: &mockIndexes{
			laiErr: errors.New("subset service down"),
			ndvi:   []float64{2000, 8000},
		},
		Cover:  &mockCover{err: errors.New("image service down")},
		Logger: zerolog.Nop(),
	})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})

	assert.Equal(t, attrs.StateDegraded, status.State)
	assert.Contains(t, status.Reason, "lai: subset service down")
	assert.Contains(t, status.Reason, "nlcd: image service down")
	assert.NotContains(t, status.Reason, "ndvi:")

	// LAI and cover keys fall back, NDVI keys keep fetched values.
	assert.InDelta(t, vegetation.DefaultLAIMax, number(t, set, vegetation.KeyLAIMax), 1e-9)
	assert.InDelta(t, 0.8, number(t, set, vegetation.KeyGVFMax), 1e-9)
	assert.Equal(t, "Forest", text(t, set, vegetation.KeyDomLandCover))
}

func TestExtract_WaterDominatedBasin(t *testing.T) {
	ex := vegetation.New(vegetation.Config{
		Indexes: &mockIndexes{lai: []float64{10}, ndvi: []float64{1000}},
		Cover:   &mockCover{counts: map[int]int{11: 90, 42: 10}},
		Logger:  zerolog.Nop(),
	})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})
	require.Equal(t, attrs.StateOK, status.State)

	assert.Equal(t, "Water", text(t, set, vegetation.KeyDomLandCover))
	assert.InDelta(t, 0.0, number(t, set, vegetation.KeyRootDepth50), 1e-9)
	assert.InDelta(t, 0.0, number(t, set, vegetation.KeyRootDepth99), 1e-9)
}

func TestExtract_UnknownDominantClassGetsGenericDepths(t *testing.T) {
	ex := vegetation.New(vegetation.Config{
		Indexes: &mockIndexes{lai: []float64{10}, ndvi: []float64{1000}},
		Cover:   &mockCover{counts: map[int]int{21: 80, 42: 20}},
		Logger:  zerolog.Nop(),
	})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})
	require.Equal(t, attrs.StateOK, status.State)

	assert.Equal(t, "Class21", text(t, set, vegetation.KeyDomLandCover))
	assert.InDelta(t, 0.4, number(t, set, vegetation.KeyRootDepth50), 1e-9)
	assert.InDelta(t, 1.0, number(t, set, vegetation.KeyRootDepth99), 1e-9)
}

func TestExtract_AllFillValuesDegrades(t *testing.T) {
	ex := vegetation.New(vegetation.Config{
		Indexes: &mockIndexes{
			lai:  []float64{250, 251}, // all above valid range after scaling
			ndvi: []float64{5000},
		},
		Cover:  &mockCover{counts: map[int]int{42: 1}},
		Logger: zerolog.Nop(),
	})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})

	assert.Equal(t, attrs.StateDegraded, status.State)
	assert.Contains(t, status.Reason, "lai: no valid vegetation samples")
	assert.InDelta(t, vegetation.DefaultLAIMax, number(t, set, vegetation.KeyLAIMax), 1e-9)
}
