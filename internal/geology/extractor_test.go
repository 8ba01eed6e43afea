package geology_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/geology"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

type mockSource struct {
	comp *geology.Composition
	err  error
}

func (m *mockSource) Composition(context.Context, *watershed.Boundary) (*geology.Composition, error) {
	return m.comp, m.err
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

func TestExtract_ReportsTopTwoClasses(t *testing.T) {
	ex := geology.New(geology.Config{
		Source: &mockSource{comp: &geology.Composition{
			Classes: []geology.ClassShare{
				{Code: "mt", Frac: 0.6},
				{Code: "sc", Frac: 0.3},
				{Code: "su", Frac: 0.1},
			},
			Porosity:     0.07,
			Permeability: -13.2,
		}},
		Logger: zerolog.Nop(),
	})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})
	require.Equal(t, attrs.StateOK, status.State)
	assert.Equal(t, geology.Keys(), set.Keys())

	assert.Equal(t, "mt", text(t, set, geology.KeyFirstClass))
	assert.InDelta(t, 0.6, number(t, set, geology.KeyFirstClassFrac), 1e-9)
	assert.Equal(t, "sc", text(t, set, geology.KeySecondClass))
	assert.InDelta(t, 0.3, number(t, set, geology.KeySecondClassFrac), 1e-9)
	// Carbonate fraction comes from the sc share wherever it ranks.
	assert.InDelta(t, 0.3, number(t, set, geology.KeyCarbonateFrac), 1e-9)
	assert.InDelta(t, 0.07, number(t, set, geology.KeyPorosity), 1e-9)
	assert.InDelta(t, -13.2, number(t, set, geology.KeyPermeability), 1e-9)
}

func TestExtract_SingleClassBasin(t *testing.T) {
	ex := geology.New(geology.Config{
		Source: &mockSource{comp: &geology.Composition{
			Classes:      []geology.ClassShare{{Code: "va", Frac: 1.0}},
			Porosity:     0.12,
			Permeability: -12.5,
		}},
		Logger: zerolog.Nop(),
	})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})
	require.Equal(t, attrs.StateOK, status.State)

	assert.Equal(t, "va", text(t, set, geology.KeyFirstClass))
	assert.InDelta(t, 0.0, number(t, set, geology.KeySecondClassFrac), 1e-9)
	assert.InDelta(t, 0.0, number(t, set, geology.KeyCarbonateFrac), 1e-9)
}

func TestExtract_DegradesToDefaultsOnFailure(t *testing.T) {
	ex := geology.New(geology.Config{
		Source: &mockSource{err: errors.New("feature service down")},
		Logger: zerolog.Nop(),
	})

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})

	assert.Equal(t, attrs.StateDegraded, status.State)
	assert.Contains(t, status.Reason, "feature service down")
	assert.Equal(t, geology.Keys(), set.Keys())
	assert.Equal(t, geology.DefaultFirstClass, text(t, set, geology.KeyFirstClass))
}

func TestSkippedExtractor(t *testing.T) {
	ex := geology.NewSkipped("availability probe failed")

	set, status := ex.Extract(context.Background(), testBoundary(), attrs.Period{})

	assert.Equal(t, attrs.StateSkipped, status.State)
	assert.Equal(t, attrs.DomainGeology, status.Domain)
	assert.Equal(t, "availability probe failed", status.Reason)

	// Full documented key set, populated with defaults.
	assert.Equal(t, geology.Keys(), set.Keys())
	assert.InDelta(t, geology.DefaultPorosity, number(t, set, geology.KeyPorosity), 1e-9)
}
