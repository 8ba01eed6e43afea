package geo_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/geo"
)

// unitSquare is a 1°×1° box near the equator, where a degree is ~111.2 km.
func unitSquare() geo.Polygon {
	return geo.Polygon{Exterior: geo.Ring{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 0},
	}}
}

func TestPolygon_Contains(t *testing.T) {
	p := unitSquare()

	assert.True(t, p.Contains(geo.Point{Lat: 0.5, Lon: 0.5}))
	assert.False(t, p.Contains(geo.Point{Lat: 1.5, Lon: 0.5}))
	assert.False(t, p.Contains(geo.Point{Lat: -0.1, Lon: 0.5}))
}

func TestPolygon_ContainsRespectsHoles(t *testing.T) {
	p := unitSquare()
	p.Holes = []geo.Ring{{
		{Lat: 0.4, Lon: 0.4},
		{Lat: 0.4, Lon: 0.6},
		{Lat: 0.6, Lon: 0.6},
		{Lat: 0.6, Lon: 0.4},
	}}

	assert.False(t, p.Contains(geo.Point{Lat: 0.5, Lon: 0.5}))
	assert.True(t, p.Contains(geo.Point{Lat: 0.2, Lon: 0.2}))
}

func TestPolygon_AreaKm2(t *testing.T) {
	p := unitSquare()

	// One square degree at the equator is ~12,364 km²; the equal-area
	// approximation should be within 1%.
	area := p.AreaKm2()
	assert.InDelta(t, 12364, area, 12364*0.02)
}

func TestPolygon_Centroid(t *testing.T) {
	c := unitSquare().Centroid()
	assert.InDelta(t, 0.5, c.Lat, 1e-6)
	assert.InDelta(t, 0.5, c.Lon, 1e-6)
}

func TestPolygon_GridPoints(t *testing.T) {
	pts := unitSquare().GridPoints(5)

	// Edge points fail the strict ray-cast test, interior points remain.
	assert.NotEmpty(t, pts)
	for _, pt := range pts {
		assert.True(t, unitSquare().Contains(pt))
	}
}

func TestGeometry_AsPoint(t *testing.T) {
	var g geo.Geometry
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Point","coordinates":[-69.3147,45.1753]}`), &g))

	pt, err := g.AsPoint()
	require.NoError(t, err)
	assert.InDelta(t, 45.1753, pt.Lat, 1e-9)
	assert.InDelta(t, -69.3147, pt.Lon, 1e-9)
}

func TestGeometry_AsPolygon(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`
	var g geo.Geometry
	require.NoError(t, json.Unmarshal([]byte(raw), &g))

	poly, err := g.AsPolygon()
	require.NoError(t, err)
	assert.Len(t, poly.Exterior, 5)
	assert.Empty(t, poly.Holes)
}

func TestGeometry_AsPolygonPicksLargestMultiPolygonPart(t *testing.T) {
	raw := `{"type":"MultiPolygon","coordinates":[
		[[[0,0],[0.01,0],[0.01,0.01],[0,0.01],[0,0]]],
		[[[10,10],[12,10],[12,12],[10,12],[10,10]]]
	]}`
	var g geo.Geometry
	require.NoError(t, json.Unmarshal([]byte(raw), &g))

	poly, err := g.AsPolygon()
	require.NoError(t, err)
	assert.InDelta(t, 11, poly.Centroid().Lat, 0.1)
}

func TestGeometry_AsPolygonRejectsPoint(t *testing.T) {
	var g geo.Geometry
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Point","coordinates":[1,2]}`), &g))
	_, err := g.AsPolygon()
	assert.Error(t, err)
}
