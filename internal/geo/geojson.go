package geo

import (
	"encoding/json"
	"fmt"
)

// GeoJSON decoding, limited to what the NLDI and related services return:
// FeatureCollections carrying Point, Polygon, and MultiPolygon geometries.

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON feature with free-form properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// StringProp returns a string-typed property, or "" when absent or not a
// string.
func (f Feature) StringProp(key string) string {
	if v, ok := f.Properties[key].(string); ok {
		return v
	}
	return ""
}

// Geometry is a GeoJSON geometry with raw coordinates.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// AsPoint decodes a Point geometry.
func (g Geometry) AsPoint() (Point, error) {
	if g.Type != "Point" {
		return Point{}, fmt.Errorf("geometry is %q, not Point", g.Type)
	}
	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return Point{}, fmt.Errorf("decode point coordinates: %w", err)
	}
	if len(coords) < 2 {
		return Point{}, fmt.Errorf("point has %d coordinates", len(coords))
	}
	// GeoJSON order is [lon, lat].
	return Point{Lon: coords[0], Lat: coords[1]}, nil
}

// AsPolygon decodes a Polygon or MultiPolygon geometry. For MultiPolygons
// the part with the largest exterior area is returned; watershed services
// occasionally emit slivers alongside the main basin.
func (g Geometry) AsPolygon() (Polygon, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return Polygon{}, fmt.Errorf("decode polygon coordinates: %w", err)
		}
		return polygonFromRings(rings)
	case "MultiPolygon":
		var parts [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &parts); err != nil {
			return Polygon{}, fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		var best Polygon
		bestArea := -1.0
		for _, rings := range parts {
			poly, err := polygonFromRings(rings)
			if err != nil {
				return Polygon{}, err
			}
			if a := poly.AreaKm2(); a > bestArea {
				best, bestArea = poly, a
			}
		}
		if bestArea < 0 {
			return Polygon{}, fmt.Errorf("multipolygon has no parts")
		}
		return best, nil
	default:
		return Polygon{}, fmt.Errorf("geometry is %q, not Polygon or MultiPolygon", g.Type)
	}
}

func polygonFromRings(rings [][][]float64) (Polygon, error) {
	if len(rings) == 0 {
		return Polygon{}, fmt.Errorf("polygon has no rings")
	}
	poly := Polygon{Exterior: ringFromCoords(rings[0])}
	if len(poly.Exterior) < 3 {
		return Polygon{}, fmt.Errorf("polygon exterior has %d points", len(poly.Exterior))
	}
	for _, hole := range rings[1:] {
		poly.Holes = append(poly.Holes, ringFromCoords(hole))
	}
	return poly, nil
}

func ringFromCoords(coords [][]float64) Ring {
	ring := make(Ring, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		ring = append(ring, Point{Lon: c[0], Lat: c[1]})
	}
	return ring
}
