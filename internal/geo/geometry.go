// Package geo provides the small amount of planar/spheroidal geometry the
// extractors need: point-in-polygon tests, centroids, bounding boxes, and
// equal-area polygon area for watershed boundaries.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used for area computation.
const earthRadiusKm = 6371.0088

// Point is a geographic coordinate in EPSG:4326.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Ring is a closed sequence of points. The closing point may be omitted;
// all operations treat the ring as implicitly closed.
type Ring []Point

// Polygon is an exterior ring with optional interior holes.
type Polygon struct {
	Exterior Ring
	Holes    []Ring
}

// BBox is a latitude/longitude bounding box.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// BoundingBox returns the bounding box of the exterior ring.
func (p Polygon) BoundingBox() BBox {
	b := BBox{MinLon: math.MaxFloat64, MinLat: math.MaxFloat64, MaxLon: -math.MaxFloat64, MaxLat: -math.MaxFloat64}
	for _, pt := range p.Exterior {
		b.MinLon = math.Min(b.MinLon, pt.Lon)
		b.MinLat = math.Min(b.MinLat, pt.Lat)
		b.MaxLon = math.Max(b.MaxLon, pt.Lon)
		b.MaxLat = math.Max(b.MaxLat, pt.Lat)
	}
	return b
}

// Contains reports whether the point lies inside the polygon (exterior ring
// minus holes), using even-odd ray casting.
func (p Polygon) Contains(pt Point) bool {
	if !p.Exterior.contains(pt) {
		return false
	}
	for _, hole := range p.Holes {
		if hole.contains(pt) {
			return false
		}
	}
	return true
}

func (r Ring) contains(pt Point) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := r[i], r[j]
		if (a.Lat > pt.Lat) != (b.Lat > pt.Lat) {
			x := (b.Lon-a.Lon)*(pt.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if pt.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Centroid returns the area-weighted centroid of the exterior ring,
// computed on an equal-area projection about the ring's mean latitude.
func (p Polygon) Centroid() Point {
	r := p.Exterior
	if len(r) == 0 {
		return Point{}
	}
	lat0 := r.meanLat()
	cosLat := math.Cos(lat0 * math.Pi / 180)

	var area, cx, cy float64
	n := len(r)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		ax, ay := a.Lon*cosLat, a.Lat
		bx, by := b.Lon*cosLat, b.Lat
		cross := ax*by - bx*ay
		area += cross
		cx += (ax + bx) * cross
		cy += (ay + by) * cross
	}
	if math.Abs(area) < 1e-12 {
		// Degenerate ring, fall back to the vertex mean.
		var lat, lon float64
		for _, pt := range r {
			lat += pt.Lat
			lon += pt.Lon
		}
		return Point{Lat: lat / float64(n), Lon: lon / float64(n)}
	}
	area /= 2
	return Point{
		Lat: cy / (6 * area),
		Lon: cx / (6 * area) / cosLat,
	}
}

// AreaKm2 returns the polygon area in km², holes subtracted. The shoelace
// formula is evaluated on a cylindrical equal-area projection about the
// exterior ring's mean latitude, which is accurate to well under a percent
// for watershed-scale polygons.
func (p Polygon) AreaKm2() float64 {
	area := p.Exterior.areaKm2()
	for _, hole := range p.Holes {
		area -= hole.areaKm2()
	}
	if area < 0 {
		return 0
	}
	return area
}

func (r Ring) areaKm2() float64 {
	if len(r) < 3 {
		return 0
	}
	lat0 := r.meanLat() * math.Pi / 180
	kmPerDegLat := earthRadiusKm * math.Pi / 180
	kmPerDegLon := kmPerDegLat * math.Cos(lat0)

	var sum float64
	n := len(r)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		ax, ay := a.Lon*kmPerDegLon, a.Lat*kmPerDegLat
		bx, by := b.Lon*kmPerDegLon, b.Lat*kmPerDegLat
		sum += ax*by - bx*ay
	}
	return math.Abs(sum) / 2
}

func (r Ring) meanLat() float64 {
	var lat float64
	for _, pt := range r {
		lat += pt.Lat
	}
	return lat / float64(len(r))
}

// GridPoints returns up to n×n points laid out on a regular grid across the
// bounding box, filtered to points inside the polygon. Extractors use this
// to sample raster-backed point services over a basin.
func (p Polygon) GridPoints(n int) []Point {
	if n < 2 {
		n = 2
	}
	b := p.BoundingBox()
	dLat := (b.MaxLat - b.MinLat) / float64(n-1)
	dLon := (b.MaxLon - b.MinLon) / float64(n-1)

	var points []Point
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pt := Point{Lat: b.MinLat + float64(i)*dLat, Lon: b.MinLon + float64(j)*dLon}
			if p.Contains(pt) {
				points = append(points, pt)
			}
		}
	}
	return points
}
