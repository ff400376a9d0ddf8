package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusMeters is the mean earth radius used for haversine distances
	EarthRadiusMeters = 6371000.0
)

// LatLng represents an immutable geographic coordinate
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies inside the WGS84 range
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// ApproxEquals reports whether two coordinates coincide within eps degrees
// on both axes
func (p LatLng) ApproxEquals(other LatLng, eps float64) bool {
	return math.Abs(p.Lat-other.Lat) <= eps && math.Abs(p.Lng-other.Lng) <= eps
}

func (p LatLng) String() string {
	return fmt.Sprintf("(%.6f,%.6f)", p.Lat, p.Lng)
}

// HaversineMeters calculates the great-circle distance between two
// coordinates in meters
func HaversineMeters(a, b LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Centroid returns the arithmetic mean of the given coordinates.
// Returns the zero value for an empty slice.
func Centroid(points []LatLng) LatLng {
	if len(points) == 0 {
		return LatLng{}
	}
	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(points))
	return LatLng{Lat: sumLat / n, Lng: sumLng / n}
}

// Vector is a 2D direction in (lat,lng) space used for axis projections.
// Projections treat degrees as a flat plane, which is adequate at city scale.
type Vector struct {
	DLat float64
	DLng float64
}

// Direction returns the vector pointing from a to b
func Direction(from, to LatLng) Vector {
	return Vector{DLat: to.Lat - from.Lat, DLng: to.Lng - from.Lng}
}

// Norm returns the Euclidean length of the vector
func (v Vector) Norm() float64 {
	return math.Sqrt(v.DLat*v.DLat + v.DLng*v.DLng)
}

// Unit returns the normalized vector. A zero vector is returned unchanged.
func (v Vector) Unit() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vector{DLat: v.DLat / n, DLng: v.DLng / n}
}

// Dot returns the dot product of two vectors
func (v Vector) Dot(other Vector) float64 {
	return v.DLat*other.DLat + v.DLng*other.DLng
}

// Project returns the scalar projection of (p - origin) onto the unit axis
func Project(p, origin LatLng, axis Vector) float64 {
	return Direction(origin, p).Dot(axis)
}

// cross returns the z component of (b-a) x (c-a)
func cross(a, b, c LatLng) float64 {
	return (b.Lng-a.Lng)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lng-a.Lng)
}

// SegmentsIntersect reports whether segments p1-p2 and p3-p4 properly
// intersect. Touching endpoints and collinear overlaps do not count; only a
// strict sign change on both segments is treated as a crossing.
func SegmentsIntersect(p1, p2, p3, p4 LatLng) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
