package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		p := LatLng{Lat: 37.5665, Lng: 126.9780}
		assert.Equal(t, 0.0, HaversineMeters(p, p))
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		a := LatLng{Lat: 37.0, Lng: 127.0}
		b := LatLng{Lat: 38.0, Lng: 127.0}

		d := HaversineMeters(a, b)

		assert.InDelta(t, 111195, d, 500)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := LatLng{Lat: 37.5665, Lng: 126.9780}
		b := LatLng{Lat: 37.5512, Lng: 126.9882}
		assert.InDelta(t, HaversineMeters(a, b), HaversineMeters(b, a), 1e-9)
	})
}

func TestLatLngValid(t *testing.T) {
	assert.True(t, LatLng{Lat: 37.5, Lng: 127.0}.Valid())
	assert.True(t, LatLng{Lat: -90, Lng: 180}.Valid())
	assert.False(t, LatLng{Lat: 91, Lng: 0}.Valid())
	assert.False(t, LatLng{Lat: 0, Lng: -181}.Valid())
}

func TestCentroid(t *testing.T) {
	t.Run("mean of points", func(t *testing.T) {
		points := []LatLng{
			{Lat: 37.0, Lng: 127.0},
			{Lat: 38.0, Lng: 128.0},
		}

		c := Centroid(points)

		assert.InDelta(t, 37.5, c.Lat, 1e-9)
		assert.InDelta(t, 127.5, c.Lng, 1e-9)
	})

	t.Run("empty slice yields zero value", func(t *testing.T) {
		assert.Equal(t, LatLng{}, Centroid(nil))
	})
}

func TestProject(t *testing.T) {
	origin := LatLng{Lat: 0, Lng: 0}
	axis := Direction(origin, LatLng{Lat: 0, Lng: 1}).Unit()

	// Points further along the axis project further
	near := Project(LatLng{Lat: 0, Lng: 0.2}, origin, axis)
	far := Project(LatLng{Lat: 0, Lng: 0.8}, origin, axis)

	assert.Less(t, near, far)
	assert.InDelta(t, 0.2, near, 1e-9)
}

func TestSegmentsIntersect(t *testing.T) {
	t.Run("crossing diagonals intersect", func(t *testing.T) {
		assert.True(t, SegmentsIntersect(
			LatLng{Lat: 0, Lng: 0}, LatLng{Lat: 1, Lng: 1},
			LatLng{Lat: 0, Lng: 1}, LatLng{Lat: 1, Lng: 0},
		))
	})

	t.Run("parallel segments do not intersect", func(t *testing.T) {
		assert.False(t, SegmentsIntersect(
			LatLng{Lat: 0, Lng: 0}, LatLng{Lat: 0, Lng: 1},
			LatLng{Lat: 1, Lng: 0}, LatLng{Lat: 1, Lng: 1},
		))
	})

	t.Run("shared endpoint is not a crossing", func(t *testing.T) {
		assert.False(t, SegmentsIntersect(
			LatLng{Lat: 0, Lng: 0}, LatLng{Lat: 1, Lng: 1},
			LatLng{Lat: 1, Lng: 1}, LatLng{Lat: 2, Lng: 0},
		))
	})
}
