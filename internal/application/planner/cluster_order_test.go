package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

func cluster(id string, day int, centroid geo.LatLng, ids ...string) *trip.Cluster {
	return &trip.Cluster{ClusterID: id, DayIndex: day, WaypointIDs: ids, Centroid: centroid}
}

func TestChooseEndAnchor(t *testing.T) {
	t.Run("lodging wins when set", func(t *testing.T) {
		lodging := geo.LatLng{Lat: 37.55, Lng: 126.98}
		in := &trip.TripInput{Lodging: &lodging}

		anchor := ChooseEndAnchor(in, nil)

		assert.Equal(t, lodging, anchor)
	})

	t.Run("otherwise the centroid farthest from the mean", func(t *testing.T) {
		in := &trip.TripInput{Start: geo.LatLng{Lat: 37.50, Lng: 127.00}}
		clusters := []*trip.Cluster{
			cluster("c1", 1, geo.LatLng{Lat: 37.50, Lng: 127.00}, "a"),
			cluster("c2", 2, geo.LatLng{Lat: 37.51, Lng: 127.01}, "b"),
			cluster("c3", 3, geo.LatLng{Lat: 37.70, Lng: 127.20}, "c"),
		}

		anchor := ChooseEndAnchor(in, clusters)

		assert.Equal(t, clusters[2].Centroid, anchor)
	})

	t.Run("no clusters falls back to start", func(t *testing.T) {
		in := &trip.TripInput{Start: geo.LatLng{Lat: 37.50, Lng: 127.00}}
		assert.Equal(t, in.Start, ChooseEndAnchor(in, nil))
	})
}

func TestOrderClusters(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()

	t.Run("orders along the start to end axis", func(t *testing.T) {
		in := &trip.TripInput{Start: geo.LatLng{Lat: 37.50, Lng: 127.00}, Days: 3}
		end := geo.LatLng{Lat: 37.50, Lng: 127.30}
		// Deliberately shuffled against the axis
		clusters := []*trip.Cluster{
			cluster("far", 1, geo.LatLng{Lat: 37.50, Lng: 127.20}, "f"),
			cluster("near", 2, geo.LatLng{Lat: 37.50, Lng: 127.02}, "n"),
			cluster("mid", 3, geo.LatLng{Lat: 37.50, Lng: 127.10}, "m"),
		}

		ordered := OrderClusters(ctx, clusters, in, end, cfg)

		require.Len(t, ordered, 3)
		assert.Equal(t, "near", ordered[0].ClusterID)
		assert.Equal(t, "mid", ordered[1].ClusterID)
		assert.Equal(t, "far", ordered[2].ClusterID)
	})

	t.Run("renumbers day indices to the new order", func(t *testing.T) {
		in := &trip.TripInput{Start: geo.LatLng{Lat: 37.50, Lng: 127.00}, Days: 2}
		end := geo.LatLng{Lat: 37.50, Lng: 127.30}
		clusters := []*trip.Cluster{
			cluster("far", 1, geo.LatLng{Lat: 37.50, Lng: 127.20}, "f"),
			cluster("near", 2, geo.LatLng{Lat: 37.50, Lng: 127.02}, "n"),
		}

		ordered := OrderClusters(ctx, clusters, in, end, cfg)

		for i, c := range ordered {
			assert.Equal(t, i+1, c.DayIndex)
		}
	})

	t.Run("single non-empty cluster is untouched", func(t *testing.T) {
		in := &trip.TripInput{Start: geo.LatLng{Lat: 37.50, Lng: 127.00}, Days: 2}
		clusters := []*trip.Cluster{
			cluster("only", 1, geo.LatLng{Lat: 37.51, Lng: 127.01}, "a"),
			cluster("empty", 2, geo.LatLng{}),
		}

		ordered := OrderClusters(ctx, clusters, in, in.Start, cfg)

		assert.Equal(t, "only", ordered[0].ClusterID)
	})
}

func TestDayAnchors(t *testing.T) {
	lodging := geo.LatLng{Lat: 37.55, Lng: 126.98}
	start := geo.LatLng{Lat: 37.50, Lng: 127.00}
	end := geo.LatLng{Lat: 37.60, Lng: 127.10}

	ordered := []*trip.Cluster{
		cluster("c1", 1, geo.LatLng{Lat: 37.51, Lng: 127.01}, "a"),
		cluster("c2", 2, geo.LatLng{Lat: 37.52, Lng: 127.02}, "b"),
	}

	t.Run("with lodging every day starts and ends there except day one", func(t *testing.T) {
		in := &trip.TripInput{Start: start, Lodging: &lodging, Days: 2}
		wm := trip.WaypointMap{}

		assert.Equal(t, start, DayStartAnchor(ordered, 0, in, wm))
		assert.Equal(t, lodging, DayStartAnchor(ordered, 1, in, wm))
		assert.Equal(t, lodging, DayEndAnchor(ordered, 0, in))
		assert.Equal(t, lodging, DayEndAnchor(ordered, 1, in))
	})

	t.Run("without lodging the last day heads to the trip end", func(t *testing.T) {
		in := &trip.TripInput{Start: start, End: &end, Days: 2}

		assert.Equal(t, ordered[1].Centroid, DayEndAnchor(ordered, 0, in))
		assert.Equal(t, end, DayEndAnchor(ordered, 1, in))
	})

	t.Run("without lodging a day starts where the previous ended", func(t *testing.T) {
		in := &trip.TripInput{Start: start, Days: 2}
		wm := trip.NewWaypointMap([]*trip.Waypoint{wp("a", 37.515, 127.015)})

		got := DayStartAnchor(ordered, 1, in, wm)

		assert.Equal(t, wm["a"].Coord, got)
	})
}
