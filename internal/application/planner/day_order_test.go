package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

func TestOrderWithinDay(t *testing.T) {
	cfg := DefaultConfig()
	start := geo.LatLng{Lat: 37.500, Lng: 127.000}
	end := geo.LatLng{Lat: 37.500, Lng: 127.100}

	t.Run("flexible waypoints follow the day axis", func(t *testing.T) {
		waypoints := []*trip.Waypoint{
			wp("far", 37.500, 127.080),
			wp("near", 37.500, 127.020),
			wp("mid", 37.500, 127.050),
		}
		wm := trip.NewWaypointMap(waypoints)
		c := cluster("c1", 1, geo.LatLng{}, "far", "near", "mid")

		order := OrderWithinDay(c, start, end, wm, cfg)

		assert.Equal(t, []string{"near", "mid", "far"}, order)
	})

	t.Run("pinned waypoints keep chronological order", func(t *testing.T) {
		lunch := wp("lunch", 37.500, 127.080)
		lunch.IsFixed = true
		lunch.FixedStartTime = "12:00"
		museum := wp("museum", 37.500, 127.020)
		museum.IsFixed = true
		museum.FixedStartTime = "15:00"
		wm := trip.NewWaypointMap([]*trip.Waypoint{lunch, museum})
		c := cluster("c1", 1, geo.LatLng{}, "museum", "lunch")

		order := OrderWithinDay(c, start, end, wm, cfg)

		require.Len(t, order, 2)
		assert.Equal(t, "lunch", order[0])
		assert.Equal(t, "museum", order[1])
	})

	t.Run("flexible stops weave around a pinned one", func(t *testing.T) {
		show := wp("show", 37.500, 127.030)
		show.IsFixed = true
		show.FixedStartTime = "11:00"
		waypoints := []*trip.Waypoint{
			show,
			wp("early", 37.500, 127.010), // closer to the pinned stop than to the day end
			wp("late", 37.500, 127.090),
		}
		wm := trip.NewWaypointMap(waypoints)
		c := cluster("c1", 1, geo.LatLng{}, "late", "show", "early")

		order := OrderWithinDay(c, start, end, wm, cfg)

		assert.Equal(t, []string{"early", "show", "late"}, order)
	})

	t.Run("unknown ids are dropped", func(t *testing.T) {
		wm := trip.NewWaypointMap([]*trip.Waypoint{wp("a", 37.500, 127.020)})
		c := cluster("c1", 1, geo.LatLng{}, "a", "ghost")

		order := OrderWithinDay(c, start, end, wm, cfg)

		assert.Equal(t, []string{"a"}, order)
	})
}

func TestDecross(t *testing.T) {
	start := geo.LatLng{Lat: 37.500, Lng: 127.000}
	end := geo.LatLng{Lat: 37.500, Lng: 127.020}

	// start->a crosses b->c; reversing a..b untangles the route
	wm := trip.NewWaypointMap([]*trip.Waypoint{
		wp("a", 37.510, 127.010),
		wp("b", 37.510, 127.000),
		wp("c", 37.500, 127.010),
	})

	t.Run("reverses the sub-path between crossing edges", func(t *testing.T) {
		order := []string{"a", "b", "c"}

		decross(order, map[int]bool{}, start, end, wm, 50)

		assert.Equal(t, []string{"b", "a", "c"}, order)
	})

	t.Run("a pinned stop inside the range blocks the reversal", func(t *testing.T) {
		order := []string{"a", "b", "c"}

		decross(order, map[int]bool{1: true}, start, end, wm, 50)

		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("short routes are left alone", func(t *testing.T) {
		order := []string{"a", "b"}

		decross(order, map[int]bool{}, start, end, wm, 50)

		assert.Equal(t, []string{"a", "b"}, order)
	})
}
