package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

func planWaypointIDs(out *trip.TripOutput) map[string]int {
	seen := make(map[string]int)
	for _, p := range out.DayPlans {
		for _, id := range p.WaypointOrder {
			seen[id]++
		}
		for _, id := range p.ExcludedWaypointIDs {
			seen[id]++
		}
	}
	return seen
}

func TestPlanTrip(t *testing.T) {
	ctx := context.Background()
	start := geo.LatLng{Lat: 37.5665, Lng: 126.9780}
	lodging := geo.LatLng{Lat: 37.5512, Lng: 126.9882}

	twoNeighborhoods := func() []*trip.Waypoint {
		return []*trip.Waypoint{
			wp("n1", 37.5700, 126.9800),
			wp("n2", 37.5710, 126.9810),
			wp("s1", 37.5000, 127.0600),
			wp("s2", 37.5010, 127.0610),
		}
	}

	t.Run("plans a two day loop trip end to end", func(t *testing.T) {
		svc := NewService(&stubRouter{}, DefaultConfig())
		in := &trip.TripInput{
			TripID:          "trip-1",
			Days:            2,
			Start:           start,
			Lodging:         &lodging,
			Waypoints:       twoNeighborhoods(),
			DailyMaxMinutes: 600,
		}

		out, err := svc.PlanTrip(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "trip-1", out.TripID)
		assert.Equal(t, trip.ModeLoop, out.Mode)
		require.Len(t, out.DayPlans, 2)
		assert.NotEmpty(t, out.SegmentCosts)

		seen := planWaypointIDs(out)
		for _, id := range []string{"n1", "n2", "s1", "s2"} {
			assert.Equal(t, 1, seen[id], "waypoint %s", id)
		}
	})

	t.Run("generates a trip id when missing", func(t *testing.T) {
		svc := NewService(&stubRouter{}, DefaultConfig())
		in := &trip.TripInput{
			Days:      1,
			Start:     start,
			Waypoints: []*trip.Waypoint{wp("a", 37.5700, 126.9800)},
		}

		out, err := svc.PlanTrip(ctx, in)

		require.NoError(t, err)
		assert.NotEmpty(t, out.TripID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc := NewService(&stubRouter{}, DefaultConfig())

		t.Run("nil", func(t *testing.T) {
			_, err := svc.PlanTrip(ctx, nil)
			var invalid *trip.InvalidInputError
			assert.ErrorAs(t, err, &invalid)
		})

		t.Run("zero days", func(t *testing.T) {
			_, err := svc.PlanTrip(ctx, &trip.TripInput{
				Days:      0,
				Start:     start,
				Waypoints: []*trip.Waypoint{wp("a", 37.57, 126.98)},
			})
			var validation *trip.ValidationError
			assert.ErrorAs(t, err, &validation)
		})

		t.Run("start out of range", func(t *testing.T) {
			_, err := svc.PlanTrip(ctx, &trip.TripInput{
				Days:      1,
				Start:     geo.LatLng{Lat: 95, Lng: 127},
				Waypoints: []*trip.Waypoint{wp("a", 37.57, 126.98)},
			})
			var validation *trip.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	})

	t.Run("honors a day lock", func(t *testing.T) {
		svc := NewService(&stubRouter{}, DefaultConfig())
		waypoints := twoNeighborhoods()
		waypoints[0].DayLock = 2

		in := &trip.TripInput{
			TripID:          "trip-lock",
			Days:            2,
			Start:           start,
			Lodging:         &lodging,
			Waypoints:       waypoints,
			DailyMaxMinutes: 600,
		}

		out, err := svc.PlanTrip(ctx, in)

		require.NoError(t, err)
		var dayTwo *trip.DayPlan
		for _, p := range out.DayPlans {
			if p.DayIndex == 2 {
				dayTwo = p
			}
		}
		require.NotNil(t, dayTwo)
		assert.Contains(t, dayTwo.WaypointOrder, "n1")
	})

	t.Run("keeps pinned waypoints through reconciliation", func(t *testing.T) {
		svc := NewService(&stubRouter{}, DefaultConfig())
		show := wp("show", 37.5700, 126.9800)
		show.IsFixed = true
		show.FixedStartTime = "12:00"
		show.StayMinutes = 100
		f1 := wp("f1", 37.5790, 126.9800)
		f1.StayMinutes = 100
		f2 := wp("f2", 37.5880, 126.9800)
		f2.StayMinutes = 100

		in := &trip.TripInput{
			TripID:          "trip-tight",
			Days:            1,
			Start:           start,
			Waypoints:       []*trip.Waypoint{show, f1, f2},
			DailyMaxMinutes: 250,
		}

		out, err := svc.PlanTrip(ctx, in)

		require.NoError(t, err)
		require.Len(t, out.DayPlans, 1)
		plan := out.DayPlans[0]
		assert.Contains(t, plan.WaypointOrder, "show")
		assert.Len(t, plan.ExcludedWaypointIDs, 1)
		assert.NotContains(t, plan.ExcludedWaypointIDs, "show")
	})

	t.Run("cancellation aborts the pipeline", func(t *testing.T) {
		svc := NewService(&stubRouter{}, DefaultConfig())
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.PlanTrip(cancelled, &trip.TripInput{
			TripID:    "trip-cancel",
			Days:      1,
			Start:     start,
			Waypoints: []*trip.Waypoint{wp("a", 37.57, 126.98)},
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
