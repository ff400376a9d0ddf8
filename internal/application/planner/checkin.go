package planner

import (
	"context"

	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// defaultDayStartMinute anchors arrival estimates when the day carries no
// explicit start window (09:00)
const defaultDayStartMinute = 9 * 60

// ApplyCheckInSplit marks the lodging check-in break on the day the
// check-in time falls inside the visit sequence.
//
// Arrival minutes are estimated walking the plan in order at straight-line
// speed plus the previous stop's stay. The break lands on the first
// waypoint whose estimated arrival (or pinned time) reaches the check-in
// minute; segment extraction later turns it into a lodging detour.
func ApplyCheckInSplit(ctx context.Context, plans []*trip.DayPlan, ordered []*trip.Cluster, in *trip.TripInput, wm trip.WaypointMap, cfg Config) {
	cfg = cfg.normalized()
	if in.Lodging == nil || in.CheckInTime == "" {
		return
	}
	checkInMinute, ok := trip.ParseClockMinutes(in.CheckInTime)
	if !ok {
		return
	}

	day := 0 // no check-in date means checking in on arrival day
	if in.CheckInDate != "" {
		d, ok := trip.DayIndexFromDates(in.TripStartDate, in.CheckInDate)
		if !ok || d < 0 || d >= len(plans) {
			return
		}
		day = d
	}

	plan := plans[day]
	if len(plan.WaypointOrder) == 0 {
		return
	}

	startMinute := defaultDayStartMinute
	if day < len(in.DayWindows) {
		if m, ok := trip.ParseClockMinutes(in.DayWindows[day].StartTime); ok {
			startMinute = m
		}
	}

	prev := DayStartAnchor(ordered, day, in, wm)
	arrival := float64(startMinute)

	for i, id := range plan.WaypointOrder {
		w, ok := wm[id]
		if !ok {
			continue
		}
		arrival += travelEstimateMinutes(prev, w.Coord, cfg.CheckInSpeedKmh)

		scheduled := arrival
		if w.Pinned() {
			if m, ok := trip.ParseClockMinutes(w.FixedStartTime); ok {
				scheduled = float64(m)
			}
		}

		if scheduled >= float64(checkInMinute) && i > 0 {
			idx := i
			plan.CheckInBreakIndex = &idx
			common.LoggerFromContext(ctx).Log("INFO", "Check-in break scheduled", map[string]interface{}{
				"day_index":   plan.DayIndex,
				"break_index": idx,
				"waypoint_id": id,
			})
			return
		}

		arrival = scheduled + float64(w.StayMinutes)
		prev = w.Coord
	}
}

// travelEstimateMinutes converts a straight-line hop into minutes at the
// given speed
func travelEstimateMinutes(from, to geo.LatLng, speedKmh float64) float64 {
	km := geo.HaversineMeters(from, to) / 1000
	return km / speedKmh * 60
}
