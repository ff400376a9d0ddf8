package planner

import (
	"context"

	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// destinationDistinctEps: the final hop to the trip destination is only
// emitted when the destination differs from the last stop by more than this
// many degrees on either axis
const destinationDistinctEps = 1e-5

// ExtractSegments turns the day plans into the ordered list of directed
// coordinate pairs the routing client must cost, including the origin,
// lodging and destination bookends and check-in detours.
//
// The result is deterministic in (plans, waypoints, start, end, lodging).
// Segments with an unresolvable coordinate are dropped with a warning.
func ExtractSegments(ctx context.Context, plans []*trip.DayPlan, in *trip.TripInput, wm trip.WaypointMap) []routing.SegmentRequest {
	var flat []routing.SegmentRequest
	for _, daySegs := range ExtractSegmentsByDay(ctx, plans, in, wm) {
		flat = append(flat, daySegs...)
	}
	return flat
}

// ExtractSegmentsByDay is ExtractSegments with the result grouped per day,
// aligned with plans. Reconciliation uses the grouping to attribute segment
// durations to their day.
func ExtractSegmentsByDay(ctx context.Context, plans []*trip.DayPlan, in *trip.TripInput, wm trip.WaypointMap) [][]routing.SegmentRequest {
	logger := common.LoggerFromContext(ctx)

	resolve := func(id string) (geo.LatLng, bool) {
		switch id {
		case routing.OriginID:
			return in.Start, true
		case routing.DestinationID:
			if in.End != nil {
				return *in.End, true
			}
			return geo.LatLng{}, false
		case routing.AccommodationID:
			if in.Lodging != nil {
				return *in.Lodging, true
			}
			return geo.LatLng{}, false
		default:
			if w, ok := wm[id]; ok {
				return w.Coord, true
			}
			return geo.LatLng{}, false
		}
	}

	byDay := make([][]routing.SegmentRequest, len(plans))
	var current *[]routing.SegmentRequest
	appendHop := func(fromID, toID string) {
		from, okFrom := resolve(fromID)
		to, okTo := resolve(toID)
		if !okFrom || !okTo {
			logger.Log("WARN", "Dropping segment with unresolvable coordinate", map[string]interface{}{
				"from_id": fromID,
				"to_id":   toID,
			})
			return
		}
		*current = append(*current, routing.SegmentRequest{
			Key:  routing.SegmentKey{FromID: fromID, ToID: toID},
			From: from,
			To:   to,
		})
	}

	lastVisited := ""
	for di, plan := range plans {
		current = &byDay[di]
		order := plan.WaypointOrder
		if len(order) == 0 {
			continue
		}

		startID := daySegmentStartID(di, lastVisited, in)
		if startID != "" {
			appendHop(startID, order[0])
		}

		breakAt := -1
		if plan.CheckInBreakIndex != nil && in.Lodging != nil {
			breakAt = *plan.CheckInBreakIndex
		}
		for i := 0; i+1 < len(order); i++ {
			if breakAt == i+1 {
				// Detour through lodging instead of the straight edge
				appendHop(order[i], routing.AccommodationID)
				appendHop(routing.AccommodationID, order[i+1])
				continue
			}
			appendHop(order[i], order[i+1])
		}

		last := order[len(order)-1]
		if endID := daySegmentEndID(di, len(plans), last, in, wm); endID != "" {
			appendHop(last, endID)
		}
		lastVisited = last
	}
	return byDay
}

// daySegmentStartID picks where a day's route departs from: the trip origin
// on day one, lodging when available, otherwise the previous day's last stop
func daySegmentStartID(day int, lastVisited string, in *trip.TripInput) string {
	if day == 0 {
		return routing.OriginID
	}
	if in.Lodging != nil {
		return routing.AccommodationID
	}
	return lastVisited
}

// daySegmentEndID picks where a day's route heads after its last stop.
// Empty means the day simply ends at its last waypoint. Days with lodging
// return there; otherwise the last day heads to the destination, which for
// a loop trip is the return leg to the start.
func daySegmentEndID(day, days int, lastID string, in *trip.TripInput, wm trip.WaypointMap) string {
	if in.Lodging != nil {
		return routing.AccommodationID
	}
	if day == days-1 && in.End != nil {
		if w, ok := wm[lastID]; ok && w.Coord.ApproxEquals(*in.End, destinationDistinctEps) {
			// Destination coincides with the final stop; no hop needed
			return ""
		}
		return routing.DestinationID
	}
	return ""
}
