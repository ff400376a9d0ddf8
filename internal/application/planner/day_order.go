package planner

import (
	"sort"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// OrderWithinDay sequences one day's waypoints between its start and end
// anchors.
//
// Waypoints pinned to a clock time keep their chronological order; flexible
// waypoints are sorted along the start→end axis, woven around the pinned
// ones by proximity, then decrossed with a bounded 2-opt pass that never
// reverses across a pinned position.
func OrderWithinDay(cluster *trip.Cluster, start, end geo.LatLng, wm trip.WaypointMap, cfg Config) []string {
	cfg = cfg.normalized()

	var pinned, flexible []*trip.Waypoint
	for _, id := range cluster.WaypointIDs {
		w, ok := wm[id]
		if !ok {
			continue
		}
		if w.Pinned() {
			pinned = append(pinned, w)
		} else {
			flexible = append(flexible, w)
		}
	}

	sort.SliceStable(pinned, func(a, b int) bool {
		ma, _ := trip.ParseClockMinutes(pinned[a].FixedStartTime)
		mb, _ := trip.ParseClockMinutes(pinned[b].FixedStartTime)
		return ma < mb
	})

	axis := geo.Direction(start, end).Unit()
	sort.SliceStable(flexible, func(a, b int) bool {
		pa := geo.Project(flexible[a].Coord, start, axis)
		pb := geo.Project(flexible[b].Coord, start, axis)
		if pa != pb {
			return pa < pb
		}
		return geo.HaversineMeters(start, flexible[a].Coord) < geo.HaversineMeters(start, flexible[b].Coord)
	})

	order, pinnedAt := weave(pinned, flexible, end)
	decross(order, pinnedAt, start, end, wm, cfg.MaxTwoOptIterations)
	return order
}

// weave merges the two sequences: before each pinned stop, drain the
// flexible points that sit closer to it than to the next pinned stop (or
// the day end when it is the last one)
func weave(pinned, flexible []*trip.Waypoint, dayEnd geo.LatLng) ([]string, map[int]bool) {
	order := make([]string, 0, len(pinned)+len(flexible))
	pinnedAt := make(map[int]bool, len(pinned))
	cursor := 0

	for pi, p := range pinned {
		nextRef := dayEnd
		if pi+1 < len(pinned) {
			nextRef = pinned[pi+1].Coord
		}
		for cursor < len(flexible) {
			f := flexible[cursor]
			if geo.HaversineMeters(f.Coord, p.Coord) > geo.HaversineMeters(f.Coord, nextRef) {
				break
			}
			order = append(order, f.ID)
			cursor++
		}
		pinnedAt[len(order)] = true
		order = append(order, p.ID)
	}

	for ; cursor < len(flexible); cursor++ {
		order = append(order, flexible[cursor].ID)
	}
	return order, pinnedAt
}

// decross removes geometric crossings in place. The route is treated as
// start -> order... -> end; when two non-adjacent edges properly intersect,
// the sub-path between them is reversed. Reversals touching a pinned
// position are skipped so pinned stops keep their slots.
func decross(order []string, pinnedAt map[int]bool, start, end geo.LatLng, wm trip.WaypointMap, maxIterations int) {
	n := len(order)
	if n < 3 {
		return
	}

	// points[0] = start anchor, points[1..n] = waypoints, points[n+1] = end
	point := func(i int) geo.LatLng {
		switch {
		case i == 0:
			return start
		case i == n+1:
			return end
		default:
			return wm[order[i-1]].Coord
		}
	}

	for iter := 0; iter < maxIterations; iter++ {
		swapped := false
		for i := 0; i <= n-1 && !swapped; i++ {
			for j := i + 2; j <= n; j++ {
				if geo.SegmentsIntersect(point(i), point(i+1), point(j), point(j+1)) {
					if rangeHasPinned(pinnedAt, i, j) {
						continue
					}
					reverseRange(order, i, j-1)
					swapped = true
					break
				}
			}
		}
		if !swapped {
			return
		}
	}
}

// rangeHasPinned reports whether reversing points (i+1..j) would move a
// pinned waypoint; edge-endpoint waypoints are included so edges incident
// to a pinned stop stay immutable
func rangeHasPinned(pinnedAt map[int]bool, i, j int) bool {
	// points index k maps to order index k-1
	for k := i; k <= j+1; k++ {
		if pinnedAt[k-1] {
			return true
		}
	}
	return false
}

// reverseRange reverses order[from..to] inclusive (order-index space)
func reverseRange(order []string, from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(order)-1 {
		to = len(order) - 1
	}
	for from < to {
		order[from], order[to] = order[to], order[from]
		from++
		to--
	}
}
