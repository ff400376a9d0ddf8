package planner

import (
	"context"
	"math"
	"sort"

	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// routeMetrics summarizes the geometry of one day's route
type routeMetrics struct {
	backtracks int
	crossings  int
	distKm     float64
}

// measureRoute computes backtrack count (consecutive edge pairs turning
// more than 90 degrees), proper edge crossings and total length for a
// coordinate chain
func measureRoute(coords []geo.LatLng) routeMetrics {
	var m routeMetrics
	for i := 0; i+1 < len(coords); i++ {
		m.distKm += geo.HaversineMeters(coords[i], coords[i+1]) / 1000
	}
	for i := 0; i+2 < len(coords); i++ {
		a := geo.Direction(coords[i], coords[i+1]).Unit()
		b := geo.Direction(coords[i+1], coords[i+2]).Unit()
		if a.Dot(b) < 0 {
			m.backtracks++
		}
	}
	for i := 0; i+1 < len(coords); i++ {
		for j := i + 2; j+1 < len(coords); j++ {
			if geo.SegmentsIntersect(coords[i], coords[i+1], coords[j], coords[j+1]) {
				m.crossings++
			}
		}
	}
	return m
}

// removalScore rates how attractive removing the waypoint at position idx
// is: high when the removal straightens the route, low for important or
// long-stay waypoints.
//
//	s = 2·ΔBacktracks + 1·ΔCrossings + 1·(ΔdistKm·proxy) + 0.5·ΔdistKm
//	    − 2·importance − 1·stayMinutes
func removalScore(coords []geo.LatLng, idx int, w *trip.Waypoint, cfg Config) float64 {
	with := measureRoute(coords)

	without := make([]geo.LatLng, 0, len(coords)-1)
	without = append(without, coords[:idx]...)
	without = append(without, coords[idx+1:]...)
	after := measureRoute(without)

	dBack := float64(with.backtracks - after.backtracks)
	dCross := float64(with.crossings - after.crossings)
	dKm := with.distKm - after.distKm

	return 2*dBack + dCross + dKm*cfg.ProxyMinutesPerKm + 0.5*dKm -
		2*w.Importance - float64(w.StayMinutes)
}

// dayRouteCoords builds the coordinate chain for one day including its
// start and end anchors
func dayRouteCoords(plan *trip.DayPlan, ordered []*trip.Cluster, dayPos int, in *trip.TripInput, wm trip.WaypointMap) []geo.LatLng {
	coords := make([]geo.LatLng, 0, len(plan.WaypointOrder)+2)
	coords = append(coords, DayStartAnchor(ordered, dayPos, in, wm))
	coords = append(coords, wm.Coords(plan.WaypointOrder)...)
	coords = append(coords, DayEndAnchor(ordered, dayPos, in))
	return coords
}

// proxyDayMinutes is the coarse pre-routing estimate of a day's total time:
// straight-line travel at the proxy rate plus member stays
func proxyDayMinutes(plan *trip.DayPlan, ordered []*trip.Cluster, dayPos int, in *trip.TripInput, wm trip.WaypointMap, cfg Config) float64 {
	coords := dayRouteCoords(plan, ordered, dayPos, in, wm)
	minutes := 0.0
	for i := 0; i+1 < len(coords); i++ {
		minutes += geo.HaversineMeters(coords[i], coords[i+1]) / 1000 * cfg.ProxyMinutesPerKm
	}
	for _, id := range plan.WaypointOrder {
		if w, ok := wm[id]; ok {
			minutes += float64(w.StayMinutes)
		}
	}
	return minutes
}

// removeFromPlan moves the waypoint at order position idx into the day's
// exclusions, shifting a later check-in break left
func removeFromPlan(plan *trip.DayPlan, idx int) {
	id := plan.WaypointOrder[idx]
	plan.WaypointOrder = append(plan.WaypointOrder[:idx], plan.WaypointOrder[idx+1:]...)
	plan.ExcludedWaypointIDs = append(plan.ExcludedWaypointIDs, id)

	if plan.CheckInBreakIndex != nil {
		b := *plan.CheckInBreakIndex
		if idx < b {
			b--
		}
		if b <= 0 || b >= len(plan.WaypointOrder) {
			plan.CheckInBreakIndex = nil
		} else {
			*plan.CheckInBreakIndex = b
		}
	}
}

// Reconciler enforces per-day time budgets by removing the waypoints whose
// absence improves the route the most, first against a distance proxy and
// then against real routed durations.
type Reconciler struct {
	router routing.SegmentRouter
	cfg    Config
}

func NewReconciler(router routing.SegmentRouter, cfg Config) *Reconciler {
	return &Reconciler{router: router, cfg: cfg.normalized()}
}

// proxyPhase trims days while the coarse estimate exceeds the budget, up to
// the removal cap. Returns a warning string when it gives up early.
func (r *Reconciler) proxyPhase(ctx context.Context, plans []*trip.DayPlan, ordered []*trip.Cluster, in *trip.TripInput, wm trip.WaypointMap) string {
	logger := common.LoggerFromContext(ctx)
	maxRemovals := int(math.Floor(float64(len(wm)) * r.cfg.MaxRemovalsRatio))
	removed := 0

	for removed < maxRemovals {
		dayPos, planIdx := -1, -1
		bestScore := math.Inf(-1)

		for di, plan := range plans {
			limit := in.DayLimitMinutes(plan.DayIndex)
			if limit <= 0 {
				continue
			}
			if proxyDayMinutes(plan, ordered, di, in, wm, r.cfg) <= float64(limit) {
				continue
			}
			coords := dayRouteCoords(plan, ordered, di, in, wm)
			for i, id := range plan.WaypointOrder {
				w, ok := wm[id]
				if !ok || !w.Removable() {
					continue
				}
				// coords[0] is the start anchor
				if s := removalScore(coords, i+1, w, r.cfg); s > bestScore {
					bestScore = s
					dayPos, planIdx = di, i
				}
			}
		}

		if dayPos < 0 {
			// Either every day fits or nothing left is removable
			for di, plan := range plans {
				limit := in.DayLimitMinutes(plan.DayIndex)
				if limit > 0 && proxyDayMinutes(plan, ordered, di, in, wm, r.cfg) > float64(limit) {
					return "time budget still exceeded after proxy reconciliation: no removable waypoints remain"
				}
			}
			return ""
		}

		logger.Log("INFO", "Proxy reconciliation removing waypoint", map[string]interface{}{
			"day_index":   plans[dayPos].DayIndex,
			"waypoint_id": plans[dayPos].WaypointOrder[planIdx],
			"score":       bestScore,
		})
		removeFromPlan(plans[dayPos], planIdx)
		removed++
	}

	return "proxy reconciliation reached its removal cap before meeting every day budget"
}

// Run executes both reconciliation phases and returns the final segment
// costs. Routing failures inside the router degrade to fallback costs; the
// only returned error is cancellation.
func (r *Reconciler) Run(ctx context.Context, plans []*trip.DayPlan, ordered []*trip.Cluster, in *trip.TripInput, wm trip.WaypointMap) ([]routing.SegmentCost, []string, error) {
	logger := common.LoggerFromContext(ctx)
	var warnings []string

	if warn := r.proxyPhase(ctx, plans, ordered, in, wm); warn != "" {
		warnings = append(warnings, warn)
	}

	for round := 0; ; round++ {
		byDay := ExtractSegmentsByDay(ctx, plans, in, wm)
		var flat []routing.SegmentRequest
		for _, daySegs := range byDay {
			flat = append(flat, daySegs...)
		}

		costs, err := r.router.Route(ctx, flat)
		if err != nil {
			return nil, warnings, err
		}
		costByKey := make(map[routing.SegmentKey]routing.SegmentCost, len(costs))
		for _, c := range costs {
			costByKey[c.Key] = c
		}

		type overload struct {
			dayPos int
			excess float64
		}
		var overloaded []overload
		for di, plan := range plans {
			limit := in.DayLimitMinutes(plan.DayIndex)
			if limit <= 0 {
				continue
			}
			total := r.routedDayMinutes(plan, byDay[di], costByKey, wm)
			if total > float64(limit) {
				overloaded = append(overloaded, overload{dayPos: di, excess: total - float64(limit)})
			}
		}

		if len(overloaded) == 0 {
			return costs, warnings, nil
		}
		if round >= r.cfg.ReconcileRounds {
			worst := overloaded[0]
			for _, o := range overloaded[1:] {
				if o.excess > worst.excess {
					worst = o
				}
			}
			warnings = append(warnings, trip.NewBudgetInfeasibleError(plans[worst.dayPos].DayIndex, worst.excess).Error())
			return costs, warnings, nil
		}

		sort.SliceStable(overloaded, func(a, b int) bool {
			return overloaded[a].excess > overloaded[b].excess
		})

		worst := overloaded[0]
		removedAny := r.trimDay(ctx, plans[worst.dayPos], ordered, worst.dayPos, worst.excess, in, wm, costByKey)
		if !removedAny {
			warnings = append(warnings, trip.NewBudgetInfeasibleError(plans[worst.dayPos].DayIndex, worst.excess).Error())
			logger.Log("WARN", "No removable waypoints left on overloaded day", map[string]interface{}{
				"day_index": plans[worst.dayPos].DayIndex,
			})
			return costs, warnings, nil
		}
	}
}

// routedDayMinutes totals a day from real segment durations plus member
// stays
func (r *Reconciler) routedDayMinutes(plan *trip.DayPlan, segs []routing.SegmentRequest, costByKey map[routing.SegmentKey]routing.SegmentCost, wm trip.WaypointMap) float64 {
	total := 0.0
	for _, s := range segs {
		if c, ok := costByKey[s.Key]; ok {
			total += c.DurationMinutes
		}
	}
	for _, id := range plan.WaypointOrder {
		if w, ok := wm[id]; ok {
			total += float64(w.StayMinutes)
		}
	}
	return total
}

// trimDay removes waypoints from one overloaded day, best removal score
// first, until the accumulated estimated savings cover the excess
func (r *Reconciler) trimDay(ctx context.Context, plan *trip.DayPlan, ordered []*trip.Cluster, dayPos int, excess float64, in *trip.TripInput, wm trip.WaypointMap, costByKey map[routing.SegmentKey]routing.SegmentCost) bool {
	logger := common.LoggerFromContext(ctx)
	coords := dayRouteCoords(plan, ordered, dayPos, in, wm)

	type candidate struct {
		idx    int
		id     string
		score  float64
		saving float64
	}
	var candidates []candidate
	for i, id := range plan.WaypointOrder {
		w, ok := wm[id]
		if !ok || !w.Removable() {
			continue
		}
		candidates = append(candidates, candidate{
			idx:    i,
			id:     id,
			score:  removalScore(coords, i+1, w, r.cfg),
			saving: r.estimateSaving(plan, i, in, wm, costByKey, coords),
		})
	}
	if len(candidates) == 0 {
		return false
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	accumulated := 0.0
	var removeIdx []int
	for _, c := range candidates {
		removeIdx = append(removeIdx, c.idx)
		accumulated += c.saving
		logger.Log("INFO", "Budget reconciliation removing waypoint", map[string]interface{}{
			"day_index":   plan.DayIndex,
			"waypoint_id": c.id,
			"saving_min":  c.saving,
		})
		if accumulated >= excess {
			break
		}
	}

	// Remove back-to-front so earlier indices stay valid
	sort.Sort(sort.Reverse(sort.IntSlice(removeIdx)))
	for _, idx := range removeIdx {
		removeFromPlan(plan, idx)
	}
	return true
}

// estimateSaving predicts the minutes saved by removing the waypoint at
// order position i: its stay plus the cost of its two incident edges minus
// the bridging edge. Unfetched bridge edges fall back to the proxy rate.
func (r *Reconciler) estimateSaving(plan *trip.DayPlan, i int, in *trip.TripInput, wm trip.WaypointMap, costByKey map[routing.SegmentKey]routing.SegmentCost, coords []geo.LatLng) float64 {
	w := wm[plan.WaypointOrder[i]]
	saving := float64(w.StayMinutes)

	prevID, nextID := r.neighborIDs(plan, i, in)
	inKey := routing.SegmentKey{FromID: prevID, ToID: w.ID}
	outKey := routing.SegmentKey{FromID: w.ID, ToID: nextID}

	timeWith := 0.0
	if c, ok := costByKey[inKey]; ok {
		timeWith += c.DurationMinutes
	}
	if c, ok := costByKey[outKey]; ok {
		timeWith += c.DurationMinutes
	}

	// coords[i] is the previous point, coords[i+2] the next (anchors included)
	timeWithout := geo.HaversineMeters(coords[i], coords[i+2]) / 1000 * r.cfg.ProxyMinutesPerKm
	if c, ok := costByKey[routing.SegmentKey{FromID: prevID, ToID: nextID}]; ok {
		timeWithout = c.DurationMinutes
	}

	if delta := timeWith - timeWithout; delta > 0 {
		saving += delta
	}
	return saving
}

// neighborIDs resolves the segment ids flanking order position i
func (r *Reconciler) neighborIDs(plan *trip.DayPlan, i int, in *trip.TripInput) (string, string) {
	prevID := routing.OriginID
	if i > 0 {
		prevID = plan.WaypointOrder[i-1]
	} else if plan.DayIndex > 1 && in.Lodging != nil {
		prevID = routing.AccommodationID
	}

	nextID := ""
	if i+1 < len(plan.WaypointOrder) {
		nextID = plan.WaypointOrder[i+1]
	} else if in.Lodging != nil {
		nextID = routing.AccommodationID
	} else if in.End != nil {
		nextID = routing.DestinationID
	}
	return prevID, nextID
}
