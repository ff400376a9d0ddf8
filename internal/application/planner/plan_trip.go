package planner

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// Service is the trip planning pipeline: preprocessing, zoning, day
// assignment, day ordering, check-in handling and budget reconciliation.
type Service struct {
	router   routing.SegmentRouter
	cfg      Config
	validate *validator.Validate
}

func NewService(router routing.SegmentRouter, cfg Config) *Service {
	return &Service{
		router:   router,
		cfg:      cfg.normalized(),
		validate: validator.New(),
	}
}

// PlanTrip runs the full pipeline and returns the final itinerary.
// Cancellation aborts with the context error and no partial output.
func (s *Service) PlanTrip(ctx context.Context, in *trip.TripInput) (*trip.TripOutput, error) {
	logger := common.LoggerFromContext(ctx)

	if in == nil {
		return nil, trip.NewInvalidInputError("trip input is nil")
	}
	if in.TripID == "" {
		in.TripID = uuid.NewString()
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, trip.NewValidationError("trip_input", err.Error())
	}
	if !in.Start.Valid() {
		return nil, trip.NewValidationError("start", "start coordinate out of range")
	}
	if in.End != nil && !in.End.Valid() {
		return nil, trip.NewValidationError("end", "end coordinate out of range")
	}
	if in.Lodging != nil && !in.Lodging.Valid() {
		return nil, trip.NewValidationError("lodging", "lodging coordinate out of range")
	}

	waypoints, err := Preprocess(in.Waypoints)
	if err != nil {
		return nil, err
	}
	wm := trip.NewWaypointMap(waypoints)

	logger.Log("INFO", "Planning trip", map[string]interface{}{
		"trip_id":        in.TripID,
		"days":           in.Days,
		"waypoint_count": len(waypoints),
		"mode":           string(in.Mode()),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zones := BuildZones(ctx, waypoints, in, s.cfg)
	clusters := AssignZonesToDays(ctx, zones, waypoints, in, s.cfg)

	nonEmpty := 0
	for _, c := range clusters {
		if len(c.WaypointIDs) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return nil, trip.NewClusteringError("no non-empty clusters for %d waypoints", len(waypoints))
	}

	endAnchor := ChooseEndAnchor(in, clusters)
	ordered := OrderClusters(ctx, clusters, in, endAnchor, s.cfg)

	enforceDayPins(ctx, ordered, waypoints, in)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plans := s.orderDays(ordered, in, wm)

	ApplyCheckInSplit(ctx, plans, ordered, in, wm, s.cfg)

	reconciler := NewReconciler(s.router, s.cfg)
	costs, warnings, err := reconciler.Run(ctx, plans, ordered, in, wm)
	if err != nil {
		return nil, err
	}

	return &trip.TripOutput{
		TripID:       in.TripID,
		Mode:         in.Mode(),
		Clusters:     ordered,
		DayPlans:     plans,
		SegmentCosts: costs,
		Warnings:     warnings,
	}, nil
}

// orderDays sequences every day concurrently. Days are independent once the
// cluster order is fixed; each goroutine only writes its own slot.
func (s *Service) orderDays(ordered []*trip.Cluster, in *trip.TripInput, wm trip.WaypointMap) []*trip.DayPlan {
	plans := make([]*trip.DayPlan, len(ordered))

	var wg sync.WaitGroup
	for i, cluster := range ordered {
		wg.Add(1)
		go func(i int, cluster *trip.Cluster) {
			defer wg.Done()
			start := DayStartAnchor(ordered, i, in, wm)
			end := DayEndAnchor(ordered, i, in)
			plans[i] = &trip.DayPlan{
				DayIndex:      cluster.DayIndex,
				WaypointOrder: OrderWithinDay(cluster, start, end, wm, s.cfg),
			}
		}(i, cluster)
	}
	wg.Wait()

	// Without lodging, the next day's start anchor is the previous day's
	// last visited stop, so sync the ordering back into the clusters.
	for i, plan := range plans {
		ordered[i].WaypointIDs = plan.WaypointOrder
	}
	return plans
}

// enforceDayPins moves waypoints carrying a fixedDate or dayLock into the
// cluster for exactly that day, after ordering may have permuted the days
func enforceDayPins(ctx context.Context, ordered []*trip.Cluster, waypoints []*trip.Waypoint, in *trip.TripInput) {
	logger := common.LoggerFromContext(ctx)

	targetDay := func(w *trip.Waypoint) (int, bool) {
		if w.DayLock > 0 && w.DayLock <= len(ordered) {
			return w.DayLock - 1, true
		}
		return resolveFixedDay(w, in)
	}

	byDay := make(map[string]int, len(ordered))
	for i, c := range ordered {
		for _, id := range c.WaypointIDs {
			byDay[id] = i
		}
	}

	for _, w := range waypoints {
		want, ok := targetDay(w)
		if !ok || want >= len(ordered) {
			continue
		}
		have, present := byDay[w.ID]
		if !present || have == want {
			continue
		}

		src := ordered[have]
		for i, id := range src.WaypointIDs {
			if id == w.ID {
				src.WaypointIDs = append(src.WaypointIDs[:i], src.WaypointIDs[i+1:]...)
				break
			}
		}
		ordered[want].WaypointIDs = append(ordered[want].WaypointIDs, w.ID)
		byDay[w.ID] = want

		logger.Log("DEBUG", "Moved day-pinned waypoint", map[string]interface{}{
			"waypoint_id": w.ID,
			"from_day":    ordered[have].DayIndex,
			"to_day":      ordered[want].DayIndex,
		})
	}
}
