package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/minsukang/tripweaver/internal/application/planner"
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// proxyRouter costs every segment from straight-line distance so planning
// scenarios run without providers
type proxyRouter struct{}

func (proxyRouter) Route(ctx context.Context, reqs []routing.SegmentRequest) ([]routing.SegmentCost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	costs := make([]routing.SegmentCost, len(reqs))
	for i, r := range reqs {
		meters := geo.HaversineMeters(r.From, r.To)
		costs[i] = routing.SegmentCost{
			Key:             r.Key,
			DurationMinutes: meters / 1000 * 2,
			DistanceMeters:  meters,
		}
	}
	return costs, nil
}

type tripPlanningContext struct {
	input   *trip.TripInput
	output  *trip.TripOutput
	planErr error
}

func (c *tripPlanningContext) reset() {
	c.input = &trip.TripInput{TripID: "bdd-trip"}
	c.output = nil
	c.planErr = nil
}

// Given steps

func (c *tripPlanningContext) aDayTripStartingAt(days int, lat, lng float64) error {
	c.input.Days = days
	c.input.Start = geo.LatLng{Lat: lat, Lng: lng}
	return nil
}

func (c *tripPlanningContext) lodgingAt(lat, lng float64) error {
	c.input.Lodging = &geo.LatLng{Lat: lat, Lng: lng}
	return nil
}

func (c *tripPlanningContext) theTripStartsOn(date string) error {
	c.input.TripStartDate = date
	return nil
}

func (c *tripPlanningContext) aDailyBudgetOfMinutes(minutes int) error {
	c.input.DailyMaxMinutes = minutes
	return nil
}

func (c *tripPlanningContext) aWaypointAt(id string, lat, lng float64) error {
	c.input.Waypoints = append(c.input.Waypoints, &trip.Waypoint{
		ID:    id,
		Name:  id,
		Coord: geo.LatLng{Lat: lat, Lng: lng},
	})
	return nil
}

func (c *tripPlanningContext) aWaypointAtFixedTo(id string, lat, lng float64, date string) error {
	c.input.Waypoints = append(c.input.Waypoints, &trip.Waypoint{
		ID:        id,
		Name:      id,
		Coord:     geo.LatLng{Lat: lat, Lng: lng},
		IsFixed:   true,
		FixedDate: date,
	})
	return nil
}

func (c *tripPlanningContext) aWaypointAtStayingMinutes(id string, lat, lng float64, minutes int) error {
	c.input.Waypoints = append(c.input.Waypoints, &trip.Waypoint{
		ID:          id,
		Name:        id,
		Coord:       geo.LatLng{Lat: lat, Lng: lng},
		StayMinutes: minutes,
	})
	return nil
}

// When steps

func (c *tripPlanningContext) theTripIsPlanned() error {
	service := planner.NewService(proxyRouter{}, planner.DefaultConfig())
	c.output, c.planErr = service.PlanTrip(context.Background(), c.input)
	return nil
}

// Then steps

func (c *tripPlanningContext) planningSucceeds() error {
	if c.planErr != nil {
		return fmt.Errorf("expected planning to succeed, got: %w", c.planErr)
	}
	if c.output == nil {
		return fmt.Errorf("expected a trip output")
	}
	return nil
}

func (c *tripPlanningContext) planningFails() error {
	if c.planErr == nil {
		return fmt.Errorf("expected planning to fail")
	}
	return nil
}

func (c *tripPlanningContext) everyWaypointIsScheduledExactlyOnce() error {
	seen := make(map[string]int)
	for _, plan := range c.output.DayPlans {
		for _, id := range plan.WaypointOrder {
			seen[id]++
		}
		for _, id := range plan.ExcludedWaypointIDs {
			seen[id]++
		}
	}
	for _, w := range c.input.Waypoints {
		if seen[w.ID] != 1 {
			return fmt.Errorf("waypoint %s scheduled %d times", w.ID, seen[w.ID])
		}
	}
	return nil
}

func (c *tripPlanningContext) waypointsAreOnDifferentDays(a, b string) error {
	dayA, dayB := c.dayOf(a), c.dayOf(b)
	if dayA == 0 || dayB == 0 {
		return fmt.Errorf("waypoints %s and %s not both scheduled", a, b)
	}
	if dayA == dayB {
		return fmt.Errorf("waypoints %s and %s share day %d", a, b, dayA)
	}
	return nil
}

func (c *tripPlanningContext) theTripModeIs(mode string) error {
	if string(c.output.Mode) != mode {
		return fmt.Errorf("expected mode %s, got %s", mode, c.output.Mode)
	}
	return nil
}

func (c *tripPlanningContext) waypointIsScheduledOnDay(id string, day int) error {
	if got := c.dayOf(id); got != day {
		return fmt.Errorf("waypoint %s scheduled on day %d, expected %d", id, got, day)
	}
	return nil
}

func (c *tripPlanningContext) exactlyWaypointsAreExcluded(count int) error {
	excluded := 0
	for _, plan := range c.output.DayPlans {
		excluded += len(plan.ExcludedWaypointIDs)
	}
	if excluded != count {
		return fmt.Errorf("expected %d excluded waypoints, got %d", count, excluded)
	}
	return nil
}

// dayOf returns the 1-based day a waypoint is scheduled on, or 0
func (c *tripPlanningContext) dayOf(id string) int {
	for _, plan := range c.output.DayPlans {
		for _, wid := range plan.WaypointOrder {
			if wid == id {
				return plan.DayIndex
			}
		}
	}
	return 0
}

func InitializeTripPlanningScenario(sc *godog.ScenarioContext) {
	c := &tripPlanningContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a (\d+) day trip starting at (-?\d+\.\d+), (-?\d+\.\d+)$`, c.aDayTripStartingAt)
	sc.Step(`^lodging at (-?\d+\.\d+), (-?\d+\.\d+)$`, c.lodgingAt)
	sc.Step(`^the trip starts on "([^"]*)"$`, c.theTripStartsOn)
	sc.Step(`^a daily budget of (\d+) minutes$`, c.aDailyBudgetOfMinutes)
	sc.Step(`^a waypoint "([^"]*)" at (-?\d+\.\d+), (-?\d+\.\d+)$`, c.aWaypointAt)
	sc.Step(`^a waypoint "([^"]*)" at (-?\d+\.\d+), (-?\d+\.\d+) fixed to "([^"]*)"$`, c.aWaypointAtFixedTo)
	sc.Step(`^a waypoint "([^"]*)" at (-?\d+\.\d+), (-?\d+\.\d+) staying (\d+) minutes$`, c.aWaypointAtStayingMinutes)
	sc.Step(`^the trip is planned$`, c.theTripIsPlanned)
	sc.Step(`^planning succeeds$`, c.planningSucceeds)
	sc.Step(`^planning fails$`, c.planningFails)
	sc.Step(`^every waypoint is scheduled exactly once$`, c.everyWaypointIsScheduledExactlyOnce)
	sc.Step(`^waypoints "([^"]*)" and "([^"]*)" are on different days$`, c.waypointsAreOnDifferentDays)
	sc.Step(`^the trip mode is "([^"]*)"$`, c.theTripModeIs)
	sc.Step(`^waypoint "([^"]*)" is scheduled on day (\d+)$`, c.waypointIsScheduledOnDay)
	sc.Step(`^exactly (\d+) waypoint is excluded$`, c.exactlyWaypointsAreExcluded)
}
