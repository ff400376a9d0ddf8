package steps

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cucumber/godog"

	adapterrouting "github.com/minsukang/tripweaver/internal/adapters/routing"
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
)

type scriptedWalk struct {
	mu      sync.Mutex
	minutes float64
	calls   int
}

func (w *scriptedWalk) PlanWalk(ctx context.Context, from, to geo.LatLng) (*routing.WalkPlan, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	return &routing.WalkPlan{
		TotalDurationMinutes: w.minutes,
		TotalDistanceMeters:  geo.HaversineMeters(from, to),
	}, nil
}

type scriptedTransit struct {
	minutes float64
	fail    bool
}

func (t *scriptedTransit) PlanTransit(ctx context.Context, from, to geo.LatLng) (*routing.TransitPlan, error) {
	if t.fail {
		return nil, fmt.Errorf("transit provider unavailable")
	}
	return &routing.TransitPlan{
		TotalDurationMinutes: t.minutes,
		TotalDistanceMeters:  geo.HaversineMeters(from, to),
	}, nil
}

type segmentRoutingContext struct {
	walk    *scriptedWalk
	transit *scriptedTransit
	router  *adapterrouting.Router
	cost    *routing.SegmentCost
}

func (c *segmentRoutingContext) reset() {
	c.walk = &scriptedWalk{}
	c.transit = &scriptedTransit{}
	c.router = nil
	c.cost = nil
}

func (c *segmentRoutingContext) ensureRouter() *adapterrouting.Router {
	if c.router == nil {
		c.router = adapterrouting.NewRouter(
			c.transit, c.walk, nil,
			shared.NewMockClock(time.Now()),
			adapterrouting.DefaultRouterConfig(),
		)
	}
	return c.router
}

// Given steps

func (c *segmentRoutingContext) aWalkingProviderAnsweringInMinutes(minutes int) error {
	c.walk.minutes = float64(minutes)
	return nil
}

func (c *segmentRoutingContext) aTransitProviderAnsweringInMinutes(minutes int) error {
	c.transit.minutes = float64(minutes)
	return nil
}

func (c *segmentRoutingContext) aFailingTransitProvider() error {
	c.transit.fail = true
	return nil
}

// When steps

func (c *segmentRoutingContext) aSegmentOfMetersIsRouted(meters int) error {
	return c.aSegmentOfMetersIsRoutedTimes(meters, 1)
}

func (c *segmentRoutingContext) aSegmentOfMetersIsRoutedTimes(meters, times int) error {
	// 1 degree of latitude is ~111.195 km
	from := geo.LatLng{Lat: 37.5000, Lng: 127.0000}
	to := geo.LatLng{Lat: 37.5000 + float64(meters)/111195.0, Lng: 127.0000}
	req := routing.SegmentRequest{
		Key:  routing.SegmentKey{FromID: "a", ToID: "b"},
		From: from,
		To:   to,
	}

	for i := 0; i < times; i++ {
		costs, err := c.ensureRouter().Route(context.Background(), []routing.SegmentRequest{req})
		if err != nil {
			return err
		}
		c.cost = &costs[0]
	}
	return nil
}

// Then steps

func (c *segmentRoutingContext) theSegmentTakesMinutes(minutes int) error {
	if c.cost == nil {
		return fmt.Errorf("no segment was routed")
	}
	if math.Abs(c.cost.DurationMinutes-float64(minutes)) > 0.01 {
		return fmt.Errorf("expected %d minutes, got %.2f", minutes, c.cost.DurationMinutes)
	}
	return nil
}

func (c *segmentRoutingContext) theSegmentIsMarkedAsAFallback() error {
	if c.cost == nil || !c.cost.Fallback {
		return fmt.Errorf("expected a fallback cost")
	}
	return nil
}

func (c *segmentRoutingContext) theCircuitBreakerIs(state string) error {
	if got := c.ensureRouter().Stats().BreakerState; got != state {
		return fmt.Errorf("expected breaker %s, got %s", state, got)
	}
	return nil
}

func (c *segmentRoutingContext) theWalkingProviderWasCalledTimes(times int) error {
	c.walk.mu.Lock()
	defer c.walk.mu.Unlock()
	if c.walk.calls != times {
		return fmt.Errorf("expected %d walking calls, got %d", times, c.walk.calls)
	}
	return nil
}

func InitializeSegmentRoutingScenario(sc *godog.ScenarioContext) {
	c := &segmentRoutingContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a walking provider answering in (\d+) minutes$`, c.aWalkingProviderAnsweringInMinutes)
	sc.Step(`^a transit provider answering in (\d+) minutes$`, c.aTransitProviderAnsweringInMinutes)
	sc.Step(`^a failing transit provider$`, c.aFailingTransitProvider)
	sc.Step(`^a segment of (\d+) meters is routed$`, c.aSegmentOfMetersIsRouted)
	sc.Step(`^a segment of (\d+) meters is routed (\d+) times?$`, c.aSegmentOfMetersIsRoutedTimes)
	sc.Step(`^the segment takes (\d+) minutes$`, c.theSegmentTakesMinutes)
	sc.Step(`^the segment is marked as a fallback$`, c.theSegmentIsMarkedAsAFallback)
	sc.Step(`^the circuit breaker is "([^"]*)"$`, c.theCircuitBreakerIs)
	sc.Step(`^the walking provider was called (\d+) times?$`, c.theWalkingProviderWasCalledTimes)
}
