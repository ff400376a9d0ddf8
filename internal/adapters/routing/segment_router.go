package routing

import (
	"context"
	"sync"
	"time"

	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
)

// SegmentStore persists materialized segment costs across restarts. Load
// returns nil for absent or stale entries; implementations own the TTL.
type SegmentStore interface {
	Load(ctx context.Context, cacheKey string) (*routing.SegmentCost, error)
	Save(ctx context.Context, cacheKey string, cost routing.SegmentCost) error
}

// RouterConfig carries the router's process-wide knobs
type RouterConfig struct {
	WalkCutoffMeters        float64
	WalkSpeedKmh            float64
	FallbackSpeedKmh        float64 // assumed transit speed for fallback costs
	FallbackOverheadMinutes float64
	MaxConcurrent           int
	BreakerMaxFailures      int
	BreakerCooldown         time.Duration
	CacheSize               int
	CacheTTL                time.Duration
}

func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		WalkCutoffMeters:        700,
		WalkSpeedKmh:            4,
		FallbackSpeedKmh:        20,
		FallbackOverheadMinutes: 5,
		MaxConcurrent:           3,
		BreakerMaxFailures:      5,
		BreakerCooldown:         30 * time.Second,
		CacheSize:               5000,
		CacheTTL:                60 * time.Minute,
	}
}

// Router materializes segment costs: short hops go to the walking provider,
// longer ones to the transit provider behind a circuit breaker, with an
// LRU+TTL cache and an optional persistent store in front. Failures degrade
// to estimated fallback costs and never propagate.
type Router struct {
	transit routing.TransitProvider
	walk    routing.WalkProvider
	store   SegmentStore
	cache   *SegmentCache
	breaker *CircuitBreaker
	sem     chan struct{}
	cfg     RouterConfig
}

// NewRouter wires the router. store may be nil; a nil clock means RealClock.
func NewRouter(transit routing.TransitProvider, walk routing.WalkProvider, store SegmentStore, clock shared.Clock, cfg RouterConfig) *Router {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultRouterConfig().MaxConcurrent
	}
	return &Router{
		transit: transit,
		walk:    walk,
		store:   store,
		cache:   NewSegmentCache(cfg.CacheSize, cfg.CacheTTL),
		breaker: NewCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerCooldown, clock),
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		cfg:     cfg,
	}
}

// RouterStats is a health snapshot
type RouterStats struct {
	BreakerState    string `json:"breakerState"`
	BreakerFailures int    `json:"breakerFailures"`
	CacheEntries    int    `json:"cacheEntries"`
}

// Warm preloads the in-memory cache, typically from the persistent store
// at startup
func (r *Router) Warm(entries map[string]routing.SegmentCost) {
	for key, cost := range entries {
		r.cache.Add(key, cost)
	}
}

func (r *Router) Stats() RouterStats {
	return RouterStats{
		BreakerState:    r.breaker.State().String(),
		BreakerFailures: r.breaker.FailureCount(),
		CacheEntries:    r.cache.Len(),
	}
}

// Route materializes every request concurrently, capped by the in-flight
// limit, and returns costs in request order. The only error is cancellation.
func (r *Router) Route(ctx context.Context, requests []routing.SegmentRequest) ([]routing.SegmentCost, error) {
	results := make([]routing.SegmentCost, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req routing.SegmentRequest) {
			defer wg.Done()
			results[i] = r.routeOne(ctx, req)
		}(i, req)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Router) routeOne(ctx context.Context, req routing.SegmentRequest) routing.SegmentCost {
	cacheKey := CacheKey(req.From, req.To)

	if cost, ok := r.cache.Get(cacheKey, req.Key); ok {
		return cost
	}
	if r.store != nil {
		if stored, err := r.store.Load(ctx, cacheKey); err == nil && stored != nil {
			r.cache.Add(cacheKey, *stored)
			return stored.CloneWithKey(req.Key)
		}
	}

	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return r.fallbackCost(req, "cancelled before dispatch")
	}

	var cost routing.SegmentCost
	if geo.HaversineMeters(req.From, req.To) <= r.cfg.WalkCutoffMeters {
		cost = r.walkSegment(ctx, req, cacheKey)
	} else {
		cost = r.transitSegment(ctx, req, cacheKey)
	}
	return cost
}

// walkSegment costs a short hop on foot. A provider failure synthesizes a
// straight-line walking estimate, which is still cached.
func (r *Router) walkSegment(ctx context.Context, req routing.SegmentRequest, cacheKey string) routing.SegmentCost {
	plan, err := r.walk.PlanWalk(ctx, req.From, req.To)
	if err != nil {
		common.LoggerFromContext(ctx).Log("WARN", "Walking provider failed, synthesizing estimate", map[string]interface{}{
			"segment": req.Key.String(),
			"error":   err.Error(),
		})
		meters := geo.HaversineMeters(req.From, req.To)
		cost := routing.SegmentCost{
			Key:             req.Key,
			DurationMinutes: walkMinutes(meters, r.cfg.WalkSpeedKmh),
			DistanceMeters:  meters,
			Fallback:        true,
			Warning:         "walking estimate, provider unavailable",
		}
		r.cache.Add(cacheKey, cost)
		return cost
	}

	from, to := req.From, req.To
	cost := routing.SegmentCost{
		Key:             req.Key,
		DurationMinutes: plan.TotalDurationMinutes,
		DistanceMeters:  plan.TotalDistanceMeters,
		Polyline:        plan.Polyline,
		Transit: &routing.TransitDetails{
			WalkingTimeMinutes:    plan.TotalDurationMinutes,
			WalkingDistanceMeters: plan.TotalDistanceMeters,
			SubPaths: []routing.SubPath{{
				TrafficType:    routing.TrafficWalk,
				DistanceMeters: plan.TotalDistanceMeters,
				SectionMinutes: plan.TotalDurationMinutes,
				StartCoord:     &from,
				EndCoord:       &to,
				Polyline:       plan.Polyline,
			}},
		},
	}
	r.cache.Add(cacheKey, cost)
	r.persist(ctx, cacheKey, cost)
	return cost
}

// transitSegment costs a long hop via the transit provider under the
// breaker. Any failure, including an open breaker, yields a fallback cost
// that is not cached so a later attempt can do better.
func (r *Router) transitSegment(ctx context.Context, req routing.SegmentRequest, cacheKey string) routing.SegmentCost {
	var plan *routing.TransitPlan
	err := r.breaker.Call(func() error {
		p, err := r.transit.PlanTransit(ctx, req.From, req.To)
		if err != nil {
			return err
		}
		plan = p
		return nil
	})
	if err != nil {
		common.LoggerFromContext(ctx).Log("WARN", "Transit routing failed, using fallback cost", map[string]interface{}{
			"segment": req.Key.String(),
			"error":   err.Error(),
		})
		return r.fallbackCost(req, "transit unavailable: "+err.Error())
	}

	transfers := plan.TransferCount
	cost := routing.SegmentCost{
		Key:             req.Key,
		DurationMinutes: plan.TotalDurationMinutes,
		DistanceMeters:  plan.TotalDistanceMeters,
		Transfers:       &transfers,
		Polyline:        plan.Polyline,
		Transit:         plan.Details,
	}
	inheritSubPathCoords(&cost, req)
	r.enrichInnerWalks(ctx, &cost)

	r.cache.Add(cacheKey, cost)
	r.persist(ctx, cacheKey, cost)
	return cost
}

func (r *Router) persist(ctx context.Context, cacheKey string, cost routing.SegmentCost) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, cacheKey, cost); err != nil {
		common.LoggerFromContext(ctx).Log("WARN", "Failed to persist segment cost", map[string]interface{}{
			"cache_key": cacheKey,
			"error":     err.Error(),
		})
	}
}

// fallbackCost estimates a segment no provider could answer: walking pace
// under 500 m, otherwise an assumed transit speed plus boarding overhead
func (r *Router) fallbackCost(req routing.SegmentRequest, warning string) routing.SegmentCost {
	meters := geo.HaversineMeters(req.From, req.To)
	minutes := walkMinutes(meters, r.cfg.WalkSpeedKmh)
	if meters >= 500 {
		minutes = meters/1000/r.cfg.FallbackSpeedKmh*60 + r.cfg.FallbackOverheadMinutes
	}
	return routing.SegmentCost{
		Key:             req.Key,
		DurationMinutes: minutes,
		DistanceMeters:  meters,
		Fallback:        true,
		Warning:         warning,
	}
}

func walkMinutes(meters, speedKmh float64) float64 {
	return meters / 1000 / speedKmh * 60
}

// inheritSubPathCoords fills missing subpath endpoints: walking legs take
// coordinates from the adjacent transit legs, and the path's outer ends
// take the request's origin and destination.
func inheritSubPathCoords(cost *routing.SegmentCost, req routing.SegmentRequest) {
	if cost.Transit == nil || len(cost.Transit.SubPaths) == 0 {
		return
	}
	paths := cost.Transit.SubPaths

	for i := range paths {
		if !paths[i].TrafficType.IsWalk() {
			continue
		}
		if paths[i].StartCoord == nil && i > 0 && paths[i-1].EndCoord != nil {
			v := *paths[i-1].EndCoord
			paths[i].StartCoord = &v
		}
		if paths[i].EndCoord == nil && i+1 < len(paths) && paths[i+1].StartCoord != nil {
			v := *paths[i+1].StartCoord
			paths[i].EndCoord = &v
		}
	}

	if paths[0].StartCoord == nil {
		v := req.From
		paths[0].StartCoord = &v
	}
	if last := len(paths) - 1; paths[last].EndCoord == nil {
		v := req.To
		paths[last].EndCoord = &v
	}
}

// enrichInnerWalks fetches polylines for walking legs embedded in a transit
// path. Best effort: any failure leaves the leg as is.
func (r *Router) enrichInnerWalks(ctx context.Context, cost *routing.SegmentCost) {
	if cost.Transit == nil {
		return
	}
	for i := range cost.Transit.SubPaths {
		sp := &cost.Transit.SubPaths[i]
		if !sp.TrafficType.IsWalk() || sp.Polyline != "" || sp.StartCoord == nil || sp.EndCoord == nil {
			continue
		}
		plan, err := r.walk.PlanWalk(ctx, *sp.StartCoord, *sp.EndCoord)
		if err != nil || plan == nil {
			continue
		}
		sp.Polyline = plan.Polyline
	}
}
