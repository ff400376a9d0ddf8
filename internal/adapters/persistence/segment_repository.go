package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
)

// GormSegmentRepository persists segment costs keyed by the rounded
// coordinate cache key. Load honors the cache TTL so consumers never see
// entries older than the in-memory cache would have kept.
type GormSegmentRepository struct {
	db    *gorm.DB
	ttl   time.Duration
	clock shared.Clock
}

// NewGormSegmentRepository creates the repository. A nil clock means
// RealClock.
func NewGormSegmentRepository(db *gorm.DB, ttl time.Duration, clock shared.Clock) *GormSegmentRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSegmentRepository{db: db, ttl: ttl, clock: clock}
}

// Load returns the stored cost for a cache key, or nil when absent or
// older than the TTL
func (r *GormSegmentRepository) Load(ctx context.Context, cacheKey string) (*routing.SegmentCost, error) {
	var model SegmentCostModel
	result := r.db.WithContext(ctx).Where("cache_key = ?", cacheKey).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load segment cost: %w", result.Error)
	}

	if r.ttl > 0 && r.clock.Now().Sub(model.UpdatedAt) > r.ttl {
		return nil, nil
	}

	var cost routing.SegmentCost
	if err := json.Unmarshal([]byte(model.Payload), &cost); err != nil {
		return nil, fmt.Errorf("failed to decode segment cost %s: %w", cacheKey, err)
	}
	return &cost, nil
}

// Save upserts a segment cost under its cache key
func (r *GormSegmentRepository) Save(ctx context.Context, cacheKey string, cost routing.SegmentCost) error {
	payload, err := json.Marshal(cost)
	if err != nil {
		return fmt.Errorf("failed to encode segment cost: %w", err)
	}

	model := SegmentCostModel{
		CacheKey:        cacheKey,
		DurationMinutes: cost.DurationMinutes,
		DistanceMeters:  cost.DistanceMeters,
		Fallback:        cost.Fallback,
		Payload:         string(payload),
		UpdatedAt:       r.clock.Now(),
	}
	if result := r.db.WithContext(ctx).Save(&model); result.Error != nil {
		return fmt.Errorf("failed to save segment cost: %w", result.Error)
	}
	return nil
}

// FreshEntries returns every non-stale stored cost, used to warm the
// in-memory cache at startup
func (r *GormSegmentRepository) FreshEntries(ctx context.Context) (map[string]routing.SegmentCost, error) {
	query := r.db.WithContext(ctx)
	if r.ttl > 0 {
		query = query.Where("updated_at > ?", r.clock.Now().Add(-r.ttl))
	}

	var models []SegmentCostModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list segment costs: %w", result.Error)
	}

	entries := make(map[string]routing.SegmentCost, len(models))
	for _, model := range models {
		var cost routing.SegmentCost
		if err := json.Unmarshal([]byte(model.Payload), &cost); err != nil {
			// Skip undecodable rows rather than failing the warmup
			continue
		}
		entries[model.CacheKey] = cost
	}
	return entries, nil
}
