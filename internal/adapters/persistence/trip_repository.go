package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/minsukang/tripweaver/internal/domain/trip"
)

// GormTripRepository stores finished trip plans for audit and replay
type GormTripRepository struct {
	db *gorm.DB
}

func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

// Save upserts a finished plan keyed by trip id
func (r *GormTripRepository) Save(ctx context.Context, out *trip.TripOutput, days int) error {
	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode trip plan: %w", err)
	}

	model := TripPlanModel{
		TripID:  out.TripID,
		Mode:    string(out.Mode),
		Days:    days,
		Payload: string(payload),
	}
	if result := r.db.WithContext(ctx).Save(&model); result.Error != nil {
		return fmt.Errorf("failed to save trip plan: %w", result.Error)
	}
	return nil
}

// Find returns a stored plan by trip id
func (r *GormTripRepository) Find(ctx context.Context, tripID string) (*trip.TripOutput, error) {
	var model TripPlanModel
	result := r.db.WithContext(ctx).Where("trip_id = ?", tripID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("trip plan not found: %s", tripID)
		}
		return nil, fmt.Errorf("failed to find trip plan: %w", result.Error)
	}

	var out trip.TripOutput
	if err := json.Unmarshal([]byte(model.Payload), &out); err != nil {
		return nil, fmt.Errorf("failed to decode trip plan %s: %w", tripID, err)
	}
	return &out, nil
}
