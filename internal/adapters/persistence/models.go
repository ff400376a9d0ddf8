package persistence

import "time"

// SegmentCostModel stores one materialized segment cost under its rounded
// coordinate cache key. Payload is the full SegmentCost as JSON; duration
// and distance are denormalized for audit queries.
type SegmentCostModel struct {
	CacheKey        string  `gorm:"column:cache_key;primaryKey"`
	DurationMinutes float64 `gorm:"column:duration_minutes"`
	DistanceMeters  float64 `gorm:"column:distance_meters"`
	Fallback        bool    `gorm:"column:fallback"`
	Payload         string  `gorm:"column:payload;type:text"`
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (SegmentCostModel) TableName() string {
	return "segment_costs"
}

// TripPlanModel stores a finished plan for audit and replay
type TripPlanModel struct {
	TripID    string `gorm:"column:trip_id;primaryKey"`
	Mode      string `gorm:"column:mode"`
	Days      int    `gorm:"column:days"`
	Payload   string `gorm:"column:payload;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (TripPlanModel) TableName() string {
	return "trip_plans"
}
