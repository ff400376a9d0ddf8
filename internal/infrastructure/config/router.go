package config

import "time"

// RouterConfig holds the segment router's process-wide knobs
type RouterConfig struct {
	// Haversine distance below which a segment is walked, in meters
	WalkCutoffMeters float64 `mapstructure:"walk_cutoff_meters" validate:"min=0"`

	// Assumed walking speed for synthesized estimates, km/h
	WalkSpeedKmh float64 `mapstructure:"walk_speed_kmh" validate:"min=0"`

	// Assumed transit speed for fallback costs, km/h
	FallbackSpeedKmh float64 `mapstructure:"fallback_speed_kmh" validate:"min=0"`

	// Boarding overhead added to fallback transit costs, minutes
	FallbackOverheadMinutes float64 `mapstructure:"fallback_overhead_minutes" validate:"min=0"`

	// Maximum in-flight provider requests across all callers
	MaxConcurrent int `mapstructure:"max_concurrent" validate:"min=0"`

	// Circuit breaker settings
	Breaker BreakerConfig `mapstructure:"breaker"`

	// Segment cache settings
	Cache CacheConfig `mapstructure:"cache"`
}

// BreakerConfig holds circuit breaker configuration
type BreakerConfig struct {
	// Consecutive failures before the breaker opens
	MaxFailures int `mapstructure:"max_failures" validate:"min=0"`

	// Time the breaker stays open before probing half-open
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// CacheConfig holds segment cache configuration
type CacheConfig struct {
	// Maximum cached segments
	Size int `mapstructure:"size" validate:"min=0"`

	// Entry time to live
	TTL time.Duration `mapstructure:"ttl"`
}
