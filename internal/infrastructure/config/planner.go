package config

// PlannerConfig holds the planning heuristics' tuning knobs. Zero values
// fall back to the engine defaults.
type PlannerConfig struct {
	// Neighbor rank for the zoning adjacency radius estimate
	KNearest int `mapstructure:"k_nearest" validate:"min=0"`

	// Multiplier applied to the median k-NN distance
	RadiusMultiplier float64 `mapstructure:"radius_multiplier" validate:"min=0"`

	// Allowed zone overfill ratio before an overload split
	ClusterFlex float64 `mapstructure:"cluster_flex" validate:"min=0"`

	// Day-assignment penalty weights
	SizePenalty    float64 `mapstructure:"size_penalty" validate:"min=0"`
	MinutesPenalty float64 `mapstructure:"minutes_penalty" validate:"min=0"`

	// Cluster order smoothing
	SmoothingPasses          int     `mapstructure:"smoothing_passes" validate:"min=0"`
	SmoothingThresholdMeters float64 `mapstructure:"smoothing_threshold_meters" validate:"min=0"`

	// Within-day 2-opt iteration cap
	MaxTwoOptIterations int `mapstructure:"max_two_opt_iterations" validate:"min=0"`

	// Budget reconciliation
	ReconcileRounds  int     `mapstructure:"reconcile_rounds" validate:"min=0"`
	MaxRemovalsRatio float64 `mapstructure:"max_removals_ratio" validate:"min=0,max=1"`

	// Travel speed assumptions
	ProxyMinutesPerKm float64 `mapstructure:"proxy_minutes_per_km" validate:"min=0"`
	CheckInSpeedKmh   float64 `mapstructure:"check_in_speed_kmh" validate:"min=0"`
}
