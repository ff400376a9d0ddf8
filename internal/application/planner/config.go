package planner

// Config holds the planning heuristics' tuning knobs. Zero values are
// replaced by the production defaults through DefaultConfig / normalized().
type Config struct {
	// Zoning
	KNearest         int     // neighbor rank for the adjacency radius estimate
	RadiusMultiplier float64 // applied to the median k-NN distance
	ClusterFlex      float64 // allowed overfill ratio before an overload split
	SizePenalty      float64 // day-assignment weight for size overflow
	MinutesPenalty   float64 // day-assignment weight for minutes overflow

	// Cluster ordering
	SmoothingPasses          int
	SmoothingThresholdMeters float64

	// Within-day ordering
	MaxTwoOptIterations int

	// Reconciliation
	ReconcileRounds  int
	MaxRemovalsRatio float64 // fraction of waypoints Phase A may remove

	// Travel speed assumptions
	ProxyMinutesPerKm float64 // coarse travel estimate for scoring and Phase A
	CheckInSpeedKmh   float64 // straight-line speed for check-in arrival estimates
}

// DefaultConfig returns the production tuning
func DefaultConfig() Config {
	return Config{
		KNearest:                 3,
		RadiusMultiplier:         1.2,
		ClusterFlex:              0.4,
		SizePenalty:              5,
		MinutesPenalty:           1,
		SmoothingPasses:          5,
		SmoothingThresholdMeters: 100,
		MaxTwoOptIterations:      50,
		ReconcileRounds:          3,
		MaxRemovalsRatio:         0.5,
		ProxyMinutesPerKm:        5,
		CheckInSpeedKmh:          12,
	}
}

// normalized fills unset fields with defaults so a partially configured
// Config never divides by zero
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.KNearest <= 0 {
		c.KNearest = d.KNearest
	}
	if c.RadiusMultiplier <= 0 {
		c.RadiusMultiplier = d.RadiusMultiplier
	}
	if c.ClusterFlex <= 0 {
		c.ClusterFlex = d.ClusterFlex
	}
	if c.SizePenalty <= 0 {
		c.SizePenalty = d.SizePenalty
	}
	if c.MinutesPenalty <= 0 {
		c.MinutesPenalty = d.MinutesPenalty
	}
	if c.SmoothingPasses <= 0 {
		c.SmoothingPasses = d.SmoothingPasses
	}
	if c.SmoothingThresholdMeters <= 0 {
		c.SmoothingThresholdMeters = d.SmoothingThresholdMeters
	}
	if c.MaxTwoOptIterations <= 0 {
		c.MaxTwoOptIterations = d.MaxTwoOptIterations
	}
	if c.ReconcileRounds <= 0 {
		c.ReconcileRounds = d.ReconcileRounds
	}
	if c.MaxRemovalsRatio <= 0 {
		c.MaxRemovalsRatio = d.MaxRemovalsRatio
	}
	if c.ProxyMinutesPerKm <= 0 {
		c.ProxyMinutesPerKm = d.ProxyMinutesPerKm
	}
	if c.CheckInSpeedKmh <= 0 {
		c.CheckInSpeedKmh = d.CheckInSpeedKmh
	}
	return c
}
