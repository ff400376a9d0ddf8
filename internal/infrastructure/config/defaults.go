package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "tripweaver"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "tripweaver"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "tripweaver.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Provider defaults
	if cfg.Providers.Transit.BaseURL == "" {
		cfg.Providers.Transit.BaseURL = "http://localhost:9091"
	}
	if cfg.Providers.Transit.RequestsPerSecond == 0 {
		cfg.Providers.Transit.RequestsPerSecond = 5
	}
	if cfg.Providers.Walk.BaseURL == "" {
		cfg.Providers.Walk.BaseURL = "http://localhost:9092"
	}
	if cfg.Providers.Walk.RequestsPerSecond == 0 {
		cfg.Providers.Walk.RequestsPerSecond = 5
	}

	// Router defaults
	if cfg.Router.WalkCutoffMeters == 0 {
		cfg.Router.WalkCutoffMeters = 700
	}
	if cfg.Router.WalkSpeedKmh == 0 {
		cfg.Router.WalkSpeedKmh = 4
	}
	if cfg.Router.FallbackSpeedKmh == 0 {
		cfg.Router.FallbackSpeedKmh = 20
	}
	if cfg.Router.FallbackOverheadMinutes == 0 {
		cfg.Router.FallbackOverheadMinutes = 5
	}
	if cfg.Router.MaxConcurrent == 0 {
		cfg.Router.MaxConcurrent = 3
	}
	if cfg.Router.Breaker.MaxFailures == 0 {
		cfg.Router.Breaker.MaxFailures = 5
	}
	if cfg.Router.Breaker.Cooldown == 0 {
		cfg.Router.Breaker.Cooldown = 30 * time.Second
	}
	if cfg.Router.Cache.Size == 0 {
		cfg.Router.Cache.Size = 5000
	}
	if cfg.Router.Cache.TTL == 0 {
		cfg.Router.Cache.TTL = 60 * time.Minute
	}

	// Planner defaults
	if cfg.Planner.KNearest == 0 {
		cfg.Planner.KNearest = 3
	}
	if cfg.Planner.RadiusMultiplier == 0 {
		cfg.Planner.RadiusMultiplier = 1.2
	}
	if cfg.Planner.ClusterFlex == 0 {
		cfg.Planner.ClusterFlex = 0.4
	}
	if cfg.Planner.SizePenalty == 0 {
		cfg.Planner.SizePenalty = 5
	}
	if cfg.Planner.MinutesPenalty == 0 {
		cfg.Planner.MinutesPenalty = 1
	}
	if cfg.Planner.SmoothingPasses == 0 {
		cfg.Planner.SmoothingPasses = 5
	}
	if cfg.Planner.SmoothingThresholdMeters == 0 {
		cfg.Planner.SmoothingThresholdMeters = 100
	}
	if cfg.Planner.MaxTwoOptIterations == 0 {
		cfg.Planner.MaxTwoOptIterations = 50
	}
	if cfg.Planner.ReconcileRounds == 0 {
		cfg.Planner.ReconcileRounds = 3
	}
	if cfg.Planner.MaxRemovalsRatio == 0 {
		cfg.Planner.MaxRemovalsRatio = 0.5
	}
	if cfg.Planner.ProxyMinutesPerKm == 0 {
		cfg.Planner.ProxyMinutesPerKm = 5
	}
	if cfg.Planner.CheckInSpeedKmh == 0 {
		cfg.Planner.CheckInSpeedKmh = 12
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
