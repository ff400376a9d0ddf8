package cli

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/minsukang/tripweaver/internal/adapters/persistence"
	"github.com/minsukang/tripweaver/internal/adapters/providers"
	adapterrouting "github.com/minsukang/tripweaver/internal/adapters/routing"
	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/application/planner"
	"github.com/minsukang/tripweaver/internal/infrastructure/config"
	"github.com/minsukang/tripweaver/internal/infrastructure/database"
	"github.com/minsukang/tripweaver/internal/infrastructure/logging"
)

// Container wires the application from configuration: providers, router,
// persistence and the planning service
type Container struct {
	Config   *config.Config
	Logger   common.Logger
	Router   *adapterrouting.Router
	Service  *planner.Service
	DB       *gorm.DB
	TripRepo *persistence.GormTripRepository
}

// BuildContainer assembles the full dependency graph. withDB controls
// whether persistence is wired; the one-shot plan command runs without it.
func BuildContainer(configPath string, withDB bool) (*Container, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger := logging.NewAdapter(logging.NewLogger(&cfg.Logging))

	c := &Container{Config: cfg, Logger: logger}

	var store adapterrouting.SegmentStore
	if withDB {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		c.DB = db
		c.TripRepo = persistence.NewGormTripRepository(db)
		store = persistence.NewGormSegmentRepository(db, cfg.Router.Cache.TTL, nil)
	}

	transit := providers.NewTransitClient(cfg.Providers.Transit.BaseURL, cfg.Providers.Transit.RequestsPerSecond, nil)
	walk := providers.NewWalkClient(cfg.Providers.Walk.BaseURL, cfg.Providers.Walk.RequestsPerSecond, nil)

	c.Router = adapterrouting.NewRouter(transit, walk, store, nil, adapterrouting.RouterConfig{
		WalkCutoffMeters:        cfg.Router.WalkCutoffMeters,
		WalkSpeedKmh:            cfg.Router.WalkSpeedKmh,
		FallbackSpeedKmh:        cfg.Router.FallbackSpeedKmh,
		FallbackOverheadMinutes: cfg.Router.FallbackOverheadMinutes,
		MaxConcurrent:           cfg.Router.MaxConcurrent,
		BreakerMaxFailures:      cfg.Router.Breaker.MaxFailures,
		BreakerCooldown:         cfg.Router.Breaker.Cooldown,
		CacheSize:               cfg.Router.Cache.Size,
		CacheTTL:                cfg.Router.Cache.TTL,
	})

	c.Service = planner.NewService(c.Router, planner.Config{
		KNearest:                 cfg.Planner.KNearest,
		RadiusMultiplier:         cfg.Planner.RadiusMultiplier,
		ClusterFlex:              cfg.Planner.ClusterFlex,
		SizePenalty:              cfg.Planner.SizePenalty,
		MinutesPenalty:           cfg.Planner.MinutesPenalty,
		SmoothingPasses:          cfg.Planner.SmoothingPasses,
		SmoothingThresholdMeters: cfg.Planner.SmoothingThresholdMeters,
		MaxTwoOptIterations:      cfg.Planner.MaxTwoOptIterations,
		ReconcileRounds:          cfg.Planner.ReconcileRounds,
		MaxRemovalsRatio:         cfg.Planner.MaxRemovalsRatio,
		ProxyMinutesPerKm:        cfg.Planner.ProxyMinutesPerKm,
		CheckInSpeedKmh:          cfg.Planner.CheckInSpeedKmh,
	})

	return c, nil
}

// Close releases the container's resources
func (c *Container) Close() {
	if c.DB != nil {
		_ = database.Close(c.DB)
	}
}
