//go:build wireinject
// +build wireinject

package engine

import (
	"github.com/google/wire"

	"github.com/talentport/jobsync/internal/config"
	"github.com/talentport/jobsync/internal/domain/job"
	storage "github.com/talentport/jobsync/internal/storage/neo4j"
	"github.com/talentport/jobsync/pkg/cache"
	"github.com/talentport/jobsync/pkg/logging"
	pkgneo4j "github.com/talentport/jobsync/pkg/neo4j"
)

// InitializeEngine creates an Engine with all resources wired up
func InitializeEngine(cfg config.Config, logger *logging.Logger) (*Engine, error) {
	wire.Build(
		// Infrastructure - Neo4j
		provideNeo4jConfig,
		pkgneo4j.NewClient,

		// Store
		storage.NewJobStore,
		wire.Bind(new(job.Store), new(*storage.JobStore)),

		// Cache
		provideCacheImpl,

		// Providers and pipeline
		provideProviders,
		providePipeline,
		job.NewAggregator,
		job.NewSyncer,

		// Scheduler
		provideSchedulerConfig,
		job.NewScheduler,

		provideEngine,
	)

	return &Engine{}, nil
}

// provideNeo4jConfig extracts Neo4j config from main config
func provideNeo4jConfig(cfg config.Config) pkgneo4j.Config {
	return pkgneo4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
	}
}

// provideCacheImpl picks the cache backend from config
func provideCacheImpl(cfg config.Config) (cache.Cache, error) {
	return buildCache(cfg)
}

// provideProviders creates the ordered provider slice
func provideProviders(cfg config.Config, logger *logging.Logger) []job.Provider {
	return buildProviders(cfg, logger)
}

// providePipeline creates the validation/dedup stage
func providePipeline(logger *logging.Logger) *job.Pipeline {
	return job.NewPipeline(logger)
}

// provideSchedulerConfig extracts scheduler settings from main config
func provideSchedulerConfig(cfg config.Config) job.SchedulerConfig {
	return job.SchedulerConfig{
		Interval: cfg.Sync.Interval,
		Query:    cfg.Sync.Query,
		Location: cfg.Sync.Location,
		Country:  cfg.Sync.Country,
	}
}

// provideEngine assembles the control surface
func provideEngine(
	cfg config.Config,
	logger *logging.Logger,
	aggregator *job.Aggregator,
	scheduler *job.Scheduler,
	store job.Store,
	c cache.Cache,
	neo4jClient *pkgneo4j.Client,
) *Engine {
	return newEngine(logger, aggregator, scheduler, store, c, cfg.Cache.TTL, neo4jClient)
}
