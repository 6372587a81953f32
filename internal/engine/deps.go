package engine

import (
	"fmt"

	"github.com/talentport/jobsync/internal/config"
	"github.com/talentport/jobsync/internal/domain/job"
	adzunaProvider "github.com/talentport/jobsync/internal/domain/job/providers/adzuna"
	joobleProvider "github.com/talentport/jobsync/internal/domain/job/providers/jooble"
	storage "github.com/talentport/jobsync/internal/storage/neo4j"
	"github.com/talentport/jobsync/pkg/adzuna"
	"github.com/talentport/jobsync/pkg/cache"
	cacheredis "github.com/talentport/jobsync/pkg/cache/redis"
	"github.com/talentport/jobsync/pkg/jooble"
	"github.com/talentport/jobsync/pkg/logging"
	pkgneo4j "github.com/talentport/jobsync/pkg/neo4j"
)

// New builds a fully wired Engine from config. Providers without credentials
// are constructed in their unconfigured state rather than omitted, so status
// reporting can still list them.
func New(cfg config.Config, logger *logging.Logger) (*Engine, error) {
	neo4jClient, err := pkgneo4j.NewClient(pkgneo4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	store := storage.NewJobStore(neo4jClient)
	providers := buildProviders(cfg, logger)

	c, err := buildCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	pipeline := job.NewPipeline(logger.Named("pipeline"))
	aggregator := job.NewAggregator(providers, store, pipeline, logger.Named("aggregator"))
	syncer := job.NewSyncer(store, logger.Named("syncer"))
	scheduler := job.NewScheduler(aggregator, syncer, job.SchedulerConfig{
		Interval: cfg.Sync.Interval,
		Query:    cfg.Sync.Query,
		Location: cfg.Sync.Location,
		Country:  cfg.Sync.Country,
	}, logger.Named("scheduler"))

	return newEngine(logger, aggregator, scheduler, store, c, cfg.Cache.TTL, neo4jClient), nil
}

// buildProviders keeps a fixed order; it defines dedup precedence among
// freshly fetched records.
func buildProviders(cfg config.Config, logger *logging.Logger) []job.Provider {
	var adzunaClient *adzuna.Client
	if cfg.Adzuna.AppID != "" && cfg.Adzuna.AppKey != "" {
		client, err := adzuna.NewClient(adzuna.Config{
			AppID:   cfg.Adzuna.AppID,
			AppKey:  cfg.Adzuna.AppKey,
			Timeout: cfg.Adzuna.Timeout,
		})
		if err != nil {
			logger.Warn("failed to initialize Adzuna client", "err", err)
		} else {
			adzunaClient = client
		}
	}

	var joobleClient *jooble.Client
	if cfg.Jooble.APIKey != "" {
		client, err := jooble.NewClient(jooble.Config{
			APIKey:  cfg.Jooble.APIKey,
			Timeout: cfg.Jooble.Timeout,
		})
		if err != nil {
			logger.Warn("failed to initialize Jooble client", "err", err)
		} else {
			joobleClient = client
		}
	}

	providers := make([]job.Provider, 0, 2)
	if adzunaClient != nil {
		providers = append(providers, adzunaProvider.NewProvider(adzunaClient))
	} else {
		providers = append(providers, adzunaProvider.NewProvider(nil))
	}
	if joobleClient != nil {
		providers = append(providers, joobleProvider.NewProvider(joobleClient))
	} else {
		providers = append(providers, joobleProvider.NewProvider(nil))
	}

	for _, p := range providers {
		if p.Configured() {
			logger.Info("job provider configured", "provider", p.Name())
		} else {
			logger.Info("job provider has no credentials, will stay idle", "provider", p.Name())
		}
	}

	return providers
}

func buildCache(cfg config.Config) (cache.Cache, error) {
	opts := cache.DefaultOptions()
	opts.DefaultTTL = cfg.Cache.TTL

	if cfg.Redis.URL != "" {
		opts.RedisURL = cfg.Redis.URL
		return cacheredis.New(opts)
	}
	return cache.NewMemory(opts), nil
}
