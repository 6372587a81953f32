package main

import (
	"log"
	"os"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/talentport/jobsync/internal/config"
	"github.com/talentport/jobsync/internal/engine"
	"github.com/talentport/jobsync/pkg/logging"
	"github.com/talentport/jobsync/pkg/shutdown"
)

func main() {
	// .env is a local-development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	eng, err := engine.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize sync engine", "err", err)
		os.Exit(1)
	}

	if err := eng.Start(); err != nil {
		logger.Error("failed to start sync schedule", "err", err)
		os.Exit(1)
	}

	logger.Info("job sync engine running",
		"interval", cfg.Sync.Interval.String(),
		"query", cfg.Sync.Query,
		"country", cfg.Sync.Country)

	shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		eng,
		10*time.Second,
		logger,
	)
}
