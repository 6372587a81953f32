package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config contains runtime settings for the sync engine
type Config struct {
	LogLevel string
	Adzuna   struct {
		AppID   string
		AppKey  string
		Timeout time.Duration
	} // Adzuna API credentials
	Jooble struct {
		APIKey  string
		Timeout time.Duration
	} // Jooble API credentials
	Neo4j struct {
		URI      string
		Username string
		Password string
	}
	Redis struct {
		URL string // optional; empty keeps the in-process cache
	}
	Sync struct {
		Interval time.Duration
		Query    string
		Location string
		Country  string
	}
	Cache struct {
		TTL time.Duration
	}
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel: "info",
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.Adzuna.AppID = os.Getenv("ADZUNA_APP_ID")
	cfg.Adzuna.AppKey = os.Getenv("ADZUNA_APP_KEY")
	cfg.Adzuna.Timeout = getEnvDuration("ADZUNA_TIMEOUT", 10*time.Second)

	cfg.Jooble.APIKey = os.Getenv("JOOBLE_API_KEY")
	cfg.Jooble.Timeout = getEnvDuration("JOOBLE_TIMEOUT", 15*time.Second)

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")

	cfg.Redis.URL = os.Getenv("REDIS_URL")

	cfg.Sync.Interval = getEnvDuration("SYNC_INTERVAL", 30*time.Minute)
	cfg.Sync.Query = getEnvString("SYNC_QUERY", "software developer")
	cfg.Sync.Location = os.Getenv("SYNC_LOCATION")
	cfg.Sync.Country = getEnvString("SYNC_COUNTRY", "us")

	cfg.Cache.TTL = getEnvDuration("CACHE_TTL", time.Minute)

	var missingVars []string

	if cfg.Neo4j.URI == "" {
		missingVars = append(missingVars, "NEO4J_URI")
	}

	if cfg.Neo4j.Username == "" {
		missingVars = append(missingVars, "NEO4J_USERNAME")
	}

	if cfg.Neo4j.Password == "" {
		missingVars = append(missingVars, "NEO4J_PASSWORD")
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
