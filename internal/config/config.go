package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort     string
	AppMode      string
	FiberPrefork bool
	LogLevel     string

	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	DatabaseURL       string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnLifetime time.Duration
	DBMaxConnIdleTime time.Duration

	WorkerBufferSize int
	WorkerBatchSize  int
	WorkerFlushEvery time.Duration

	BucketConcurrency int
	RegistryPath      string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", ":8080"),
		AppMode:      strings.ToLower(getEnv("APP_MODE", "dev")),
		FiberPrefork: parseBoolEnv("FIBER_PREFORK", false),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),

		ClickHouseAddr:     os.Getenv("CLICKHOUSE_ADDR"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: os.Getenv("CLICKHOUSE_PASSWORD"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxConns:        parseInt32Env("DB_MAX_CONNS", 20),
		DBMinConns:        parseInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnLifetime: parseDurationEnv("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		DBMaxConnIdleTime: parseDurationEnv("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),

		WorkerBufferSize: parseIntEnv("INDEX_WORKER_BUFFER_SIZE", 10000),
		WorkerBatchSize:  parseIntEnv("INDEX_WORKER_BATCH_SIZE", 500),
		WorkerFlushEvery: parseDurationEnv("INDEX_WORKER_FLUSH_EVERY", time.Second),

		BucketConcurrency: parseIntEnv("BUCKET_CONCURRENCY", 4),
		RegistryPath:      getEnv("REGISTRY_PATH", "config/registry.yaml"),
	}

	if cfg.ClickHouseAddr == "" {
		return nil, errors.New("CLICKHOUSE_ADDR is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.BucketConcurrency < 1 {
		cfg.BucketConcurrency = 1
	}
	return cfg, nil
}

// ClickHouseAddrs splits the comma separated CLICKHOUSE_ADDR.
func (c *Config) ClickHouseAddrs() []string {
	var addrs []string
	for _, a := range strings.Split(c.ClickHouseAddr, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseInt32Env(key string, fallback int32) int32 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(parsed)
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
