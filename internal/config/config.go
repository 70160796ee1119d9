// Package config loads process configuration from the environment, with
// .env fallback for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSnapshot = "snapshot"
	BackendPostgres = "postgres"
)

type Config struct {
	// Backend selects the storage implementation: snapshot or postgres.
	Backend string
	// SnapshotDir holds the three JSON snapshot files.
	SnapshotDir string

	PostgresDSN string

	KafkaBrokers []string
	AuditTopic   string

	MetricsAddr string

	AuditWorkers   int
	AuditBatchSize int
	AuditFlush     time.Duration
}

// Load reads the environment, trying .env files in the working directory
// and its parents first.
func Load() (*Config, error) {
	loadDotenv()

	cfg := &Config{
		Backend:        getEnv("RENTAL_BACKEND", BackendSnapshot),
		SnapshotDir:    getEnv("RENTAL_SNAPSHOT_DIR", "data"),
		AuditTopic:     getEnv("RENTAL_AUDIT_TOPIC", "rental_audit"),
		MetricsAddr:    getEnv("RENTAL_METRICS_ADDR", ":9090"),
		AuditWorkers:   getEnvInt("RENTAL_AUDIT_WORKERS", 2),
		AuditBatchSize: getEnvInt("RENTAL_AUDIT_BATCH", 5),
		AuditFlush:     getEnvDuration("RENTAL_AUDIT_FLUSH", 500*time.Millisecond),
	}

	if brokers := os.Getenv("RENTAL_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	switch cfg.Backend {
	case BackendSnapshot:
	case BackendPostgres:
		cfg.PostgresDSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"),
			os.Getenv("POSTGRES_DB"),
		)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	return cfg, nil
}

func loadDotenv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	for _, dir := range []string{wd, filepath.Join(wd, ".."), filepath.Join(wd, "..", "..")} {
		if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
			return
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
