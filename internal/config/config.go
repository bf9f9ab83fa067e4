package config

import (
	"os"
	"strconv"
	"time"

	"cinehall/internal/cache"
	"cinehall/internal/database"
	"cinehall/internal/messaging"
	"cinehall/internal/search"
)

// Config holds the full application configuration.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// HoldTTL is how long a PENDING reservation provisionally holds its
	// seats before the sweeper may reclaim them.
	HoldTTL time.Duration

	// SweepInterval is the expiration sweeper tick.
	SweepInterval time.Duration

	Database      database.Config
	Redis         cache.Config
	NATS          messaging.Config
	Elasticsearch search.Config
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		HoldTTL:       time.Duration(getEnvInt("RESERVATION_HOLD_MIN", 15)) * time.Minute,
		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "cinehall"),
			Password:           getEnv("DB_PASSWORD", "cinehall123"),
			DBName:             getEnv("DB_NAME", "cinehall"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Redis: cache.Config{
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            getEnvInt("REDIS_DB", 0),
			UsersHashKey:  getEnv("REDIS_USERS_HASH_KEY", "users:auth"),
			SeatMapTTLSec: getEnvInt("SEATMAP_CACHE_TTL_SEC", 5),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "cinehall"),
			ClientID:  getEnv("NATS_CLIENT_ID", "cinehall-api"),
		},

		Elasticsearch: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Index:      getEnv("ELASTICSEARCH_INDEX", "screenings"),
			Username:   os.Getenv("ELASTICSEARCH_USERNAME"),
			Password:   os.Getenv("ELASTICSEARCH_PASSWORD"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
