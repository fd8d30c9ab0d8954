package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the social service.
type Config struct {
	DB                     DBConfig
	Redis                  RedisConfig
	Port                   string
	Storage                string
	RateLimitMax           int
	RateLimitWindowSeconds int
	// PopularCacheTTL of 0 disables caching of the popularity ranking.
	PopularCacheTTL        time.Duration
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateLimitMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	popularTTL, err := strconv.Atoi(getEnv("POPULAR_CACHE_TTL_SECONDS", "60"))
	if err != nil || popularTTL < 0 {
		return nil, fmt.Errorf("invalid POPULAR_CACHE_TTL_SECONDS %q (want seconds >= 0)", os.Getenv("POPULAR_CACHE_TTL_SECONDS"))
	}

	cfg := &Config{
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "social_service"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Port:                   getEnv("SERVER_PORT", "8084"),
		Storage:                getEnv("STORAGE_BACKEND", StoragePostgres),
		RateLimitMax:           rateLimitMax,
		RateLimitWindowSeconds: rateLimitWindow,
		PopularCacheTTL:        time.Duration(popularTTL) * time.Second,
	}

	switch cfg.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want %s or %s)", cfg.Storage, StoragePostgres, StorageMemory)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
