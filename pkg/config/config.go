// Package config loads runtime configuration from the environment.
// An optional .env file in the working directory is read first; real
// environment variables always win over values from the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for the API server and CLI tools.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	// DatabaseURL selects the PostgreSQL store; empty means in-memory store.
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	AutoMigrate bool

	// RedisURL enables the dashboard cache when set.
	RedisURL          string
	DashboardCacheTTL time.Duration

	// DayBoundaryTZ is the IANA zone used for "today" and "this month".
	DayBoundaryTZ string

	// UnderflowPolicy is "clamp" or "reject".
	UnderflowPolicy string

	// PhoneRegion is the ISO 3166 region for national phone numbers.
	PhoneRegion string

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resolves DayBoundaryTZ.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DayBoundaryTZ)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", c.DayBoundaryTZ, err)
	}
	return loc, nil
}

// Load reads configuration from .env (if present) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		Port:               getEnv("APP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         int32(getEnvInt("DB_MAX_CONNS", 25)),
		DBMinConns:         int32(getEnvInt("DB_MIN_CONNS", 2)),
		AutoMigrate:        getEnvBool("AUTO_MIGRATE", true),
		RedisURL:           os.Getenv("REDIS_URL"),
		DashboardCacheTTL:  getEnvDuration("DASHBOARD_CACHE_TTL", time.Minute),
		DayBoundaryTZ:      getEnv("DAY_BOUNDARY_TZ", "UTC"),
		UnderflowPolicy:    getEnv("UNDERFLOW_POLICY", "clamp"),
		PhoneRegion:        strings.ToUpper(getEnv("PHONE_REGION", "US")),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
	}

	if cfg.UnderflowPolicy != "clamp" && cfg.UnderflowPolicy != "reject" {
		return Config{}, fmt.Errorf("UNDERFLOW_POLICY must be clamp or reject, got %q", cfg.UnderflowPolicy)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
