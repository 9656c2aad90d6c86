// Package config loads service configuration from a .env file and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Log      LogConfig
	Screen   ScreenConfig
}

type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	ReadTimeout time.Duration
}

type StorageConfig struct {
	Backend    string
	SQLitePath string
	BadgerPath string
	// CacheTTL enables a redis read-through cache in front of SQL and badger backends when > 0.
	CacheTTL time.Duration
}

type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type AuthConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type ScreenConfig struct {
	Width  float64
	Height float64
}

// Load reads envFile when present and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: failed to read %s: %w", envFile, err)
		}
	}

	var errs []string
	intVal := func(key string, fallback int) int {
		v, err := intEnv(key, fallback)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	durVal := func(key string, fallback time.Duration) time.Duration {
		v, err := durationEnv(key, fallback)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	floatVal := func(key string, fallback float64) float64 {
		v, err := floatEnv(key, fallback)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			RateLimit:   intVal("RATE_LIMIT", 100),
			RateWindow:  durVal("RATE_WINDOW", time.Minute),
			ReadTimeout: durVal("READ_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
			SQLitePath: getEnv("SQLITE_PATH", "data/salah.db"),
			BadgerPath: getEnv("BADGER_PATH", "data/badger"),
			CacheTTL:   durVal("CACHE_TTL", 0),
		},
		Database: DatabaseConfig{
			User:     getEnv("DB_USER", "salah_user"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "salah_db"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intVal("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Secret:   os.Getenv("AUTH_SECRET"),
			Issuer:   getEnv("AUTH_ISSUER", "salah-sync-engine"),
			TokenTTL: durVal("TOKEN_TTL", 30*24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		Screen: ScreenConfig{
			Width:  floatVal("SCREEN_WIDTH", 390),
			Height: floatVal("SCREEN_HEIGHT", 844),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendPostgres, BackendSQLite, BackendBadger:
	case BackendRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("config: STORAGE_BACKEND=redis requires REDIS_HOST")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("config: screen dimensions must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("config: RATE_LIMIT cannot be negative")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a duration (e.g. 30s, 5m)", key)
	}
	return d, nil
}
