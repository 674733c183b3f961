package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted for STORE_BACKEND.
const (
	BackendMemory  = "memory"
	BackendSurreal = "surrealdb"
)

// Config is everything the server reads from its environment, grouped
// by concern. Load fills it, Validate vets it, and nothing else in the
// program touches os.Getenv.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Capacity  CapacityConfig
	Log       LogConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// StoreConfig selects and configures the activity registry backend.
// The SurrealDB fields are ignored under the memory backend.
type StoreConfig struct {
	Backend   string
	URL       string
	User      string
	Password  string
	Namespace string
	Database  string
}

// RateLimitConfig holds request throttling settings.
type RateLimitConfig struct {
	Enabled bool
	RPS     int
	Burst   int
}

// CapacityConfig holds roster capacity watcher settings.
type CapacityConfig struct {
	WatchEnabled  bool
	WatchInterval time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// SlogLevel maps the configured level name onto slog. Unknown values fall
// back to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads the configuration from the environment, after applying a
// .env file from the working directory when one exists. Every field has
// a default that suits local development: an in-memory registry on
// port 8080, open CORS, and the limiter and capacity watcher on.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:            envStr("SERVER_HOST", ""),
			Port:            envStr("SERVER_PORT", "8080"),
			ReadTimeout:     envDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    envDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: envDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Store: StoreConfig{
			Backend:   envStr("STORE_BACKEND", BackendMemory),
			URL:       envStr("SURREALDB_URL", "ws://localhost:8000"),
			User:      envStr("SURREALDB_USER", "root"),
			Password:  envStr("SURREALDB_PASS", "root"),
			Namespace: envStr("SURREALDB_NAMESPACE", "mergington"),
			Database:  envStr("SURREALDB_DATABASE", "activities"),
		},
		RateLimit: RateLimitConfig{
			Enabled: envBool("RATE_LIMIT_ENABLED", true),
			RPS:     envInt("RATE_LIMIT_RPS", 10),
			Burst:   envInt("RATE_LIMIT_BURST", 20),
		},
		Capacity: CapacityConfig{
			WatchEnabled:  envBool("CAPACITY_WATCH_ENABLED", true),
			WatchInterval: envDuration("CAPACITY_WATCH_INTERVAL", time.Minute),
		},
		Log: LogConfig{
			Level: envStr("LOG_LEVEL", "info"),
		},
	}, nil
}

// Validate vets the whole configuration at once and joins every failure
// into one error, so a broken deployment surfaces all its problems on
// the first start attempt. Rules behind a disabled feature are skipped.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT must not be empty"))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, errors.New("SERVER_READ_TIMEOUT must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("SERVER_WRITE_TIMEOUT must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SERVER_SHUTDOWN_TIMEOUT must be positive"))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS needs at least one origin"))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSurreal:
		if c.Store.URL == "" {
			errs = append(errs, errors.New("SURREALDB_URL is required for the surrealdb backend"))
		}
		if c.Store.Namespace == "" {
			errs = append(errs, errors.New("SURREALDB_NAMESPACE is required for the surrealdb backend"))
		}
		if c.Store.Database == "" {
			errs = append(errs, errors.New("SURREALDB_DATABASE is required for the surrealdb backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be '%s' or '%s', got '%s'", BackendMemory, BackendSurreal, c.Store.Backend))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
		}
		if c.RateLimit.Burst < 0 {
			errs = append(errs, errors.New("RATE_LIMIT_BURST must not be negative"))
		}
	}

	if c.Capacity.WatchEnabled && c.Capacity.WatchInterval <= 0 {
		errs = append(errs, errors.New("CAPACITY_WATCH_INTERVAL must be positive"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be 'debug', 'info', 'warn', or 'error', got '%s'", c.Log.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// The env readers treat a set-but-empty variable like an unset one, and
// a malformed value falls back to the default rather than failing;
// Validate catches anything that matters afterwards.

func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
