package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

// workingConfig returns a configuration that passes Validate, for tests
// to break one field at a time.
func workingConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"https://portal.mergington.edu"},
		},
		Store: StoreConfig{
			Backend:   BackendSurreal,
			URL:       "ws://localhost:8000",
			User:      "root",
			Password:  "root",
			Namespace: "mergington",
			Database:  "activities",
		},
		RateLimit: RateLimitConfig{Enabled: true, RPS: 10, Burst: 20},
		Capacity:  CapacityConfig{WatchEnabled: true, WatchInterval: time.Minute},
		Log:       LogConfig{Level: "info"},
	}
}

func TestValidate_AcceptsAWorkingConfig(t *testing.T) {
	t.Parallel()

	if err := workingConfig().Validate(); err != nil {
		t.Errorf("expected a working config to validate, got: %v", err)
	}
}

func TestValidate_RejectsBrokenFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		breakit  func(*Config)
		mentions []string
	}{
		{
			name:     "empty port",
			breakit:  func(c *Config) { c.Server.Port = "" },
			mentions: []string{"SERVER_PORT"},
		},
		{
			name:     "zero read timeout",
			breakit:  func(c *Config) { c.Server.ReadTimeout = 0 },
			mentions: []string{"SERVER_READ_TIMEOUT"},
		},
		{
			name:     "negative write timeout",
			breakit:  func(c *Config) { c.Server.WriteTimeout = -time.Second },
			mentions: []string{"SERVER_WRITE_TIMEOUT"},
		},
		{
			name:     "zero shutdown timeout",
			breakit:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			mentions: []string{"SERVER_SHUTDOWN_TIMEOUT"},
		},
		{
			name:     "no origins",
			breakit:  func(c *Config) { c.Server.AllowedOrigins = nil },
			mentions: []string{"CORS_ALLOWED_ORIGINS"},
		},
		{
			name:     "unknown backend",
			breakit:  func(c *Config) { c.Store.Backend = "postgres" },
			mentions: []string{"STORE_BACKEND"},
		},
		{
			name:    "surrealdb backend without connection settings",
			breakit: func(c *Config) { c.Store = StoreConfig{Backend: BackendSurreal} },
			mentions: []string{
				"SURREALDB_URL",
				"SURREALDB_NAMESPACE",
				"SURREALDB_DATABASE",
			},
		},
		{
			name:     "zero rps with limiter on",
			breakit:  func(c *Config) { c.RateLimit.RPS = 0 },
			mentions: []string{"RATE_LIMIT_RPS"},
		},
		{
			name:     "negative burst with limiter on",
			breakit:  func(c *Config) { c.RateLimit.Burst = -1 },
			mentions: []string{"RATE_LIMIT_BURST"},
		},
		{
			name:     "zero watch interval with watcher on",
			breakit:  func(c *Config) { c.Capacity.WatchInterval = 0 },
			mentions: []string{"CAPACITY_WATCH_INTERVAL"},
		},
		{
			name:     "unknown log level",
			breakit:  func(c *Config) { c.Log.Level = "verbose" },
			mentions: []string{"LOG_LEVEL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := workingConfig()
			tt.breakit(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			for _, mention := range tt.mentions {
				if !strings.Contains(err.Error(), mention) {
					t.Errorf("expected the error to name %s, got: %v", mention, err)
				}
			}
		})
	}
}

func TestValidate_DisabledFeaturesSkipTheirRules(t *testing.T) {
	t.Parallel()

	cfg := workingConfig()
	cfg.Store = StoreConfig{Backend: BackendMemory}
	cfg.RateLimit = RateLimitConfig{Enabled: false, RPS: 0, Burst: -5}
	cfg.Capacity = CapacityConfig{WatchEnabled: false, WatchInterval: 0}

	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled features must not be validated, got: %v", err)
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := workingConfig()
	cfg.Server.Port = ""
	cfg.Store.Backend = "bogus"
	cfg.RateLimit.RPS = 0
	cfg.Log.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	msg := err.Error()
	for _, mention := range []string{"SERVER_PORT", "STORE_BACKEND", "RATE_LIMIT_RPS", "LOG_LEVEL"} {
		if !strings.Contains(msg, mention) {
			t.Errorf("one failed check must not hide another; missing %s in: %v", mention, err)
		}
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		port string
		want string
	}{
		{"", "8080", ":8080"},
		{"127.0.0.1", "8080", "127.0.0.1:8080"},
		{"0.0.0.0", "80", "0.0.0.0:80"},
	}

	for _, tt := range tests {
		cfg := ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host %q port %q = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := (LogConfig{Level: tt.level}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

// configKeys lists every environment variable Load reads, so tests can
// clear inherited values.
var configKeys = []string{
	"SERVER_HOST", "SERVER_PORT",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"CORS_ALLOWED_ORIGINS",
	"STORE_BACKEND", "SURREALDB_URL", "SURREALDB_USER", "SURREALDB_PASS",
	"SURREALDB_NAMESPACE", "SURREALDB_DATABASE",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"CAPACITY_WATCH_ENABLED", "CAPACITY_WATCH_INTERVAL",
	"LOG_LEVEL",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultsServeDevelopment(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Addr() != ":8080" {
		t.Errorf("expected the default listen address :8080, got %q", cfg.Server.Addr())
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("expected the in-memory registry by default, got %q", cfg.Store.Backend)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("expected permissive CORS by default, got %v", cfg.Server.AllowedOrigins)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RPS != 10 || cfg.RateLimit.Burst != 20 {
		t.Errorf("expected the limiter on at 10 rps burst 20, got %+v", cfg.RateLimit)
	}
	if !cfg.Capacity.WatchEnabled || cfg.Capacity.WatchInterval != time.Minute {
		t.Errorf("expected the capacity watcher on each minute, got %+v", cfg.Capacity)
	}
	if cfg.Log.SlogLevel() != slog.LevelInfo {
		t.Errorf("expected info logging by default, got %v", cfg.Log.SlogLevel())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("the defaults must validate, got: %v", err)
	}
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SERVER_HOST", "10.1.2.3")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://portal.mergington.edu,https://classroom.mergington.edu")
	t.Setenv("STORE_BACKEND", "surrealdb")
	t.Setenv("SURREALDB_NAMESPACE", "staging")
	t.Setenv("RATE_LIMIT_RPS", "55")
	t.Setenv("CAPACITY_WATCH_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Addr() != "10.1.2.3:8080" {
		t.Errorf("expected host override applied, got %q", cfg.Server.Addr())
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected 5s shutdown timeout, got %v", cfg.Server.ShutdownTimeout)
	}
	wantOrigins := []string{"https://portal.mergington.edu", "https://classroom.mergington.edu"}
	if len(cfg.Server.AllowedOrigins) != 2 ||
		cfg.Server.AllowedOrigins[0] != wantOrigins[0] ||
		cfg.Server.AllowedOrigins[1] != wantOrigins[1] {
		t.Errorf("expected the origin list split on commas, got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Store.Backend != BackendSurreal || cfg.Store.Namespace != "staging" {
		t.Errorf("expected the surrealdb backend in the staging namespace, got %+v", cfg.Store)
	}
	if cfg.RateLimit.RPS != 55 {
		t.Errorf("expected 55 rps, got %d", cfg.RateLimit.RPS)
	}
	if cfg.Capacity.WatchEnabled {
		t.Error("expected the capacity watcher off")
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug logging, got %v", cfg.Log.SlogLevel())
	}
}

func TestLoad_MalformedValuesKeepTheDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "ten")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")
	t.Setenv("CAPACITY_WATCH_INTERVAL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.RateLimit.RPS != 10 {
		t.Errorf("unparseable RATE_LIMIT_RPS must keep the default 10, got %d", cfg.RateLimit.RPS)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("unparseable RATE_LIMIT_ENABLED must keep the default true")
	}
	if cfg.Capacity.WatchInterval != time.Minute {
		t.Errorf("unparseable CAPACITY_WATCH_INTERVAL must keep the default, got %v", cfg.Capacity.WatchInterval)
	}
}
