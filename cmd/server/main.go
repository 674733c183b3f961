package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mergington/activities/internal/config"
	"github.com/mergington/activities/internal/database"
	"github.com/mergington/activities/internal/handler"
	"github.com/mergington/activities/internal/jobs"
	"github.com/mergington/activities/internal/middleware"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
	"github.com/mergington/activities/internal/service"
	"github.com/mergington/activities/internal/static"
)

func main() {
	// Log at info until the config says otherwise; config loading itself
	// wants a logger.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("cannot load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("configuration rejected", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))

	ctx := context.Background()

	registry, closeRegistry, err := newRegistry(ctx, cfg)
	if err != nil {
		slog.Error("cannot open the activity registry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRegistry()

	activityService := service.NewActivityService(service.ActivityServiceConfig{
		ActivityRepo: registry,
	})
	activityHandler := handler.NewActivityHandler(activityService)

	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handler.Root)
	mux.HandleFunc("GET /health", handler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))
	activityHandler.RegisterRoutes(mux)

	// Order matters here. Recovery sits inside Logger so panics are still
	// logged with a request id; Idempotency sits inside the limiter so
	// replays spend a token like any other request.
	chain := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	}
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
			Rate:   cfg.RateLimit.RPS,
			Window: time.Second,
			Burst:  cfg.RateLimit.Burst,
		})
		defer rateLimiter.Stop()
		chain = append(chain, middleware.RateLimit(rateLimiter))
	}
	chain = append(chain,
		middleware.Metrics,
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	if cfg.Capacity.WatchEnabled {
		watcher := jobs.NewCapacityWatcher(activityService, cfg.Capacity.WatchInterval)
		watcher.Start()
		defer watcher.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      middleware.Chain(mux, chain...),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("listening",
			slog.String("addr", cfg.Server.Addr()),
			slog.String("backend", cfg.Store.Backend),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Block until asked to stop, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown did not complete cleanly", slog.String("error", err.Error()))
	}

	slog.Info("server stopped")
}

// newRegistry opens the configured activity store and seeds the default
// roster. The returned cleanup closes the database connection; for the
// in-memory registry it is a no-op.
func newRegistry(ctx context.Context, cfg *config.Config) (service.ActivityRepository, func(), error) {
	if cfg.Store.Backend != config.BackendSurreal {
		slog.Info("using the in-memory activity registry")
		return repository.NewMemoryActivityRepository(), func() {}, nil
	}

	db := database.NewSurrealDB(database.Config{
		URL:       cfg.Store.URL,
		User:      cfg.Store.User,
		Password:  cfg.Store.Password,
		Namespace: cfg.Store.Namespace,
		Database:  cfg.Store.Database,
	})

	if err := db.Connect(ctx); err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Warn("closing the database connection", slog.String("error", err.Error()))
		}
	}

	if err := db.Ping(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	repo := repository.NewActivityRepository(db)
	created, err := repo.SeedDefaults(ctx, model.SeedActivities())
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	slog.Info("activity registry ready",
		slog.String("url", cfg.Store.URL),
		slog.String("namespace", cfg.Store.Namespace),
		slog.String("database", cfg.Store.Database),
		slog.Int("seeded", created),
	)
	return repo, closeDB, nil
}
