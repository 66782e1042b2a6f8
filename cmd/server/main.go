package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"carpool-route-service/internal/adapters/cache"
	"carpool-route-service/internal/adapters/directions"
	"carpool-route-service/internal/adapters/events"
	"carpool-route-service/internal/adapters/passengers"
	"carpool-route-service/internal/adapters/repositories"
	"carpool-route-service/internal/api"
	"carpool-route-service/internal/config"
	"carpool-route-service/internal/platform/db"
	"carpool-route-service/internal/platform/logger"
	"carpool-route-service/internal/platform/metrics"
	"carpool-route-service/internal/ports"
	"carpool-route-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	var pg *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			return err
		}
		pg = conn
	}

	source, err := newPassengerSource(cfg, pg, zl)
	if err != nil {
		return err
	}

	provider, closeCache, err := newMapProvider(ctx, cfg, pg, m, zl)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, closePublisher := newPublisher(cfg, zl)
	defer closePublisher()

	registry := services.NewSessionRegistry(services.SessionDeps{
		Provider:       provider,
		Publisher:      publisher,
		Log:            zl,
		Metrics:        m,
		RouteTimeout:   cfg.RouteTimeout,
		DebounceWindow: cfg.DebounceWindow,
	}, cfg.SessionIdleTTL)
	defer registry.CloseAll()

	go registry.RunSweeper(ctx, time.Minute)

	router := api.NewRouter(api.RouterDeps{
		Source:        source,
		Registry:      registry,
		DefaultStatus: cfg.PassengerStatus,
		Log:           zl,
		Metrics:       m,
		Gatherer:      reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("passenger_source", cfg.PassengerSource),
			zap.String("maps_provider", cfg.MapsProvider))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPassengerSource(cfg *config.Config, pg *sql.DB, zl *zap.Logger) (ports.PassengerSource, error) {
	if cfg.PassengerSource == "postgres" {
		return repositories.NewPostgresPassengerRepository(pg, zl), nil
	}
	return passengers.NewRESTPassengerSource(cfg.PassengerAPIURL, zl)
}

// newMapProvider picks the directions backend and puts the best available
// route cache in front of it: Redis, then Postgres, then process memory.
func newMapProvider(
	ctx context.Context,
	cfg *config.Config,
	pg *sql.DB,
	m *metrics.Metrics,
	zl *zap.Logger,
) (ports.MapProvider, func(), error) {
	var next ports.MapProvider
	switch cfg.MapsProvider {
	case "mock":
		next = directions.NewMockMapProvider()
	default:
		g, err := directions.NewGoogleDirectionsProvider(cfg.GoogleMapsAPIKey, cfg.DirectionsBaseURL, zl)
		if err != nil {
			return nil, nil, err
		}
		next = g
	}

	var routeCache ports.RouteCache
	closeFn := func() {}
	switch {
	case cfg.RedisURL != "":
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		routeCache = cache.NewRedisRouteCache(client, cfg.RouteCacheTTL)
		closeFn = func() { _ = client.Close() }
	case pg != nil:
		routeCache = cache.NewSQLRouteCache(pg, cfg.RouteCacheTTL, zl)
	default:
		routeCache = cache.NewMemoryRouteCache(cfg.RouteCacheTTL)
	}

	return directions.NewCachedProvider(next, routeCache, m, zl), closeFn, nil
}

// newPublisher falls back to logging events when the broker is unset or
// unreachable; route events are informational and never block routing.
func newPublisher(cfg *config.Config, zl *zap.Logger) (ports.EventPublisher, func()) {
	if cfg.AMQPURL == "" {
		return events.NewLogPublisher(zl), func() {}
	}

	conn, err := events.DialAMQP(cfg.AMQPURL, zl)
	if err != nil {
		zl.Warn("rabbitmq unavailable, logging route events instead", zap.Error(err))
		return events.NewLogPublisher(zl), func() {}
	}

	pub, err := events.NewAMQPPublisher(conn, zl)
	if err != nil {
		_ = conn.Close()
		zl.Warn("rabbitmq publisher setup failed, logging route events instead", zap.Error(err))
		return events.NewLogPublisher(zl), func() {}
	}
	return pub, func() { _ = pub.Close() }
}
