package api

import (
	"net/http"

	"carpool-route-service/internal/api/handlers"
	"carpool-route-service/internal/platform/metrics"
	"carpool-route-service/internal/ports"
	"carpool-route-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Source        ports.PassengerSource
	Registry      *services.SessionRegistry
	DefaultStatus string
	Log           *zap.Logger
	Metrics       *metrics.Metrics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := chi.NewRouter()

	// Request ID first so every log line carries it.
	mux.Use(requestID)
	mux.Use(accessLog(deps.Log, deps.Metrics))
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(middleware.Heartbeat("/ping"))
	mux.Use(bearerToken)

	passengerHandler := &handlers.PassengerHandler{
		Source:        deps.Source,
		DefaultStatus: deps.DefaultStatus,
		Log:           deps.Log,
	}
	sessionHandler := &handlers.SessionHandler{
		Registry:      deps.Registry,
		Source:        deps.Source,
		DefaultStatus: deps.DefaultStatus,
		Log:           deps.Log,
	}

	mux.Get("/health", handlers.Health)
	if deps.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Get("/passengers", passengerHandler.List)

	mux.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.Create)
		r.Get("/{sessionID}", sessionHandler.Get)
		r.Delete("/{sessionID}", sessionHandler.Close)
		r.Post("/{sessionID}/toggle", sessionHandler.Toggle)
		r.Post("/{sessionID}/reset", sessionHandler.Reset)
		r.Delete("/{sessionID}/selection/{passengerID}", sessionHandler.Remove)
	})

	return mux
}
