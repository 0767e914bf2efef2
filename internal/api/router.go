package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"collider/internal/geom"
	"collider/internal/render"
	"collider/internal/world"
)

// WorldInterface defines the world methods used by the API.
// This interface enables mocking for tests without spinning up the full
// tick loop. Keep this minimal - only include methods the API layer
// actually calls.
type WorldInterface interface {
	// Snapshot returns the latest lock-free immutable snapshot
	Snapshot() *world.Snapshot
	// AddBody builds a hull from vertices and tracks it
	AddBody(name string, vertices []geom.Vec2, opts world.BodyOptions) (*world.Body, error)
	// RemoveBody stops tracking a body
	RemoveBody(name string) bool
	// BodyCount returns the number of tracked bodies
	BodyCount() int
	// CheckPair runs a one-off exact test between two tracked bodies
	CheckPair(a, b string) (bool, error)
}

// RouterConfig contains all dependencies needed to construct the HTTP
// router. This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    World: mockWorld,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// World is the simulation (required)
	World WorldInterface

	// Renderer draws debug frames. If nil, /debug/frame returns 404.
	Renderer *render.Renderer

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses
	// DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for
	// benchmarks).
	DisableLogging bool
}

// NewRouter builds the chi router with middleware and all REST routes.
// WebSocket routes are added by Server, which owns the hub.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limiter := cfg.RateLimiter
	if limiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		limiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(limiter.Middleware)

	h := &handlers{world: cfg.World, renderer: cfg.Renderer}

	r.Get("/healthz", metricsMiddleware("/healthz", h.handleHealth))
	r.Handle("/metrics", MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/bodies", metricsMiddleware("/api/bodies", h.handleAddBody))
		r.Delete("/bodies/{name}", metricsMiddleware("/api/bodies/{name}", h.handleRemoveBody))
		r.Get("/state", metricsMiddleware("/api/state", h.handleState))
		r.Get("/contacts", metricsMiddleware("/api/contacts", h.handleContacts))
		r.Post("/check", metricsMiddleware("/api/check", h.handleCheck))
	})

	r.Get("/debug/frame", metricsMiddleware("/debug/frame", h.handleFrame))

	return r
}
