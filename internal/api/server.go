package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"collider/internal/render"
)

// Server is the HTTP API server with WebSocket support. It combines the
// HTTP router with the contact-feed hub.
type Server struct {
	world       WorldInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	feedPeriod  time.Duration
}

// ServerConfig configures NewServer.
type ServerConfig struct {
	World       WorldInterface
	Renderer    *render.Renderer
	CORSOrigins []string
	RateLimit   *RateLimitConfig
	TickRate    int // world tick rate, drives the contact feed period
}

// NewServer creates a new API server.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter()
// directly.
func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		world:      cfg.World,
		wsHub:      NewWebSocketHub(),
		feedPeriod: time.Second / 30,
	}
	if cfg.TickRate > 0 {
		s.feedPeriod = time.Second / time.Duration(cfg.TickRate)
	}

	rlCfg := DefaultRateLimitConfig
	if cfg.RateLimit != nil {
		rlCfg = *cfg.RateLimit
	}
	s.rateLimiter = NewIPRateLimiter(rlCfg)

	s.router = NewRouter(RouterConfig{
		World:       cfg.World,
		Renderer:    cfg.Renderer,
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.CORSOrigins,
	})

	// WebSocket route needs the hub instance, so it can't be part of the
	// generic NewRouter factory.
	s.router.Get("/ws", s.wsHub.HandleWS)

	return s
}

// Start begins the HTTP server AND starts background workers. This is the
// ONLY method that starts goroutines or opens network listeners.
func (s *Server) Start(addr string) error {
	s.wsHub.StartBroadcastLoop(s.world, s.feedPeriod)

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("📊 Metrics: http://localhost%s/metrics", addr)

	return http.ListenAndServe(addr, s.router)
}

// Stop halts the background workers.
func (s *Server) Stop() {
	s.wsHub.Stop()
	s.rateLimiter.Stop()
}

// Router returns the HTTP handler for use with httptest.
//
// Example:
//
//	server := api.NewServer(api.ServerConfig{World: w})
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
func (s *Server) Router() http.Handler {
	return s.router
}
