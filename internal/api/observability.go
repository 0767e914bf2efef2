package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"collider/internal/world"
)

// Metrics with bounded cardinality (no per-body labels to prevent DoS)
var (
	// Simulation metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "world_tick_duration_seconds",
		Help:    "Time spent in one world tick (integrate + sweep + narrowphase)",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
	})

	bodyCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_body_count",
		Help: "Current number of tracked bodies",
	})

	candidatePairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_candidate_pairs",
		Help: "Broadphase candidate pairs in the latest tick",
	})

	contactPairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_contact_pairs",
		Help: "Narrowphase-confirmed contacts in the latest tick",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is path pattern, not full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages sent",
	})
)

// RecordSnapshot publishes the latest tick's stats to prometheus.
func RecordSnapshot(snap *world.Snapshot) {
	tickDuration.Observe(snap.TickDuration.Seconds())
	bodyCount.Set(float64(len(snap.Bodies)))
	candidatePairs.Set(float64(len(snap.Candidates)))
	contactPairs.Set(float64(len(snap.Contacts)))
}

// RecordConnectionRejected counts a rejected connection by bounded reason.
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// MetricsHandler returns the prometheus scrape handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// metricsMiddleware records request latency and counts per route pattern.
func metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: rw, status: http.StatusOK}
		next(sw, r)
		requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(sw.status)).Inc()
	}
}

// statusWriter captures the response status for metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// ObservabilityConfig configures the internal debug server.
type ObservabilityConfig struct {
	Addr string // pprof listen address, localhost-only by default
}

// DefaultObservabilityConfig returns the default debug server settings.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{Addr: "127.0.0.1:6060"}
}

// StartDebugServer starts a localhost pprof server for CPU/heap profiling of
// the collision pipeline. Never expose this address publicly.
func StartDebugServer(cfg ObservabilityConfig) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	go func() {
		log.Printf("🔍 Debug server (pprof) on http://%s/debug/pprof/", cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
			log.Printf("⚠️ Debug server stopped: %v", err)
		}
	}()
	return nil
}
