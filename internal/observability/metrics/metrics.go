// Package metrics collects and exposes Prometheus metrics for the web client.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by recorders.
const (
	ResultSuccess     = "success"
	ResultError       = "error"
	ResultRateLimited = "rate_limited"
	ResultRejected    = "rejected"
)

// Hydrate results.
const (
	HydrateEmpty    = "empty"
	HydrateRestored = "restored"
	HydrateCleared  = "cleared"
	HydrateError    = "error"
)

// Recorder is what services and middleware use to report activity.
type Recorder interface {
	RecordLogin(result string)
	RecordGuardDecision(outcome string, requireAdmin bool)
	RecordBackendRequest(op string, status int, duration time.Duration)
	RecordBackendUnauthorized(op string)
	RecordHydrate(result string)
	SetActiveSessions(n int)
}

// Collector records metrics into a Prometheus registry.
type Collector struct {
	logins         *prometheus.CounterVec
	guard          *prometheus.CounterVec
	backendStatus  *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
	backend401     *prometheus.CounterVec
	hydrates       *prometheus.CounterVec
	sessions       prometheus.Gauge
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_login_attempts_total",
			Help: "Login form submissions by result.",
		}, []string{"result"}),
		guard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_route_guard_decisions_total",
			Help: "Route guard decisions by outcome.",
		}, []string{"outcome", "require_admin"}),
		backendStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_backend_requests_total",
			Help: "Backend requests by operation and HTTP status (0 for transport failures).",
		}, []string{"op", "status_code"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_backend_request_duration_seconds",
			Help:    "Backend request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		backend401: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_backend_unauthorized_total",
			Help: "Backend responses with status 401.",
		}, []string{"op"}),
		hydrates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_session_hydrations_total",
			Help: "Session store hydrations by result.",
		}, []string{"result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "folio_active_sessions",
			Help: "Session stores currently held in memory.",
		}),
	}

	reg.MustRegister(
		c.logins,
		c.guard,
		c.backendStatus,
		c.backendLatency,
		c.backend401,
		c.hydrates,
		c.sessions,
	)

	return c
}

// RecordLogin counts a login submission.
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordGuardDecision counts a route guard evaluation.
func (c *Collector) RecordGuardDecision(outcome string, requireAdmin bool) {
	c.guard.WithLabelValues(outcome, strconv.FormatBool(requireAdmin)).Inc()
}

// RecordBackendRequest records one backend round trip.
func (c *Collector) RecordBackendRequest(op string, status int, duration time.Duration) {
	c.backendStatus.WithLabelValues(op, strconv.Itoa(status)).Inc()
	c.backendLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordBackendUnauthorized counts a 401 from the backend.
func (c *Collector) RecordBackendUnauthorized(op string) {
	c.backend401.WithLabelValues(op).Inc()
}

// RecordHydrate counts a session hydration.
func (c *Collector) RecordHydrate(result string) {
	c.hydrates.WithLabelValues(result).Inc()
}

// SetActiveSessions reports the number of cached session stores.
func (c *Collector) SetActiveSessions(n int) {
	c.sessions.Set(float64(n))
}

// Nop discards everything.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordLogin(string)                              {}
func (Nop) RecordGuardDecision(string, bool)                {}
func (Nop) RecordBackendRequest(string, int, time.Duration) {}
func (Nop) RecordBackendUnauthorized(string)                {}
func (Nop) RecordHydrate(string)                            {}
func (Nop) SetActiveSessions(int)                           {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
