// Package metrics exposes Prometheus collectors for the game server and the
// HTTP API that serves them alongside the leaderboard.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/roadrush/internal/core"
	"github.com/vovakirdan/roadrush/internal/ratelimit"
)

// Label values are bounded: game IDs come from the registry and rejection
// reasons from the constants below. No per-player labels.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadrush_tick_duration_seconds",
		Help:    "Time spent in one simulation step",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadrush_runs_total",
		Help: "Finished runs",
	}, []string{"game"})

	runScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadrush_run_score",
		Help:    "Final score of finished runs",
		Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 2500},
	}, []string{"game"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadrush_run_duration_seconds",
		Help:    "Length of finished runs, excluding pauses",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
	}, []string{"game"})

	enemiesDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadrush_enemies_destroyed_total",
		Help: "Cars destroyed by bullets",
	})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roadrush_ssh_sessions_active",
		Help: "Currently connected SSH sessions",
	})

	connectionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadrush_connections_rejected_total",
		Help: "Connections or requests rejected before reaching a game",
	}, []string{"reason"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadrush_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadrush_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Rejection reasons for RecordRejected.
const (
	ReasonRateLimit = "rate_limit"
	ReasonNoPTY     = "no_pty"
)

// RecordTick records how long a simulation step took.
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// RecordRun records a finished run.
func RecordRun(gameID string, stats core.RunStats) {
	runsTotal.WithLabelValues(gameID).Inc()
	runScore.WithLabelValues(gameID).Observe(float64(stats.Score))
	runDuration.WithLabelValues(gameID).Observe((time.Duration(stats.DurationMS) * time.Millisecond).Seconds())
	enemiesDestroyed.Add(float64(stats.Kills))
}

// SessionStarted increments the active session gauge.
func SessionStarted() {
	sessionsActive.Inc()
}

// SessionEnded decrements the active session gauge.
func SessionEnded() {
	sessionsActive.Dec()
}

// RecordRejected counts a rejected connection or request.
func RecordRejected(reason string) {
	connectionsRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics.
func RecordRequest(method, route string, status int, d time.Duration) {
	requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
	requestTotal.WithLabelValues(method, route, statusClass(status)).Inc()
}

// WatchLimiter exports a limiter's tracked clients and decision counts,
// labelled with name. Registering the same name twice is an error.
func WatchLimiter(name string, l *ratelimit.IPLimiter) error {
	return watchLimiter(prometheus.DefaultRegisterer, name, l)
}

func watchLimiter(reg prometheus.Registerer, name string, l *ratelimit.IPLimiter) error {
	labels := prometheus.Labels{"limiter": name}
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "roadrush_ratelimit_clients",
			Help:        "Client addresses currently tracked by the rate limiter",
			ConstLabels: labels,
		}, func() float64 { return float64(l.Len()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "roadrush_ratelimit_allowed_total",
			Help:        "Requests or sessions let through by the rate limiter",
			ConstLabels: labels,
		}, func() float64 {
			allowed, _ := l.Stats()
			return float64(allowed)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "roadrush_ratelimit_rejected_total",
			Help:        "Requests or sessions turned away by the rate limiter",
			ConstLabels: labels,
		}, func() float64 {
			_, rejected := l.Stats()
			return float64(rejected)
		}),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("metrics: watch %s limiter: %w", name, err)
		}
	}
	return nil
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
