// Package metrics exposes Prometheus counters for the demos and the HTTP layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Login submissions by demo (safe, unsafe) and outcome
	LoginEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loginlab_login_evaluations_total",
			Help: "Demo login submissions by demo and outcome",
		},
		[]string{"demo", "outcome"},
	)

	Achievements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loginlab_achievements_total",
			Help: "Lesson achievements emitted by kind",
		},
		[]string{"kind"},
	)

	ScenariosStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loginlab_scenarios_started_total",
			Help: "Simulated attack walkthroughs started",
		},
		[]string{"scenario"},
	)

	ViewsMounted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loginlab_views_mounted_total",
			Help: "Page mounts that created fresh view state",
		},
		[]string{"view"},
	)

	ActiveViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loginlab_active_views",
			Help: "View instances currently held in memory",
		},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loginlab_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
