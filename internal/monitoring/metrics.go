package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Platform client metrics
	platformRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_platform_request_seconds",
			Help:    "Latency of platform API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	platformErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_platform_errors_total",
			Help: "Total number of failed platform API requests",
		},
		[]string{"endpoint"},
	)

	// Engine metrics
	recommendationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_recommendations_generated_total",
			Help: "Total number of recommendations produced",
		},
	)

	opportunitiesScoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_opportunities_scored_total",
			Help: "Total number of opportunities scored",
		},
	)

	capitalUtilization = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_capital_utilization_percent",
			Help: "Capital utilization implied by the latest recommendation run",
		},
	)

	openPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_open_positions",
			Help: "Open positions in the latest portfolio snapshot",
		},
	)

	progressToTarget = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_progress_to_target_percent",
			Help: "Progress toward the configured daily return target",
		},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(platformRequestSeconds)
	prometheus.MustRegister(platformErrorsTotal)
	prometheus.MustRegister(recommendationsTotal)
	prometheus.MustRegister(opportunitiesScoredTotal)
	prometheus.MustRegister(capitalUtilization)
	prometheus.MustRegister(openPositions)
	prometheus.MustRegister(progressToTarget)
}

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint.
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ObservePlatformRequest records the latency of one platform request.
func ObservePlatformRequest(endpoint string, seconds float64) {
	platformRequestSeconds.WithLabelValues(endpoint).Observe(seconds)
}

// RecordPlatformError counts a failed platform request.
func RecordPlatformError(endpoint string) {
	platformErrorsTotal.WithLabelValues(endpoint).Inc()
}

// RecordRecommendations counts recommendations produced by a run.
func RecordRecommendations(count int) {
	recommendationsTotal.Add(float64(count))
}

// RecordOpportunitiesScored counts candidates that reached scoring.
func RecordOpportunitiesScored(count int) {
	opportunitiesScoredTotal.Add(float64(count))
}

// UpdateCapitalUtilization updates the utilization gauge.
func UpdateCapitalUtilization(percent float64) {
	capitalUtilization.Set(percent)
}

// UpdateOpenPositions updates the open position gauge.
func UpdateOpenPositions(count int) {
	openPositions.Set(float64(count))
}

// UpdateProgressToTarget updates the target progress gauge.
func UpdateProgressToTarget(percent float64) {
	progressToTarget.Set(percent)
}
