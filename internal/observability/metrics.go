package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// Metrics owns every Prometheus collector exported by the service. All
// methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	fetchDuration     *prometheus.HistogramVec
	fetchErrors       *prometheus.CounterVec
	fallbacks         *prometheus.CounterVec
	cbState           *prometheus.GaugeVec
	overallScore      prometheus.Gauge
	composite         prometheus.Gauge
	subScores         *prometheus.GaugeVec
	categoryRank      prometheus.Gauge
	sinkErrors        *prometheus.CounterVec
	alertsSent        prometheus.Counter
}

// NewMetrics builds the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "telemetry_fetch_duration_seconds",
			Help:    "Histogram of ThingSpeak fetch durations by channel.",
			Buckets: prometheus.DefBuckets,
		}, []string{"channel"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telemetry_fetch_errors_total",
			Help: "Total ThingSpeak fetch failures by channel.",
		}, []string{"channel"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telemetry_mock_fallback_total",
			Help: "Total times mock data was served instead of live telemetry.",
		}, []string{"channel"}),
		cbState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cb_state",
			Help: "Circuit breaker state gauge (0 closed, 1 half, 2 open).",
		}, []string{"target"}),
		overallScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soil_health_overall_score",
			Help: "Latest rounded soil health index (0-100).",
		}),
		composite: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soil_health_composite",
			Help: "Latest unrounded soil health composite.",
		}),
		subScores: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soil_health_subscore",
			Help: "Latest per-dimension soil sub-score (0-100).",
		}, []string{"dimension"}),
		categoryRank: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soil_health_category_rank",
			Help: "Latest category rank (0 excellent, 1 good, 2 poor, 3 very poor).",
		}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snapshot_sink_errors_total",
			Help: "Total failures persisting health snapshots by sink.",
		}, []string{"sink"}),
		alertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "soil_alerts_sent_total",
			Help: "Total soil health alerts delivered.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.fetchDuration,
		m.fetchErrors,
		m.fallbacks,
		m.cbState,
		m.overallScore,
		m.composite,
		m.subScores,
		m.categoryRank,
		m.sinkErrors,
		m.alertsSent,
	)

	m.cbState.WithLabelValues("thingspeak").Set(0)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records request counts and latencies by route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveFetch records one ThingSpeak call.
func (m *Metrics) ObserveFetch(channel string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(channel).Observe(took.Seconds())
	if err != nil {
		m.fetchErrors.WithLabelValues(channel).Inc()
	}
}

// IncFallback counts a mock substitution.
func (m *Metrics) IncFallback(channel string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(channel).Inc()
}

// BreakerStateChanged is a gobreaker OnStateChange hook.
func (m *Metrics) BreakerStateChanged(name string, _, to gobreaker.State) {
	if m == nil {
		return
	}
	var v float64
	switch to {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	m.cbState.WithLabelValues(name).Set(v)
}

// ObserveSnapshot publishes the latest scored reading. rank is the category
// rank, or -1 when unknown.
func (m *Metrics) ObserveSnapshot(s models.HealthSnapshot, rank int) {
	if m == nil {
		return
	}
	m.overallScore.Set(float64(s.OverallScore))
	m.composite.Set(s.Composite)
	m.subScores.WithLabelValues("nitrogen").Set(s.Scores.Nitrogen)
	m.subScores.WithLabelValues("phosphorus").Set(s.Scores.Phosphorus)
	m.subScores.WithLabelValues("potassium").Set(s.Scores.Potassium)
	m.subScores.WithLabelValues("ph").Set(s.Scores.PH)
	m.subScores.WithLabelValues("ec").Set(s.Scores.EC)
	m.subScores.WithLabelValues("moisture").Set(s.Scores.Moisture)
	m.subScores.WithLabelValues("temperature").Set(s.Scores.Temperature)
	m.categoryRank.Set(float64(rank))
}

// IncSinkError counts a failed snapshot write.
func (m *Metrics) IncSinkError(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}

// IncAlertSent counts a delivered alert.
func (m *Metrics) IncAlertSent() {
	if m == nil {
		return
	}
	m.alertsSent.Inc()
}
