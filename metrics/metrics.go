package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	bundleBuilds      *prometheus.CounterVec
	bundleDuration    *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	collectorFetches  *prometheus.CounterVec
	lastOccupancy     *prometheus.GaugeVec
}

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
		bundleBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chart_bundle_builds_total",
			Help: "Chart bundles built by chart and resulting state.",
		}, []string{"chart", "state"}),
		bundleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chart_bundle_build_duration_seconds",
			Help:    "Time spent building chart bundles, including reading retrieval.",
			Buckets: prometheus.DefBuckets,
		}, []string{"chart"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_bundle_cache_hits_total",
			Help: "Chart bundles served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_bundle_cache_misses_total",
			Help: "Chart bundle cache lookups that required a build.",
		}),
		collectorFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "occupancy_collector_fetches_total",
			Help: "Counter API fetches by facility and outcome.",
		}, []string{"facility", "outcome"}),
		lastOccupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "occupancy_last_percent",
			Help: "Most recently collected occupancy per facility.",
		}, []string{"facility"}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.bundleBuilds,
		m.bundleDuration,
		m.cacheHits,
		m.cacheMisses,
		m.collectorFetches,
		m.lastOccupancy,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler serves the private registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) BundleBuilt(chart, state string, duration time.Duration) {
	if m == nil {
		return
	}
	m.bundleBuilds.WithLabelValues(chart, state).Inc()
	m.bundleDuration.WithLabelValues(chart).Observe(duration.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// CollectorFetch records one counter fetch; outcome is "ok", "empty" or "error".
func (m *Metrics) CollectorFetch(facility, outcome string) {
	if m == nil {
		return
	}
	m.collectorFetches.WithLabelValues(facility, outcome).Inc()
}

func (m *Metrics) SetOccupancy(facility string, value float64) {
	if m == nil {
		return
	}
	m.lastOccupancy.WithLabelValues(facility).Set(value)
}
