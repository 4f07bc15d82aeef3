package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the scrape pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	scrapeRuns     *prometheus.CounterVec
	scrapeDuration prometheus.Histogram
	scrapeSessions prometheus.Counter
	scrapeSkipped  prometheus.Counter
	scrapeFailures prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	scrapeRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_runs_total",
		Help: "Total scrape runs by outcome",
	}, []string{"outcome"})

	scrapeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scrape_run_duration_seconds",
		Help:    "Wall-clock duration of scrape runs",
		Buckets: prometheus.ExponentialBuckets(30, 2, 8),
	})

	scrapeSessions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scrape_sessions_total",
		Help: "Class sessions upserted by scrape runs",
	})

	scrapeSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scrape_records_skipped_total",
		Help: "Scraped records dropped for format or shape problems",
	})

	scrapeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scrape_unit_failures_total",
		Help: "Subject/career pairs that failed during scrape runs",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		scrapeRuns, scrapeDuration, scrapeSessions, scrapeSkipped, scrapeFailures, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		scrapeRuns:      scrapeRuns,
		scrapeDuration:  scrapeDuration,
		scrapeSessions:  scrapeSessions,
		scrapeSkipped:   scrapeSkipped,
		scrapeFailures:  scrapeFailures,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// ObserveScrapeRun records the outcome of one scrape run.
func (m *MetricsService) ObserveScrapeRun(outcome string, duration time.Duration, sessions, skipped, failures int) {
	if m == nil {
		return
	}
	m.scrapeRuns.WithLabelValues(outcome).Inc()
	m.scrapeDuration.Observe(duration.Seconds())
	m.scrapeSessions.Add(float64(sessions))
	m.scrapeSkipped.Add(float64(skipped))
	m.scrapeFailures.Add(float64(failures))
}
