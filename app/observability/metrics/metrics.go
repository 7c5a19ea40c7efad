package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RecommendRequestsTotal   metric.Int64Counter
	RecommendDurationSeconds metric.Float64Histogram
	CacheHitsTotal           metric.Int64Counter
	CacheMissesTotal         metric.Int64Counter
	LLMCallDurationSeconds   metric.Float64Histogram
	LLMFallbacksTotal        metric.Int64Counter
	GeocodeRequestsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// Get returns the process-wide AppMetrics, creating the instruments on first
// use from the global MeterProvider. Before the provider is configured the
// instruments are no-ops, which keeps tests free of setup.
func Get() *AppMetrics {
	once.Do(initAppMetrics)
	return appMetrics
}

func initAppMetrics() {
	meter := otel.GetMeterProvider().Meter("wonder-api")
	m := &AppMetrics{}
	var err error

	m.RecommendRequestsTotal, err = meter.Int64Counter(
		"recommend_requests_total",
		metric.WithDescription("Total number of recommendation requests completed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create recommend_requests_total: %v", err)
	}

	m.RecommendDurationSeconds, err = meter.Float64Histogram(
		"recommend_duration_seconds",
		metric.WithDescription("Duration of recommendation requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create recommend_duration_seconds: %v", err)
	}

	m.CacheHitsTotal, err = meter.Int64Counter(
		"cache_hits_total",
		metric.WithDescription("Cache hits, partitioned by tier (activity, recommendation)"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create cache_hits_total: %v", err)
	}

	m.CacheMissesTotal, err = meter.Int64Counter(
		"cache_misses_total",
		metric.WithDescription("Cache misses, partitioned by tier (activity, recommendation)"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create cache_misses_total: %v", err)
	}

	m.LLMCallDurationSeconds, err = meter.Float64Histogram(
		"llm_call_duration_seconds",
		metric.WithDescription("Duration of generative backend calls, partitioned by stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create llm_call_duration_seconds: %v", err)
	}

	m.LLMFallbacksTotal, err = meter.Int64Counter(
		"llm_fallbacks_total",
		metric.WithDescription("Generative stages that degraded to the deterministic fallback"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create llm_fallbacks_total: %v", err)
	}

	m.GeocodeRequestsTotal, err = meter.Int64Counter(
		"geocode_requests_total",
		metric.WithDescription("Total number of geocode requests completed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create geocode_requests_total: %v", err)
	}

	appMetrics = m
}
