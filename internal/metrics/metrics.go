// Package metrics provides centralized Prometheus metrics registry for the backend.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	QuestionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "paddock_ai",
		Name:      "questions_total",
		Help:      "Total number of questions answered",
	})
	ToolInvocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock_ai",
		Name:      "tool_invocations_total",
		Help:      "Total number of agent tool invocations",
	}, []string{"tool", "status"})
	SourceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock_ai",
		Name:      "source_requests_total",
		Help:      "Total number of upstream data source requests",
	}, []string{"source", "operation", "status"})
	SourceFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock_ai",
		Name:      "source_fallbacks_total",
		Help:      "Total number of data source fallback transitions",
	}, []string{"operation", "to_source"})
	KnowledgeBaseUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "paddock_ai",
		Name:      "knowledge_base_updates_total",
		Help:      "Total number of knowledge base update runs",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "paddock_ai",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "paddock_ai",
		Name:      "cache_hit_ratio",
		Help:      "Ratio of cache hits to total cache lookups",
	})
	CacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "paddock_ai",
		Name:      "cache_entries",
		Help:      "Number of entries currently in the response cache",
	})
	ScheduleEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "paddock_ai",
		Name:      "schedule_events",
		Help:      "Number of events in the loaded season schedule",
	})
	LiveSessionActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "paddock_ai",
		Name:      "live_session_active",
		Help:      "Whether a session is currently live (1) or not (0)",
	})
	KnowledgeBaseVectors = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "paddock_ai",
		Name:      "knowledge_base_vectors",
		Help:      "Number of vectors upserted in the last knowledge base update",
	})
)

// Histogram metrics
var (
	LLMRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "paddock_ai",
		Name:      "llm_request_duration_seconds",
		Help:      "Duration of chat completion requests in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
	SourceRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "paddock_ai",
		Name:      "source_request_duration_seconds",
		Help:      "Duration of upstream data source requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
	QuestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "paddock_ai",
		Name:      "question_duration_seconds",
		Help:      "End to end duration of answering a question in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(QuestionsTotal)
		registry.MustRegister(ToolInvocationsTotal)
		registry.MustRegister(SourceRequestsTotal)
		registry.MustRegister(SourceFallbacksTotal)
		registry.MustRegister(KnowledgeBaseUpdatesTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheEntries)
		registry.MustRegister(ScheduleEvents)
		registry.MustRegister(LiveSessionActive)
		registry.MustRegister(KnowledgeBaseVectors)

		// Register histogram metrics
		registry.MustRegister(LLMRequestDuration)
		registry.MustRegister(SourceRequestDuration)
		registry.MustRegister(QuestionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordQuestion records an answered question and its duration.
func RecordQuestion(durationSeconds float64) {
	QuestionsTotal.Inc()
	QuestionDuration.Observe(durationSeconds)
}

// RecordToolInvocation records an agent tool invocation outcome.
func RecordToolInvocation(tool string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ToolInvocationsTotal.WithLabelValues(tool, status).Inc()
}

// RecordSourceRequest records an upstream source request outcome.
func RecordSourceRequest(source, operation string, durationSeconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SourceRequestsTotal.WithLabelValues(source, operation, status).Inc()
	SourceRequestDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordSourceFallback records a fallback transition between source tiers.
func RecordSourceFallback(operation, toSource string) {
	SourceFallbacksTotal.WithLabelValues(operation, toSource).Inc()
}

// RecordKnowledgeBaseUpdate records a knowledge base update run.
func RecordKnowledgeBaseUpdate(vectorCount int) {
	KnowledgeBaseUpdatesTotal.Inc()
	KnowledgeBaseVectors.Set(float64(vectorCount))
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// RecordLLMRequestDuration records chat completion latency.
func RecordLLMRequestDuration(durationSeconds float64) {
	LLMRequestDuration.Observe(durationSeconds)
}

// UpdateCacheStats updates the cache gauges.
func UpdateCacheStats(hitRatio float64, entries int) {
	CacheHitRatio.Set(hitRatio)
	CacheEntries.Set(float64(entries))
}

// UpdateScheduleEvents updates the loaded schedule size gauge.
func UpdateScheduleEvents(count int) {
	ScheduleEvents.Set(float64(count))
}

// UpdateLiveSessionActive flips the live session gauge.
func UpdateLiveSessionActive(live bool) {
	if live {
		LiveSessionActive.Set(1)
	} else {
		LiveSessionActive.Set(0)
	}
}
