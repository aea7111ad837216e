// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Collaborator Metrics (classifier, generator)
	CollaboratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaborator_calls_total",
			Help: "Calls to external collaborators by outcome",
		},
		[]string{"collaborator", "operation", "result"},
	)

	CollaboratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collaborator_call_duration_seconds",
			Help:    "Latency of external collaborator calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"collaborator", "operation"},
	)

	ClassifierCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_cache_total",
			Help: "Classifier result cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	LLMParseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_parse_failures_total",
			Help: "Generator responses that could not be parsed as JSON",
		},
		[]string{"use"}, // personality, summary
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Scoring and Adaptation Metrics
	MappingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapping_runs_total",
			Help: "Interest mapping runs by result",
		},
		[]string{"result"}, // ranked, fallback, error
	)

	MappingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mapping_duration_seconds",
			Help:    "End-to-end interest mapping duration",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	FeedbackRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_records_total",
			Help: "Feedback records accepted",
		},
		[]string{"session_type"},
	)

	AdaptationCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptation_cycles_total",
			Help: "Adaptation cycles by outcome",
		},
		[]string{"outcome"}, // adapted, not_adapted, error
	)

	AdaptationRules = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptation_rules_applied_total",
			Help: "Adaptation rules applied",
		},
		[]string{"rule"}, // track_reconsideration, interest_amplification, preference_rebalancing
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Events consumed by topic and result",
		},
		[]string{"topic", "result"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCollaboratorCall records one call to the classifier or generator.
func RecordCollaboratorCall(collaborator, operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	CollaboratorCalls.WithLabelValues(collaborator, operation, result).Inc()
	CollaboratorDuration.WithLabelValues(collaborator, operation).Observe(duration.Seconds())
}

// RecordClassifierCache records a cache hit or miss.
func RecordClassifierCache(hit bool) {
	if hit {
		ClassifierCache.WithLabelValues("hit").Inc()
		return
	}
	ClassifierCache.WithLabelValues("miss").Inc()
}

// RecordMapping records an interest mapping run.
func RecordMapping(result string, duration time.Duration) {
	MappingRuns.WithLabelValues(result).Inc()
	MappingDuration.Observe(duration.Seconds())
}

// RecordAdaptation records an adaptation cycle and the rules it applied.
func RecordAdaptation(outcome string, rules []string) {
	AdaptationCycles.WithLabelValues(outcome).Inc()
	for _, r := range rules {
		AdaptationRules.WithLabelValues(r).Inc()
	}
}

// RecordEventPublish records a publish attempt.
func RecordEventPublish(topic string, err error) {
	EventsPublished.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordEventConsume records a consumed event.
func RecordEventConsume(topic string, err error) {
	EventsConsumed.WithLabelValues(topic, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
