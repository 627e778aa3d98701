// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ChatRepliesTotal tracks replies returned to channels by reply source.
	ChatRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Total chat replies by channel and source",
		},
		[]string{"channel", "source"},
	)

	// IntentsTotal tracks classified intents.
	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_intents_total",
			Help: "Total classified intents by label",
		},
		[]string{"intent"},
	)

	// UpstreamFailuresTotal tracks absorbed upstream failures.
	UpstreamFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_upstream_failures_total",
			Help: "Upstream call failures absorbed by the orchestrator",
		},
		[]string{"upstream"},
	)

	// KnowledgeMatches tracks the number of knowledge matches per retrieval.
	KnowledgeMatches = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "knowledge_matches",
			Help:    "Knowledge matches returned per retrieval",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
		[]string{"source"},
	)

	// RecordingFailuresTotal tracks swallowed conversation recording failures.
	RecordingFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversation_recording_failures_total",
			Help: "Conversation records that failed to persist",
		},
	)

	// LLMDuration tracks generative service call duration.
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Generative answer service call duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 15, 20, 30},
		},
		[]string{"model", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// LeadsTotal tracks WhatsApp leads by whether they were newly created.
	LeadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_leads_total",
			Help: "WhatsApp lead lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMCall records metrics for a generative service call.
func RecordLLMCall(model, status string, duration float64, tokensIn, tokensOut int) {
	LLMDuration.WithLabelValues(model, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordReply records a reply returned to a channel.
func RecordReply(channel, source string) {
	ChatRepliesTotal.WithLabelValues(channel, source).Inc()
}

// RecordUpstreamFailure records an upstream failure absorbed into a designed reply.
func RecordUpstreamFailure(upstream string) {
	UpstreamFailuresTotal.WithLabelValues(upstream).Inc()
}
