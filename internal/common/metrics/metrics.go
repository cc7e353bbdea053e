// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)

	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deadline_sweep_runs_total",
			Help: "Total number of deadline-reminder sweeps executed",
		},
		[]string{"status"},
	)

	SweepNotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deadline_sweep_notifications_sent_total",
			Help: "Total number of reminder emails sent by the sweep",
		},
	)

	SweepErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deadline_sweep_errors_total",
			Help: "Total number of per-job errors recorded by the sweep",
		},
	)

	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "Total number of LLM API calls",
		},
		[]string{"operation", "status"},
	)

	AnalysisCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_cache_requests_total",
			Help: "Resume analysis cache lookups by result",
		},
		[]string{"result"},
	)
)
