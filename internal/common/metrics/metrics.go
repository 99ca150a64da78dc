// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_completed_total",
			Help: "Total number of pipeline runs that produced an itinerary",
		},
		[]string{"degraded"},
	)

	PipelineRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_failed_total",
			Help: "Total number of pipeline runs that failed",
		},
		[]string{"error_code"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	SearchQueriesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_queries_failed_total",
			Help: "Total number of search queries skipped after retry",
		},
	)

	SearchQueriesDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_queries_dispatched_total",
			Help: "Total number of search queries sent to the provider",
		},
	)

	GenerationRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_retries_total",
			Help: "Total number of text-generation retry attempts",
		},
	)
)
