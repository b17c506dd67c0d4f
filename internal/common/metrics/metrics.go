package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkflowTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Total number of workflow session state transitions",
		},
		[]string{"from", "to"},
	)

	WorkflowRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_rejections_total",
			Help: "Total number of workflow operations rejected by a guard",
		},
		[]string{"operation", "error_code"},
	)

	UploadRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_rejections_total",
			Help: "Total number of resume files rejected before upload",
		},
		[]string{"reason"},
	)

	ServiceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "service_requests_total",
			Help: "Total number of backend service requests by outcome",
		},
		[]string{"service", "outcome"},
	)

	ServiceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "service_request_duration_seconds",
			Help:    "Duration of backend service requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "service_cache_lookups_total",
			Help: "Total number of response cache lookups by result",
		},
		[]string{"service", "result"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Service request outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeTimeout   = "timeout"
	OutcomeService   = "service_error"
	OutcomeMalformed = "malformed"
)
