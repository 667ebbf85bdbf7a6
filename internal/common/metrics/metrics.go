// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"agri-advisory-workers/internal/models"
)

var (
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

	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisory_provider_calls_total",
			Help: "Provider invocations by domain and outcome",
		},
		[]string{"domain", "outcome"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisory_provider_latency_seconds",
			Help:    "Provider call latency",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"domain"},
	)

	AggregationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisory_aggregation_failures_total",
			Help: "Aggregations that degraded to an empty response",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisory_cache_lookups_total",
			Help: "Aggregate response cache lookups by result",
		},
		[]string{"result"},
	)
)

// ProviderObserver records aggregator provider outcomes as Prometheus metrics.
type ProviderObserver struct{}

func (ProviderObserver) ProviderFinished(domain models.QueryType, _ string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	ProviderCalls.WithLabelValues(string(domain), outcome).Inc()
	ProviderLatency.WithLabelValues(string(domain)).Observe(elapsed.Seconds())
}

func (ProviderObserver) AggregationFailed(error) {
	AggregationFailures.Inc()
}

// JobTimer tracks one job for a task type. Call Done exactly once.
type JobTimer struct {
	taskType string
	start    time.Time
}

func StartJob(taskType string) JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return JobTimer{taskType: taskType, start: time.Now()}
}

// Done records the job outcome; an empty errorCode counts as completed.
func (t JobTimer) Done(errorCode string) time.Duration {
	elapsed := time.Since(t.start)
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(elapsed.Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
	} else {
		WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
	}
	return elapsed
}
