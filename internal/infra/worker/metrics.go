package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pagegate/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the batch ingest worker.
// It embeds the standard ConfigMetrics for configuration monitoring and
// adds worker-specific metrics for batch execution tracking.
//
// Worker-specific metrics:
//   - worker_batch_runs_total: Total batch runs by status (success/failure)
//   - worker_batch_duration_seconds: Duration histogram of batch execution
//   - worker_batch_urls_processed_total: URLs processed by recommendation
//   - worker_batch_last_success_timestamp: Unix timestamp of last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	// BatchRunsTotal counts batch runs by status (success, failure).
	BatchRunsTotal *prometheus.CounterVec

	// BatchDurationSeconds measures batch execution duration.
	// Buckets cover 1s through 30m, matching typical batch sizes.
	BatchDurationSeconds prometheus.Histogram

	// BatchURLsProcessedTotal counts processed URLs by the routing
	// recommendation they received (plus "error" for fetch failures).
	BatchURLsProcessedTotal *prometheus.CounterVec

	// BatchLastSuccessTimestamp records when a batch last completed.
	BatchLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance. Metrics register with
// the default Prometheus registry via promauto at construction.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		BatchRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_batch_runs_total",
			Help: "Total number of batch runs by status (success/failure)",
		}, []string{"status"}),

		BatchDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_batch_duration_seconds",
			Help:    "Duration of batch execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		BatchURLsProcessedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_batch_urls_processed_total",
			Help: "Total URLs processed across batch runs, by routing outcome",
		}, []string{"outcome"}),

		BatchLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_batch_last_success_timestamp",
			Help: "Unix timestamp of the last successful batch run",
		}),
	}
}

// MustRegister is a no-op kept for the conventional initialization shape;
// promauto already registered everything in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {}

// RecordBatchRun increments the batch run counter for the given status
// ("success" or "failure").
func (m *WorkerMetrics) RecordBatchRun(status string) {
	m.BatchRunsTotal.WithLabelValues(status).Inc()
}

// RecordBatchDuration observes the duration of a batch run in seconds.
func (m *WorkerMetrics) RecordBatchDuration(seconds float64) {
	m.BatchDurationSeconds.Observe(seconds)
}

// RecordURLProcessed counts one processed URL under its routing outcome:
// a recommendation name, or "error" for fetch-stage failures.
func (m *WorkerMetrics) RecordURLProcessed(outcome string) {
	m.BatchURLsProcessedTotal.WithLabelValues(outcome).Inc()
}

// RecordLastSuccess records the current time as the last successful batch
// completion.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.BatchLastSuccessTimestamp.SetToCurrentTime()
}
