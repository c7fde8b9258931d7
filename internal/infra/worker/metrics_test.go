package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// testWorkerMetrics is shared across the package's tests: promauto
// registers with the default registry, so construction must happen once.
var testWorkerMetrics = NewWorkerMetrics()

func TestWorkerMetrics_RecordBatchRun(t *testing.T) {
	before := testutil.ToFloat64(testWorkerMetrics.BatchRunsTotal.WithLabelValues("success"))

	testWorkerMetrics.RecordBatchRun("success")

	after := testutil.ToFloat64(testWorkerMetrics.BatchRunsTotal.WithLabelValues("success"))
	if after != before+1 {
		t.Errorf("success runs = %v, want %v", after, before+1)
	}
}

func TestWorkerMetrics_RecordBatchRun_Failure(t *testing.T) {
	before := testutil.ToFloat64(testWorkerMetrics.BatchRunsTotal.WithLabelValues("failure"))

	testWorkerMetrics.RecordBatchRun("failure")

	after := testutil.ToFloat64(testWorkerMetrics.BatchRunsTotal.WithLabelValues("failure"))
	if after != before+1 {
		t.Errorf("failure runs = %v, want %v", after, before+1)
	}
}

func TestWorkerMetrics_RecordURLProcessed(t *testing.T) {
	before := testutil.ToFloat64(testWorkerMetrics.BatchURLsProcessedTotal.WithLabelValues("ARTICLE"))

	testWorkerMetrics.RecordURLProcessed("ARTICLE")
	testWorkerMetrics.RecordURLProcessed("ARTICLE")

	after := testutil.ToFloat64(testWorkerMetrics.BatchURLsProcessedTotal.WithLabelValues("ARTICLE"))
	if after != before+2 {
		t.Errorf("processed ARTICLE = %v, want %v", after, before+2)
	}
}

func TestWorkerMetrics_RecordLastSuccess(t *testing.T) {
	testWorkerMetrics.RecordLastSuccess()

	if got := testutil.ToFloat64(testWorkerMetrics.BatchLastSuccessTimestamp); got <= 0 {
		t.Errorf("last success timestamp = %v, want > 0", got)
	}
}

func TestWorkerMetrics_RecordBatchDuration(t *testing.T) {
	// Histograms have no simple value accessor; recording must not panic
	// and the collector must stay usable.
	testWorkerMetrics.RecordBatchDuration(12.5)
	testWorkerMetrics.RecordBatchDuration(0.1)
}
