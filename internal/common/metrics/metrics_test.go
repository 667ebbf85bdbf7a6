package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"agri-advisory-workers/internal/models"
)

func TestProviderObserver(t *testing.T) {
	success := ProviderCalls.WithLabelValues("soil", "success")
	failure := ProviderCalls.WithLabelValues("soil", "failure")
	beforeOK, beforeFail := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	var o ProviderObserver
	o.ProviderFinished(models.QueryTypeSoil, models.SourceSoil, 3*time.Millisecond, nil)
	o.ProviderFinished(models.QueryTypeSoil, models.SourceSoil, time.Millisecond, errors.New("down"))

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeFail+1, testutil.ToFloat64(failure))

	before := testutil.ToFloat64(AggregationFailures)
	o.AggregationFailed(errors.New("panic"))
	assert.Equal(t, before+1, testutil.ToFloat64(AggregationFailures))
}

func TestJobTimer(t *testing.T) {
	const task = "metrics-test-task"

	timer := StartJob(task)
	assert.Equal(t, float64(1), testutil.ToFloat64(WorkerJobsActive.WithLabelValues(task)))
	timer.Done("")

	StartJob(task).Done("INVALID_INPUT")

	assert.Equal(t, float64(0), testutil.ToFloat64(WorkerJobsActive.WithLabelValues(task)))
	assert.Equal(t, float64(1), testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(task)))
	assert.Equal(t, float64(1), testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(task, "INVALID_INPUT")))
}
