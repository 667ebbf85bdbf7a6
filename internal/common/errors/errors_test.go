package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisory-workers/internal/common/camunda/camundatest"
	apperrors "agri-advisory-workers/internal/common/errors"
)

type captureLogger struct {
	messages []string
}

func (c *captureLogger) Error(msg string, _ map[string]interface{}) {
	c.messages = append(c.messages, msg)
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *apperrors.StandardError
		wantCode    string
		wantRetries int
	}{
		{"invalid input", apperrors.NewInvalidInputError("queryText is required"), "INVALID_INPUT", 0},
		{"parse failure shares input code", apperrors.NewInputParseFailedError(errors.New("eof")), "INVALID_INPUT", 0},
		{"catalog retryable", apperrors.NewCatalogLoadFailedError("postgres", errors.New("refused")), "CATALOG_UNAVAILABLE", 3},
		{"timeout", apperrors.NewAggregationTimeoutError(5 * time.Second), "AGGREGATION_TIMEOUT", 2},
		{"unmapped code passes through", &apperrors.StandardError{Code: "SOMETHING_ELSE", Retryable: true}, "SOMETHING_ELSE", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := apperrors.ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ToErrorVariables()["originalErrorCode"])
		})
	}
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", apperrors.NewCatalogLoadFailedError("elasticsearch", errors.New("404")))
	assert.Equal(t, apperrors.ErrCodeCatalogLoadFailed, apperrors.Normalize(wrapped).Code)

	plain := apperrors.Normalize(errors.New("boom"))
	assert.Equal(t, apperrors.ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CATALOG", apperrors.GetErrorCategory(apperrors.ErrCodeElasticsearchConnectionFailed))
	assert.Equal(t, "AGGREGATION", apperrors.GetErrorCategory(apperrors.ErrCodeAggregationTimeout))
	assert.Equal(t, "VALIDATION", apperrors.GetErrorCategory(apperrors.ErrCodeInputParseFailed))
	assert.Equal(t, "OTHER", apperrors.GetErrorCategory(apperrors.ErrCodeInternal))
	assert.True(t, apperrors.IsRetryableErrorCode(apperrors.ErrCodeDatabaseConnectionFailed))
	assert.False(t, apperrors.IsRetryableErrorCode(apperrors.ErrCodeInvalidQueryContext))
}

func TestErrorHandler_HandleJobError(t *testing.T) {
	t.Run("business error is thrown", func(t *testing.T) {
		client := camundatest.NewJobClient()
		log := &captureLogger{}
		job := camundatest.Job(7, "classify-farm-query", 3, map[string]interface{}{})

		bpmn := apperrors.NewErrorHandler(log).HandleJobError(context.Background(), client, job,
			apperrors.NewInvalidInputError("queryText is required"))

		assert.Equal(t, "INVALID_INPUT", bpmn.Code)
		assert.Empty(t, client.Failures())
		require.Len(t, client.Throws(), 1)
		thrown := client.Throws()[0]
		assert.Equal(t, int64(7), thrown.JobKey)
		assert.Equal(t, "INVALID_INPUT", thrown.ErrorCode)
		assert.Equal(t, "queryText is required", thrown.Variables["errorDetails"])
		assert.Equal(t, []string{"Job failed"}, log.messages)
	})

	t.Run("retryable error fails with capped retries", func(t *testing.T) {
		client := camundatest.NewJobClient()
		job := camundatest.Job(8, "aggregate-farm-data", 2, map[string]interface{}{})

		apperrors.NewErrorHandler(&captureLogger{}).HandleJobError(context.Background(), client, job,
			apperrors.NewCatalogLoadFailedError("postgres", errors.New("refused")))

		assert.Empty(t, client.Throws())
		require.Len(t, client.Failures(), 1)
		assert.Equal(t, int32(1), client.Failures()[0].Retries)
		assert.Equal(t, "CATALOG_UNAVAILABLE", client.Failures()[0].Variables["errorCode"])
	})

	t.Run("last retry throws", func(t *testing.T) {
		client := camundatest.NewJobClient()
		job := camundatest.Job(9, "aggregate-farm-data", 1, map[string]interface{}{})

		apperrors.NewErrorHandler(&captureLogger{}).HandleJobError(context.Background(), client, job,
			apperrors.NewCatalogLoadFailedError("postgres", errors.New("refused")))

		assert.Empty(t, client.Failures())
		require.Len(t, client.Throws(), 1)
		assert.Equal(t, "CATALOG_UNAVAILABLE", client.Throws()[0].ErrorCode)
	})
}
