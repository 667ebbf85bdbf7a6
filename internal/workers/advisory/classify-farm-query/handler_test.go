package classifyfarmquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisory-workers/internal/common/camunda/camundatest"
	"agri-advisory-workers/internal/common/logger"
	"agri-advisory-workers/internal/common/validation"
	"agri-advisory-workers/pkg/registry"
)

func newTestHandler(t *testing.T, withValidator bool) *Handler {
	t.Helper()
	var v *validation.Validator
	if withValidator {
		reg, err := registry.Default()
		require.NoError(t, err)
		v, err = validation.NewValidator(reg)
		require.NoError(t, err)
	}
	return NewHandler(LoadConfig(), v, nil, logger.NewTestLogger(t))
}

func TestExecute(t *testing.T) {
	h := newTestHandler(t, false)

	out := h.Execute(&Input{QueryText: "What is the wheat price in Lucknow?"})
	assert.Equal(t, "market", string(out.QueryContext.QueryType))
	assert.Equal(t, "wheat", out.QueryContext.Crop)
	require.NotNil(t, out.QueryContext.Location)
	assert.Equal(t, "Lucknow", out.QueryContext.Location.District)
	assert.Equal(t, "Uttar Pradesh", out.QueryContext.Location.State)
	assert.Equal(t, "en", out.Language)

	out = h.Execute(&Input{QueryText: "kya haal hai", Language: "hi"})
	assert.Equal(t, "general", string(out.QueryContext.QueryType))
	assert.Nil(t, out.QueryContext.Location)
	assert.Equal(t, "hi", out.Language)
}

func TestHandle_CompletesWithQueryContext(t *testing.T) {
	h := newTestHandler(t, true)
	client := camundatest.NewJobClient()

	job := camundatest.Job(1, TaskType, 3, map[string]interface{}{
		"queryText": "Will it rain in Pune, Maharashtra?",
		"language":  "mr",
	})
	h.Handle(client, job)

	require.Len(t, client.Completions(), 1)
	assert.Empty(t, client.Throws())
	assert.Empty(t, client.Failures())

	vars := client.Completions()[0].Variables
	assert.Equal(t, "mr", vars["language"])
	qc := vars["queryContext"].(map[string]interface{})
	assert.Equal(t, "weather", qc["queryType"])
	assert.Equal(t, map[string]interface{}{"district": "Pune", "state": "Maharashtra"}, qc["location"])
	_, hasCrop := qc["crop"]
	assert.False(t, hasCrop)
}

func TestHandle_InvalidInputThrows(t *testing.T) {
	tests := []struct {
		name string
		vars string
	}{
		{"not json", `{"queryText":`},
		{"missing query", `{"language":"en"}`},
		{"blank query", `{"queryText":"   "}`},
		{"bad language", `{"queryText":"rain","language":"english"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, true)
			client := camundatest.NewJobClient()

			h.Handle(client, camundatest.RawJob(2, TaskType, 3, tt.vars))

			assert.Empty(t, client.Completions())
			assert.Empty(t, client.Failures())
			require.Len(t, client.Throws(), 1)
			throw := client.Throws()[0]
			assert.Equal(t, "INVALID_INPUT", throw.ErrorCode)
			assert.Equal(t, int64(2), throw.JobKey)
		})
	}
}

func TestHandle_WithoutValidator(t *testing.T) {
	h := newTestHandler(t, false)
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.RawJob(3, TaskType, 1, `{"queryText":"soil ph in Nashik"}`))

	require.Len(t, client.Completions(), 1)
	qc := client.Completions()[0].Variables["queryContext"].(map[string]interface{})
	assert.Equal(t, "soil", qc["queryType"])
}
