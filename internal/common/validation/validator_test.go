package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisory-workers/pkg/registry"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	v, err := NewValidator(reg)
	require.NoError(t, err)
	return v
}

func TestValidate_Classify(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name  string
		doc   map[string]interface{}
		valid bool
		field string
	}{
		{"query only", map[string]interface{}{"queryText": "rain in Pune"}, true, ""},
		{"with language", map[string]interface{}{"queryText": "rain", "language": "hi-IN"}, true, ""},
		{"missing query", map[string]interface{}{}, false, "(root)"},
		{"empty query", map[string]interface{}{"queryText": ""}, false, "queryText"},
		{"numeric query", map[string]interface{}{"queryText": 7}, false, "queryText"},
		{"bad language", map[string]interface{}{"queryText": "x", "language": "english"}, false, "language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate("classify-farm-query", tt.doc)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
				assert.Equal(t, tt.field, res.Errors[0].Field)
				assert.NotEmpty(t, res.Summary())
			}
		})
	}
}

func TestValidate_Aggregate(t *testing.T) {
	v := newTestValidator(t)

	ok := map[string]interface{}{
		"queryContext": map[string]interface{}{
			"queryType": "crop",
			"location":  map[string]interface{}{"district": "Pune", "state": "Maharashtra"},
			"crop":      "wheat",
		},
	}
	assert.True(t, v.Validate("aggregate-farm-data", ok).Valid)

	badType := map[string]interface{}{
		"queryContext": map[string]interface{}{"queryType": "forecast"},
	}
	res := v.Validate("aggregate-farm-data", badType)
	assert.False(t, res.Valid)
	assert.Equal(t, "queryContext.queryType", res.Errors[0].Field)
	assert.Equal(t, "enum", res.Errors[0].Code)

	noState := map[string]interface{}{
		"queryContext": map[string]interface{}{
			"queryType": "soil",
			"location":  map[string]interface{}{"district": "Pune"},
		},
	}
	assert.False(t, v.Validate("aggregate-farm-data", noState).Valid)
}

func TestValidate_UnknownTaskTypePasses(t *testing.T) {
	v := newTestValidator(t)
	res := v.Validate("not-registered", map[string]interface{}{"anything": true})
	assert.True(t, res.Valid)
	assert.Equal(t, "", res.Summary())
}

func TestNewValidator_BadSchema(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		TaskType:    "broken",
		InputSchema: map[string]interface{}{"type": 12},
	}}}
	_, err := NewValidator(reg)
	assert.Error(t, err)
}
