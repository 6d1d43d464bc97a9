package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolSchemas(t *testing.T) {
	cases := []struct {
		name     string
		tool     string
		required []string
	}{
		{"nav_query", navQueryTool().Name, []string{"query"}},
		{"index_corpus", indexCorpusTool().Name, nil},
		{"record_feedback", recordFeedbackTool().Name, []string{"query", "rating", "components_used"}},
		{"get_status", getStatusTool().Name, nil},
	}

	schemas := map[string][]string{
		navQueryTool().Name:       navQueryTool().InputSchema.Required,
		indexCorpusTool().Name:    indexCorpusTool().InputSchema.Required,
		recordFeedbackTool().Name: recordFeedbackTool().InputSchema.Required,
		getStatusTool().Name:      getStatusTool().InputSchema.Required,
	}

	for _, tc := range cases {
		assert.Equal(t, tc.name, tc.tool)
		assert.Equal(t, tc.required, schemas[tc.name], tc.name)
	}
}

func TestParamHelpers(t *testing.T) {
	args := map[string]interface{}{
		"int_as_float": float64(7),
		"int_as_int":   3,
		"str":          "hello",
	}

	assert.Equal(t, 7, getIntDefault(args, "int_as_float", 1))
	assert.Equal(t, 3, getIntDefault(args, "int_as_int", 1))
	assert.Equal(t, 1, getIntDefault(args, "missing", 1))
	assert.Equal(t, "hello", getStringDefault(args, "str", "d"))
	assert.Equal(t, "d", getStringDefault(args, "missing", "d"))
}

func TestMCPErrorFormatting(t *testing.T) {
	err := newMCPError(ErrorCodeEmptyQuery, "query is empty", nil)
	assert.Contains(t, err.Error(), "-32002")
	assert.Contains(t, err.Error(), "query is empty")
}
