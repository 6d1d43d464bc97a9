package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// navQueryTool returns the tool definition for nav_query
func navQueryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "nav_query",
		Description: "Answer a natural-language navigation question over the indexed code and documentation corpora",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question (e.g. 'where is the session cache implemented')",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum hits per corpus (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
				"corpus": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the search to one corpus",
					"enum":        []string{"code", "document"},
				},
				"entry_types": map[string]interface{}{
					"type":        "array",
					"description": "Restrict documentation hits to specific entry types",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"module-readme", "interface-spec", "changelog", "protocol-doc", "source", "other"},
					},
				},
			},
			Required: []string{"query"},
		},
	}
}

// indexCorpusTool returns the tool definition for index_corpus
func indexCorpusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_corpus",
		Description: "Run one incremental indexing pass over the configured code and documentation roots",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// recordFeedbackTool returns the tool definition for record_feedback
func recordFeedbackTool() mcp.Tool {
	return mcp.Tool{
		Name:        "record_feedback",
		Description: "Rate a previous answer to tune future component routing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The query text that was answered",
				},
				"rating": map[string]interface{}{
					"type":        "string",
					"description": "Judgement of the answer",
					"enum":        []string{"good", "noisy", "missing"},
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Intent category the answer was routed under",
					"enum":        []string{"doc_lookup", "code_location", "module_health", "research", "general"},
				},
				"components_used": map[string]interface{}{
					"type":        "array",
					"description": "Components that contributed to the answer",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"query", "rating", "components_used"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report entry counts, index freshness, and the active embedding backend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
