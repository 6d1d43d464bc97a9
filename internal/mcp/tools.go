package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codenav/codenav/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeIndexInFlight  = -32001 // An indexing pass is already running
	ErrorCodeEmptyQuery     = -32002 // Query parameter is empty
	ErrorCodeInvalidRating  = -32003 // Rating is not one of good/noisy/missing
	ErrorCodeMalformedQuery = -32004 // Query failed validation
)

// handleNavQuery handles the nav_query tool invocation
func (s *Server) handleNavQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["query"].(string)
	if !ok || text == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", types.DefaultQueryLimit)
	if limit < 1 || limit > types.MaxQueryLimit {
		return nil, newMCPError(ErrorCodeInvalidParams,
			fmt.Sprintf("limit must be between 1 and %d", types.MaxQueryLimit), map[string]interface{}{
				"param": "limit",
				"value": limit,
			})
	}

	q := types.Query{Text: text, Limit: limit}
	if corpus := getStringDefault(args, "corpus", ""); corpus != "" {
		q.Filters = &types.Filters{Corpus: types.Corpus(corpus)}
	}
	if rawTypes, ok := args["entry_types"].([]interface{}); ok && len(rawTypes) > 0 {
		if q.Filters == nil {
			q.Filters = &types.Filters{}
		}
		for _, raw := range rawTypes {
			if t, ok := raw.(string); ok {
				q.Filters.EntryTypes = append(q.Filters.EntryTypes, types.EntryType(t))
			}
		}
	}

	result, err := s.engine.Answer(ctx, q)
	if err != nil {
		code := ErrorCodeInternalError
		if errors.Is(err, types.ErrMalformedQuery) {
			code = ErrorCodeMalformedQuery
		}
		return nil, newMCPError(code, "query failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"report":          result.Report,
		"intent":          string(result.Intent.Category),
		"confidence":      result.Intent.Confidence,
		"components_used": result.ComponentsUsed,
		"index_stale":     result.Stale,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIndexCorpus handles the index_corpus tool invocation
func (s *Server) handleIndexCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.engine.Index(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeIndexInFlight, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":         true,
		"files_seen":      stats.FilesSeen,
		"entries_written": stats.EntriesWritten,
		"entries_skipped": stats.EntriesSkipped,
		"entries_failed":  stats.EntriesFailed,
		"entries_removed": stats.EntriesRemoved,
		"duration_ms":     stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRecordFeedback handles the record_feedback tool invocation
func (s *Server) handleRecordFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	queryText, ok := args["query"].(string)
	if !ok || queryText == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	ratingRaw, _ := args["rating"].(string)
	rating, err := types.ParseRating(ratingRaw)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidRating, err.Error(), map[string]interface{}{
			"param": "rating",
			"value": ratingRaw,
		})
	}

	var componentsUsed []string
	if raw, ok := args["components_used"].([]interface{}); ok {
		for _, c := range raw {
			if name, ok := c.(string); ok {
				componentsUsed = append(componentsUsed, name)
			}
		}
	}

	rec := types.FeedbackRecord{
		QueryText:      queryText,
		Intent:         types.IntentCategory(getStringDefault(args, "intent", string(types.IntentGeneral))),
		ComponentsUsed: componentsUsed,
		Rating:         rating,
	}

	saved, err := s.engine.RecordFeedback(ctx, rec)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "feedback rejected", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"recorded": true,
		"id":       saved.ID,
		"rating":   string(saved.Rating),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.engine.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"code_entries": status.CodeEntries,
		"doc_entries":  status.DocEntries,
		"index_stale":  status.IndexStale,
		"weight_cells": status.WeightCells,
		"embedding": map[string]interface{}{
			"provider": status.EmbedProvider,
			"model":    status.EmbedModel,
		},
	}
	if !status.LastBuild.IsZero() {
		response["last_build"] = status.LastBuild.Format("2006-01-02T15:04:05Z07:00")
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
