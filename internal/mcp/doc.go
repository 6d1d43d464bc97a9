// Package mcp implements the Model Context Protocol (MCP) server for codenav.
//
// The MCP server exposes four tools to AI coding assistants:
//   - nav_query: Answer a navigation question over the indexed corpora
//   - index_corpus: Run one incremental indexing pass
//   - record_feedback: Rate a previous answer to tune routing
//   - get_status: Report entry counts and index freshness
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server is typically started via the serve command:
//
//	codenav serve
//
// It then listens on stdin for MCP protocol messages and writes responses
// to stdout. Logging goes to stderr; stdout is reserved for the protocol.
//
// # Tool: nav_query
//
//	Request:
//	{
//	  "name": "nav_query",
//	  "arguments": {
//	    "query": "where is the session cache implemented",
//	    "limit": 5,
//	    "corpus": "code"
//	  }
//	}
//
//	Response:
//	{
//	  "report": "[INTENT]\ncode_location (confidence 0.67)\n...",
//	  "intent": "code_location",
//	  "confidence": 0.67,
//	  "components_used": ["code_location", "reference_scan"],
//	  "index_stale": false
//	}
//
// # Tool: record_feedback
//
//	Request:
//	{
//	  "name": "record_feedback",
//	  "arguments": {
//	    "query": "where is the session cache implemented",
//	    "rating": "good",
//	    "intent": "code_location",
//	    "components_used": ["code_location", "reference_scan"]
//	  }
//	}
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses. Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (store, embedding backend)
//   - -32001: Indexing pass already in progress
//   - -32002: Empty query
//   - -32003: Invalid feedback rating
//   - -32004: Malformed query
//
// # MCP Client Configuration
//
// Configure in the assistant's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "codenav": {
//	      "command": "/usr/local/bin/codenav",
//	      "args": ["serve"],
//	      "env": {
//	        "OPENAI_API_KEY": "your-api-key"
//	      }
//	    }
//	  }
//	}
package mcp
