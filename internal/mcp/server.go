package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/codenav/codenav/internal/engine"
)

const (
	// ServerName is the MCP server name
	ServerName = "codenav"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the query engine
type Server struct {
	mcp    *server.MCPServer
	engine *engine.Engine
}

// NewServer creates an MCP server over an already-assembled engine.
// The engine's lifecycle belongs to the caller.
func NewServer(eng *engine.Engine) (*Server, error) {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		engine: eng,
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(navQueryTool(), s.handleNavQuery)
	s.mcp.AddTool(indexCorpusTool(), s.handleIndexCorpus)
	s.mcp.AddTool(recordFeedbackTool(), s.handleRecordFeedback)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
