// ABOUTME: MCP server setup for the coaching engine.
// ABOUTME: Wraps the MCP server around an engine Service.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/coach/internal/engine"
)

// Server wraps the MCP server with coaching service access.
type Server struct {
	mcpServer *mcp.Server
	svc       *engine.Service
}

// NewServer creates a new MCP server over the given service.
func NewServer(svc *engine.Service) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "coach",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
