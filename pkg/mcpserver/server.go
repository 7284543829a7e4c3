// Package mcpserver exposes the dispatcher and the introspection renderer as
// MCP tools: executeCommand, executeQuery, listTools and man.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/morezero/siyuan-bridge/pkg/dispatcher"
	"github.com/morezero/siyuan-bridge/pkg/introspect"
)

const logPrefix = "mcpserver:server"

const (
	defaultName    = "siyuan-bridge"
	defaultVersion = "1.0.0"
)

// Server wraps an MCP server bound to one dispatcher.
type Server struct {
	server     *mcp.Server
	dispatcher *dispatcher.Dispatcher
	renderer   *introspect.Renderer
}

// NewServerParams holds parameters for NewServer.
type NewServerParams struct {
	Dispatcher *dispatcher.Dispatcher
	Renderer   *introspect.Renderer
	// Name and Version identify the implementation to clients.
	Name    string
	Version string
}

// NewServer creates the MCP server and registers its tools.
func NewServer(params NewServerParams) *Server {
	name := params.Name
	if name == "" {
		name = defaultName
	}
	version := params.Version
	if version == "" {
		version = defaultVersion
	}

	s := &Server{
		server:     mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		dispatcher: params.Dispatcher,
		renderer:   params.Renderer,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeTransport(ctx, &mcp.StdioTransport{})
}

// ServeTransport runs the server on t.
func (s *Server) ServeTransport(ctx context.Context, t mcp.Transport) error {
	slog.Info(fmt.Sprintf("%s - MCP server running", logPrefix))
	return s.server.Run(ctx, t)
}

// textResult wraps text in a tool result.
func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any, isError bool) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode result: %w", logPrefix, err)
	}
	return textResult(string(data), isError), nil
}
