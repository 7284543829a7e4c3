package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/morezero/siyuan-bridge/pkg/introspect"
)

// Tool names.
const (
	ToolExecuteCommand = "executeCommand"
	ToolExecuteQuery   = "executeQuery"
	ToolListTools      = "listTools"
	ToolMan            = "man"
)

// DispatchInput is the input of executeCommand and executeQuery.
type DispatchInput struct {
	Type   string         `json:"type" jsonschema:"operation key in namespace.name form, e.g. notebook.create"`
	Params map[string]any `json:"params,omitempty" jsonschema:"operation parameters, see man for the contract"`
}

// ListToolsInput is the (empty) input of listTools.
type ListToolsInput struct{}

// ManInput is the input of man.
type ManInput struct {
	Type string `json:"type" jsonschema:"operation key in namespace.name form"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolExecuteCommand,
		Description: "Execute a SiYuan command (mutating operation). Use listTools to discover keys and man for parameters.",
	}, s.executeCommand)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolExecuteQuery,
		Description: "Execute a SiYuan query (read-only operation). Use listTools to discover keys and man for parameters.",
	}, s.executeQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolListTools,
		Description: "List every registered command and query with its description.",
	}, s.listTools)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolMan,
		Description: "Show the documentation page of a command or query: parameters, returns and examples.",
	}, s.man)
}

func (s *Server) executeCommand(ctx context.Context, _ *mcp.CallToolRequest, in DispatchInput) (*mcp.CallToolResult, any, error) {
	env := s.dispatcher.ExecuteCommand(ctx, in.Type, in.Params)
	res, err := jsonResult(env, !env.Success)
	return res, nil, err
}

func (s *Server) executeQuery(ctx context.Context, _ *mcp.CallToolRequest, in DispatchInput) (*mcp.CallToolResult, any, error) {
	env := s.dispatcher.ExecuteQuery(ctx, in.Type, in.Params)
	res, err := jsonResult(env, !env.Success)
	return res, nil, err
}

func (s *Server) listTools(_ context.Context, _ *mcp.CallToolRequest, _ ListToolsInput) (*mcp.CallToolResult, any, error) {
	res, err := jsonResult(s.renderer.ListAll(), false)
	return res, nil, err
}

func (s *Server) man(_ context.Context, _ *mcp.CallToolRequest, in ManInput) (*mcp.CallToolResult, any, error) {
	page, err := s.renderer.Render(in.Type)
	if errors.Is(err, introspect.ErrNotFound) {
		return textResult("No command or query named "+in.Type+". Use listTools to see what is available.", true), nil, nil
	}
	if err != nil {
		return textResult(err.Error(), true), nil, nil
	}
	return textResult(page, false), nil, nil
}
