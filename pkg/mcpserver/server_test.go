package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/morezero/siyuan-bridge/pkg/dispatcher"
	"github.com/morezero/siyuan-bridge/pkg/introspect"
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry(registry.NewRegistryParams{})

	if _, err := reg.RegisterCommand(registry.Definition{
		Namespace:   "notebook",
		Name:        "create",
		Description: "Create a notebook",
		Schema:      schema.MustNew(schema.Required("name", schema.String(), "Notebook name")),
		Handler: func(_ context.Context, params schema.Values) (any, error) {
			return map[string]any{"notebook": map[string]any{"name": params.String("name")}}, nil
		},
		Documentation: &registry.Documentation{Description: "Creates a new notebook."},
	}); err != nil {
		t.Fatalf("mcpserver:server_test - register command: %v", err)
	}

	if _, err := reg.RegisterQuery(registry.Definition{
		Namespace:   "system",
		Name:        "version",
		Description: "Kernel version",
		Schema:      schema.Empty(),
		Handler: func(context.Context, schema.Values) (any, error) {
			return "3.1.0", nil
		},
	}); err != nil {
		t.Fatalf("mcpserver:server_test - register query: %v", err)
	}
	return reg
}

// connect starts the server on in-memory transports and returns a client session.
func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	reg := newTestRegistry(t)
	s := NewServer(NewServerParams{
		Dispatcher: dispatcher.NewDispatcher(dispatcher.NewDispatcherParams{Registry: reg}),
		Renderer:   introspect.NewRenderer(reg),
	})

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.ServeTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer connectCancel()
	session, err := client.Connect(connectCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("mcpserver:server_test - connect client: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
			t.Error("mcpserver:server_test - server did not stop")
		}
	})
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("mcpserver:server_test - call %s: %v", name, err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("mcpserver:server_test - %s returned %d content items", name, len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("mcpserver:server_test - %s content is %T, want text", name, res.Content[0])
	}
	return text.Text, res.IsError
}

func decodeEnvelope(t *testing.T, text string) dispatcher.Envelope {
	t.Helper()
	var env dispatcher.Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		t.Fatalf("mcpserver:server_test - envelope is not JSON: %v\n%s", err, text)
	}
	return env
}

func TestListsFourTools(t *testing.T) {
	session := connect(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("mcpserver:server_test - list tools: %v", err)
	}
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	got := strings.Join(names, ",")
	for _, want := range []string{ToolExecuteCommand, ToolExecuteQuery, ToolListTools, ToolMan} {
		if !strings.Contains(got, want) {
			t.Errorf("mcpserver:server_test - tools %s missing %s", got, want)
		}
	}
}

func TestExecuteCommand_Success(t *testing.T) {
	session := connect(t)

	text, isError := callTool(t, session, ToolExecuteCommand, map[string]any{
		"type":   "notebook.create",
		"params": map[string]any{"name": "Work"},
	})
	if isError {
		t.Fatalf("mcpserver:server_test - unexpected tool error: %s", text)
	}
	env := decodeEnvelope(t, text)
	if !env.Success {
		t.Fatalf("mcpserver:server_test - envelope = %+v", env)
	}
	nb := env.Data.(map[string]any)["notebook"].(map[string]any)
	if nb["name"] != "Work" {
		t.Errorf("mcpserver:server_test - data = %v", env.Data)
	}
}

func TestExecuteCommand_InvalidParams(t *testing.T) {
	session := connect(t)

	text, isError := callTool(t, session, ToolExecuteCommand, map[string]any{"type": "notebook.create"})
	if !isError {
		t.Error("mcpserver:server_test - expected IsError for invalid params")
	}
	env := decodeEnvelope(t, text)
	if env.Success || env.Code != dispatcher.CodeInvalidArgument {
		t.Errorf("mcpserver:server_test - envelope = %+v", env)
	}
	if len(env.Issues) != 1 || env.Issues[0].Path != "name" {
		t.Errorf("mcpserver:server_test - issues = %+v", env.Issues)
	}
}

func TestExecuteQuery(t *testing.T) {
	session := connect(t)

	text, isError := callTool(t, session, ToolExecuteQuery, map[string]any{"type": "system.version"})
	if isError {
		t.Fatalf("mcpserver:server_test - unexpected tool error: %s", text)
	}
	if env := decodeEnvelope(t, text); env.Data != "3.1.0" {
		t.Errorf("mcpserver:server_test - data = %v", env.Data)
	}

	// Commands are not reachable through executeQuery.
	text, isError = callTool(t, session, ToolExecuteQuery, map[string]any{"type": "notebook.create"})
	if !isError {
		t.Error("mcpserver:server_test - expected IsError for a command key")
	}
	if env := decodeEnvelope(t, text); env.Code != dispatcher.CodeUnknownOperation {
		t.Errorf("mcpserver:server_test - code = %s", env.Code)
	}
}

func TestListTools(t *testing.T) {
	session := connect(t)

	text, isError := callTool(t, session, ToolListTools, map[string]any{})
	if isError {
		t.Fatalf("mcpserver:server_test - unexpected tool error: %s", text)
	}
	var catalog introspect.Catalog
	if err := json.Unmarshal([]byte(text), &catalog); err != nil {
		t.Fatalf("mcpserver:server_test - catalog is not JSON: %v", err)
	}
	if len(catalog.Commands) != 1 || catalog.Commands[0].Key != "notebook.create" {
		t.Errorf("mcpserver:server_test - commands = %+v", catalog.Commands)
	}
	if len(catalog.Queries) != 1 || catalog.Queries[0].Key != "system.version" {
		t.Errorf("mcpserver:server_test - queries = %+v", catalog.Queries)
	}
}

func TestMan(t *testing.T) {
	session := connect(t)

	text, isError := callTool(t, session, ToolMan, map[string]any{"type": "notebook.create"})
	if isError {
		t.Fatalf("mcpserver:server_test - unexpected tool error: %s", text)
	}
	if !strings.HasPrefix(text, "# notebook.create") || !strings.Contains(text, "Creates a new notebook.") {
		t.Errorf("mcpserver:server_test - page = %s", text)
	}

	text, isError = callTool(t, session, ToolMan, map[string]any{"type": "nope.nope"})
	if !isError || !strings.Contains(text, "nope.nope") {
		t.Errorf("mcpserver:server_test - unknown key result = %q, isError=%v", text, isError)
	}
}
