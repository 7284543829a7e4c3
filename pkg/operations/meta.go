package operations

import (
	"context"

	"github.com/morezero/siyuan-bridge/pkg/introspect"
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

// metaOps exposes the renderer through the dispatcher, so NATS and exec
// callers can discover operations the same way MCP clients do.
func metaOps(r *introspect.Renderer) []op {
	return []op{
		{
			kind: registry.KindQuery, name: "listTools", description: "List every command and query",
			handler: func(context.Context, schema.Values) (any, error) {
				return r.ListAll(), nil
			},
			doc: returning(&registry.Documentation{Description: "List the key and description of every registered command and query"},
				"object", "Catalog",
				registry.Property{Name: "commands", Type: "array", Description: "Commands in registration order"},
				registry.Property{Name: "queries", Type: "array", Description: "Queries in registration order"},
			),
		},
		{
			kind: registry.KindQuery, name: "man", description: "Show the manual page of an operation",
			fields: []schema.Field{schema.Required("type", schema.String(), "Operation key such as blocks.delete")},
			handler: func(_ context.Context, params schema.Values) (any, error) {
				return r.Render(params.String("type"))
			},
			doc: returning(&registry.Documentation{
				Description: "Render the Markdown documentation of a command or query",
				Examples: []registry.Example{
					example("Manual of meta.listTools", map[string]any{"type": "meta.listTools"}, "# meta.listTools\n\n..."),
				},
			}, "string", "Markdown page"),
		},
	}
}
