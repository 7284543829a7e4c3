package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func exportOps() []op {
	return []op{{
		kind: registry.KindQuery, name: "exportMdContent", description: "Export a document as Markdown",
		path:   "/api/export/exportMdContent",
		fields: []schema.Field{schema.Required("id", schema.String(), "Document ID")},
		doc: returning(docs("Export the Markdown content of a document", "export-markdown",
			example("Export", map[string]any{"id": "20210808180320-fqgskfj"}, map[string]any{
				"hPath":   "/Please Start Here",
				"content": "## 🍫 Content Block\n\nIn SiYuan, the only important core concept is...",
			}),
		), "object", "Exported document",
			registry.Property{Name: "hPath", Type: "string", Description: "Human-readable path"},
			registry.Property{Name: "content", Type: "string", Description: "Markdown content"},
		),
	}}
}
