package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func conversionOps() []op {
	return []op{{
		kind: registry.KindCommand, name: "pandoc", description: "Convert content with Pandoc",
		path: "/api/convert/pandoc",
		fields: []schema.Field{
			schema.Required("dom", schema.String(), "DOM content to convert"),
			schema.Required("type", schema.String(), "Target format such as docx or html"),
		},
		doc: returning(docs("Run the bundled Pandoc over block DOM", "pandoc",
			example("Convert to docx", map[string]any{"dom": "<div data-type=\"NodeParagraph\">foo</div>", "type": "docx"}, map[string]any{"path": "/temp/convert/pandoc/test.docx"}),
		), "object", "Conversion output",
			registry.Property{Name: "path", Type: "string", Description: "Path of the converted file"},
		),
	}}
}
