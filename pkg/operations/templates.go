package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func templatesOps() []op {
	return []op{
		{
			kind: registry.KindCommand, name: "render", description: "Render a template",
			path: "/api/template/render",
			fields: []schema.Field{
				schema.Optional("id", schema.String(), "ID of the document the template renders in"),
				schema.Optional("path", schema.String(), "Absolute path of the template file"),
			},
			doc: returning(docs("Render a template file in the context of a document", "render-a-template",
				example("Render", map[string]any{
					"id":   "20220724223548-j6g0o87",
					"path": "F:\\SiYuan\\data\\templates\\foo.md",
				}, map[string]any{"content": "<div data-node-id=\"20220729234848-dlgsah7\"></div>", "path": "F:\\SiYuan\\data\\templates\\foo.md"}),
			), "object", "Rendered template",
				registry.Property{Name: "content", Type: "string", Description: "Rendered DOM"},
				registry.Property{Name: "path", Type: "string", Description: "Template path"},
			),
		},
		{
			kind: registry.KindQuery, name: "renderSprig", description: "Render a Sprig template",
			path:   "/api/template/renderSprig",
			fields: []schema.Field{schema.Required("template", schema.String(), "Sprig template source")},
			doc: returning(docs("Render a Sprig template string", "render-sprig",
				example("Today", map[string]any{"template": "/daily note/{{now | date \"2006/01\"}}/{{now | date \"2006-01-02\"}}"}, "/daily note/2023/03/2023-03-24"),
			), "string", "Rendered text"),
		},
	}
}
