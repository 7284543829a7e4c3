package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func attributesOps() []op {
	return []op{
		{
			kind: registry.KindCommand, name: "setBlockAttrs", description: "Set block attributes",
			path: "/api/attr/setBlockAttrs",
			fields: []schema.Field{
				blockID("Block ID"),
				schema.Required("attrs", schema.Record(schema.String()), "Attributes to set; custom attributes need the custom- prefix"),
			},
			doc: docs("Set attributes of a block; an empty value removes the attribute", "set-block-attributes",
				example("Set a custom attribute", map[string]any{
					"id":    "20210912214605-uhi5gco",
					"attrs": map[string]any{"custom-attr1": "line1\nline2"},
				}, nil),
			),
		},
		{
			kind: registry.KindQuery, name: "getBlockAttrs", description: "Get block attributes",
			path:   "/api/attr/getBlockAttrs",
			fields: []schema.Field{blockID("Block ID")},
			doc: returning(docs("Get every attribute of a block", "get-block-attributes",
				example("Read attributes", map[string]any{"id": "20210912214605-uhi5gco"}, map[string]any{
					"custom-attr1": "line1\nline2",
					"id":           "20210912214605-uhi5gco",
					"title":        "PDF Annotation Demo",
					"type":         "doc",
					"updated":      "20210916120715",
				}),
			), "object", "Attribute map"),
		},
	}
}
