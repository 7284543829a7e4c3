package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func searchOps() []op {
	return []op{{
		kind: registry.KindQuery, name: "fullTextSearch", description: "Full-text search over blocks",
		path: "/api/search/fullTextSearch",
		fields: []schema.Field{
			schema.Required("query", schema.String(), "Search query"),
			schema.Optional("method", schema.Number(), "0 keyword, 1 query syntax, 2 SQL, 3 regular expression").WithDefault(0),
			schema.Optional("types", schema.Array(schema.String()), "Block types to include, such as paragraph or heading"),
			schema.Optional("paths", schema.Array(schema.String()), "Notebook or document paths to search in"),
			schema.Optional("groupBy", schema.Number(), "0 no grouping, 1 group by document").WithDefault(0),
			schema.Optional("orderBy", schema.Number(), "0 type, 1 created asc, 2 created desc, 3 updated asc, 4 updated desc, 5 content, 6 relevance").WithDefault(0),
			schema.Optional("page", schema.Number(), "Page number starting at 1").WithDefault(1),
			schema.Optional("limit", schema.Number(), "Results per page").WithDefault(32),
		},
		doc: returning(docs("Search block content with keywords, query syntax, SQL or regular expressions", "full-text-search",
			example("Keyword search", map[string]any{"query": "SiYuan"}, map[string]any{
				"blocks": []any{}, "matchedBlockCount": 0, "matchedRootCount": 0, "pageCount": 0,
			}),
		), "object", "Search result page",
			registry.Property{Name: "blocks", Type: "array", Description: "Matched blocks"},
			registry.Property{Name: "matchedBlockCount", Type: "number", Description: "Number of matched blocks"},
			registry.Property{Name: "pageCount", Type: "number", Description: "Number of pages"},
		),
	}}
}
