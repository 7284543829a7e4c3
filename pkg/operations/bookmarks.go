package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func bookmarksOps() []op {
	return []op{
		{
			kind: registry.KindCommand, name: "add", description: "Bookmark a block",
			path: "/api/bookmark/add",
			fields: []schema.Field{
				blockID("Block ID"),
				schema.Required("title", schema.String(), "Bookmark title"),
			},
			doc: docs("Add a block to a bookmark group", "add-bookmark",
				example("Bookmark a heading", map[string]any{"id": "20210808180320-fqgskfj", "title": "Reading"}, nil),
			),
		},
		{
			kind: registry.KindCommand, name: "remove", description: "Remove a bookmark",
			path:   "/api/bookmark/remove",
			fields: []schema.Field{blockID("Block ID")},
			doc:    docs("Remove the bookmark of a block", "remove-bookmark"),
		},
		{
			kind: registry.KindCommand, name: "rename", description: "Rename a bookmark",
			path: "/api/bookmark/rename",
			fields: []schema.Field{
				blockID("Block ID"),
				schema.Required("title", schema.String(), "New bookmark title"),
			},
			doc: docs("Rename the bookmark of a block", "rename-bookmark"),
		},
		{
			kind: registry.KindQuery, name: "getBookmarks", description: "List bookmarks",
			path: "/api/bookmark/getBookmarks",
			doc: returning(docs("List every bookmark group and its blocks", "get-bookmarks"),
				"array", "Bookmark groups with name and blocks"),
		},
	}
}
