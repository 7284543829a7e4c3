package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func blockID(description string) schema.Field {
	return schema.Required("id", schema.String(), description)
}

func blocksOps() []op {
	return []op{
		{
			kind: registry.KindCommand, name: "insert", description: "Insert blocks after a block",
			path: "/api/block/insertBlock",
			fields: []schema.Field{
				dataType(),
				schema.Required("data", schema.String(), "Content to insert"),
				schema.Optional("nextID", schema.String(), "ID of the next block"),
				schema.Optional("previousID", schema.String(), "ID of the previous block"),
				schema.Optional("parentID", schema.String(), "ID of the parent block"),
			},
			doc: transactions(docs("Insert blocks; the position is given by nextID, previousID or parentID in that priority", "insert-blocks",
				example("Insert a paragraph", map[string]any{
					"dataType":   "markdown",
					"data":       "foo**bar**{: style=\"color: var(--b3-font-color8);\"}baz",
					"previousID": "20211229114650-vrek5x6",
				}, []any{map[string]any{"doOperations": []any{map[string]any{"action": "insert", "id": "20211230115020-g02dfx0"}}, "undoOperations": nil}}),
			)),
		},
		{
			kind: registry.KindCommand, name: "prepend", description: "Prepend blocks to a parent",
			path: "/api/block/prependBlock",
			fields: []schema.Field{
				dataType(),
				schema.Required("data", schema.String(), "Content to insert"),
				schema.Required("parentID", schema.String(), "ID of the parent block"),
			},
			doc: transactions(docs("Insert blocks as the first children of a parent", "prepend-blocks")),
		},
		{
			kind: registry.KindCommand, name: "append", description: "Append blocks to a parent",
			path: "/api/block/appendBlock",
			fields: []schema.Field{
				dataType(),
				schema.Required("data", schema.String(), "Content to insert"),
				schema.Required("parentID", schema.String(), "ID of the parent block"),
			},
			doc: transactions(docs("Insert blocks as the last children of a parent", "append-blocks")),
		},
		{
			kind: registry.KindCommand, name: "update", description: "Update a block",
			path: "/api/block/updateBlock",
			fields: []schema.Field{
				dataType(),
				schema.Required("data", schema.String(), "New content"),
				blockID("ID of the block to update"),
			},
			doc: transactions(docs("Replace the content of a block", "update-a-block")),
		},
		{
			kind: registry.KindCommand, name: "delete", description: "Delete a block",
			path:   "/api/block/deleteBlock",
			fields: []schema.Field{blockID("ID of the block to delete")},
			doc: transactions(docs("Delete a block by its ID", "delete-a-block",
				example("Delete one block", map[string]any{"id": "20211230161520-querkps"}, []any{map[string]any{
					"doOperations": []any{map[string]any{"action": "delete", "id": "20211230161520-querkps"}}, "undoOperations": nil,
				}}),
			)),
		},
		{
			kind: registry.KindCommand, name: "move", description: "Move a block",
			path: "/api/block/moveBlock",
			fields: []schema.Field{
				blockID("ID of the block to move"),
				schema.Optional("previousID", schema.String(), "ID of the previous block"),
				schema.Optional("parentID", schema.String(), "ID of the parent block, used when previousID is empty"),
			},
			doc: transactions(docs("Move a block after previousID or under parentID", "move-a-block")),
		},
		{
			kind: registry.KindCommand, name: "fold", description: "Fold a block",
			path:   "/api/block/foldBlock",
			fields: []schema.Field{blockID("ID of the block to fold")},
			doc:    docs("Fold a heading or list item", "fold-a-block"),
		},
		{
			kind: registry.KindCommand, name: "unfold", description: "Unfold a block",
			path:   "/api/block/unfoldBlock",
			fields: []schema.Field{blockID("ID of the block to unfold")},
			doc:    docs("Unfold a heading or list item", "unfold-a-block"),
		},
		{
			kind: registry.KindCommand, name: "transferRef", description: "Transfer block references",
			path: "/api/block/transferBlockRef",
			fields: []schema.Field{
				schema.Required("fromID", schema.String(), "Definition block whose references move"),
				schema.Required("toID", schema.String(), "New definition block"),
				schema.Optional("refIDs", schema.Array(schema.String()), "Referencing blocks to move; all references when empty"),
			},
			doc: docs("Move references from one definition block to another", "transfer-block-ref"),
		},
		{
			kind: registry.KindQuery, name: "getKramdown", description: "Get the kramdown of a block",
			path:   "/api/block/getBlockKramdown",
			fields: []schema.Field{blockID("Block ID")},
			doc: returning(docs("Get the kramdown source of a block", "get-a-block-kramdown",
				example("Read a block", map[string]any{"id": "20201225220954-dlgzk1o"}, map[string]any{
					"id":       "20201225220954-dlgzk1o",
					"kramdown": "* {: id=\"20201225220954-e913snx\"}Create a new notebook",
				}),
			), "object", "Block kramdown",
				registry.Property{Name: "id", Type: "string", Description: "Block ID"},
				registry.Property{Name: "kramdown", Type: "string", Description: "Kramdown source"},
			),
		},
		{
			kind: registry.KindQuery, name: "getChildren", description: "Get the child blocks of a block",
			path:   "/api/block/getChildBlocks",
			fields: []schema.Field{blockID("Parent block ID")},
			doc:    returning(docs("List the direct children of a block", "get-child-blocks"), "array", "Child blocks with id, type and subType"),
		},
	}
}
