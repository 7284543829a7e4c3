package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func docPath() schema.Field {
	return schema.Required("path", schema.String(), "Document storage path such as /20210902210113-0avi12f.sy")
}

func documentsOps() []op {
	return []op{
		{
			kind: registry.KindCommand, name: "createDocWithMd", description: "Create a document from Markdown",
			path: "/api/filetree/createDocWithMd",
			fields: []schema.Field{
				notebookID(),
				schema.Required("path", schema.String(), "Human-readable path starting with /, levels separated by /"),
				schema.Required("markdown", schema.String(), "GFM Markdown content"),
			},
			doc: returning(docs("Create a document in a notebook from GFM Markdown", "create-a-document-with-markdown",
				example("Create a document", map[string]any{
					"notebook": "20210817205410-2kvfpfn",
					"path":     "/foo/bar",
					"markdown": "# Title\n\nHello",
				}, "20210914223645-oj2vnx2"),
			), "string", "ID of the created document"),
		},
		{
			kind: registry.KindCommand, name: "rename", description: "Rename a document",
			path:   "/api/filetree/renameDoc",
			fields: []schema.Field{notebookID(), docPath(), schema.Required("title", schema.String(), "New title")},
			doc:    docs("Rename a document by notebook and storage path", "rename-a-document"),
		},
		{
			kind: registry.KindCommand, name: "renameById", description: "Rename a document by ID",
			path: "/api/filetree/renameDocByID",
			fields: []schema.Field{
				schema.Required("id", schema.String(), "Document ID"),
				schema.Required("title", schema.String(), "New title"),
			},
			doc: docs("Rename a document by its ID", "rename-a-document"),
		},
		{
			kind: registry.KindCommand, name: "remove", description: "Remove a document",
			path:   "/api/filetree/removeDoc",
			fields: []schema.Field{notebookID(), docPath()},
			doc:    docs("Remove a document by notebook and storage path", "remove-a-document"),
		},
		{
			kind: registry.KindCommand, name: "removeById", description: "Remove a document by ID",
			path:   "/api/filetree/removeDocByID",
			fields: []schema.Field{schema.Required("id", schema.String(), "Document ID")},
			doc:    docs("Remove a document by its ID", "remove-a-document"),
		},
		{
			kind: registry.KindCommand, name: "move", description: "Move documents",
			path: "/api/filetree/moveDocs",
			fields: []schema.Field{
				schema.Required("fromPaths", schema.Array(schema.String()), "Storage paths of the documents to move"),
				schema.Required("toNotebook", schema.String(), "Target notebook ID"),
				schema.Required("toPath", schema.String(), "Target storage path"),
			},
			doc: docs("Move documents to another notebook or parent", "move-documents",
				example("Move one document", map[string]any{
					"fromPaths":  []any{"/20210917220056-yxtyl7i.sy"},
					"toNotebook": "20210817205410-2kvfpfn",
					"toPath":     "/",
				}, nil),
			),
		},
		{
			kind: registry.KindCommand, name: "moveById", description: "Move documents by ID",
			path: "/api/filetree/moveDocsByID",
			fields: []schema.Field{
				schema.Required("fromIDs", schema.Array(schema.String()), "IDs of the documents to move"),
				schema.Required("toID", schema.String(), "ID of the target parent document or notebook"),
			},
			doc: docs("Move documents by ID under a new parent", "move-documents"),
		},
		{
			kind: registry.KindQuery, name: "getHPathByPath", description: "Get the human-readable path of a storage path",
			path:   "/api/filetree/getHPathByPath",
			fields: []schema.Field{notebookID(), docPath()},
			doc: returning(docs("Resolve a storage path to its human-readable path", "get-human-readable-path-based-on-path",
				example("Resolve", map[string]any{"notebook": "20210831090520-7dvbdv0", "path": "/20210917220500-sz588nq/20210917220056-yxtyl7i.sy"}, "/foo/bar"),
			), "string", "Human-readable path"),
		},
		{
			kind: registry.KindQuery, name: "getHPathById", description: "Get the human-readable path of a block",
			path:   "/api/filetree/getHPathByID",
			fields: []schema.Field{schema.Required("id", schema.String(), "Block ID")},
			doc:    returning(docs("Resolve a block ID to the human-readable path of its document", "get-human-readable-path-based-on-id"), "string", "Human-readable path"),
		},
		{
			kind: registry.KindQuery, name: "getPathById", description: "Get the storage path of a block",
			path:   "/api/filetree/getPathByID",
			fields: []schema.Field{schema.Required("id", schema.String(), "Block ID")},
			doc:    returning(docs("Resolve a block ID to the storage path of its document", "get-storage-path-based-on-id"), "object", "Notebook and storage path"),
		},
		{
			kind: registry.KindQuery, name: "getIdsByHPath", description: "Get document IDs of a human-readable path",
			path: "/api/filetree/getIDsByHPath",
			fields: []schema.Field{
				schema.Required("path", schema.String(), "Human-readable path"),
				notebookID(),
			},
			doc: returning(docs("List the IDs of documents at a human-readable path", "get-ids-based-on-human-readable-path",
				example("Lookup", map[string]any{"path": "/foo/bar", "notebook": "20210808180117-czj9bvb"}, []any{"20200813004931-q4cu8na"}),
			), "array", "Document IDs"),
		},
	}
}
