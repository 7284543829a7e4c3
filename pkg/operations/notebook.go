package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func notebookID() schema.Field {
	return schema.Required("notebook", schema.String(), "Notebook ID")
}

func notebookOps() []op {
	return []op{
		{
			kind: registry.KindQuery, name: "list", description: "List all notebooks",
			path: "/api/notebook/lsNotebooks",
			doc: returning(docs("List every notebook of the workspace", "list-notebooks",
				example("List notebooks", nil, map[string]any{"notebooks": []any{map[string]any{
					"id": "20210817205410-2kvfpfn", "name": "Test Notebook", "icon": "1f41b", "sort": 0, "closed": false,
				}}}),
			), "object", "Notebook list",
				registry.Property{Name: "notebooks", Type: "array", Description: "Notebooks"},
			),
		},
		{
			kind: registry.KindQuery, name: "getConf", description: "Get notebook configuration",
			path:   "/api/notebook/getNotebookConf",
			fields: []schema.Field{notebookID()},
			doc: returning(docs("Get the configuration of a notebook", "get-notebook-configuration",
				example("Read a configuration", map[string]any{"notebook": "20210817205410-2kvfpfn"}, map[string]any{
					"box":  "20210817205410-2kvfpfn",
					"name": "Test Notebook",
					"conf": map[string]any{"name": "Test Notebook", "closed": false, "refCreateSavePath": "", "createDocNameTemplate": ""},
				}),
			), "object", "Notebook configuration"),
		},
		{
			kind: registry.KindCommand, name: "create", description: "Create a notebook",
			path:   "/api/notebook/createNotebook",
			fields: []schema.Field{schema.Required("name", schema.String(), "Notebook name")},
			doc: returning(docs("Create a new notebook", "create-a-notebook",
				example("Create a notebook", map[string]any{"name": "Test Notebook"}, map[string]any{
					"notebook": map[string]any{"id": "20220126215949-r1wvoch", "name": "Test Notebook", "icon": "", "sort": 0, "closed": false},
				}),
			), "object", "The created notebook",
				registry.Property{Name: "notebook", Type: "object", Description: "Notebook information"},
			),
		},
		{
			kind: registry.KindCommand, name: "open", description: "Open a notebook",
			path:   "/api/notebook/openNotebook",
			fields: []schema.Field{notebookID()},
			doc:    docs("Open a closed notebook", "open-a-notebook"),
		},
		{
			kind: registry.KindCommand, name: "close", description: "Close a notebook",
			path:   "/api/notebook/closeNotebook",
			fields: []schema.Field{notebookID()},
			doc:    docs("Close an open notebook", "close-a-notebook"),
		},
		{
			kind: registry.KindCommand, name: "rename", description: "Rename a notebook",
			path: "/api/notebook/renameNotebook",
			fields: []schema.Field{
				notebookID(),
				schema.Required("name", schema.String(), "New notebook name"),
			},
			doc: docs("Rename a notebook", "rename-a-notebook",
				example("Rename", map[string]any{"notebook": "20210831090520-7dvbdv0", "name": "New Notebook Name"}, nil),
			),
		},
		{
			kind: registry.KindCommand, name: "remove", description: "Remove a notebook",
			path:   "/api/notebook/removeNotebook",
			fields: []schema.Field{notebookID()},
			doc:    docs("Remove a notebook and all of its documents", "remove-a-notebook"),
		},
		{
			kind: registry.KindCommand, name: "setConf", description: "Save notebook configuration",
			path: "/api/notebook/setNotebookConf",
			fields: []schema.Field{
				notebookID(),
				schema.Required("conf", schema.Object(
					schema.Optional("name", schema.String(), "Notebook name"),
					schema.Optional("closed", schema.Boolean(), "Whether the notebook is closed"),
					schema.Optional("refCreateSavePath", schema.String(), "Save path of documents created from references"),
					schema.Optional("createDocNameTemplate", schema.String(), "Name template of new documents"),
					schema.Optional("dailyNoteSavePath", schema.String(), "Save path of daily notes"),
					schema.Optional("dailyNoteTemplatePath", schema.String(), "Template of daily notes"),
				), "Notebook configuration"),
			},
			doc: docs("Save the configuration of a notebook", "save-notebook-configuration"),
		},
	}
}
