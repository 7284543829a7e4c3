package operations

import "github.com/morezero/siyuan-bridge/pkg/registry"

func syncOps() []op {
	return []op{
		{
			kind: registry.KindCommand, name: "perform", description: "Run a data sync",
			path: "/api/sync/performSync",
			doc:  docs("Synchronize the workspace with the configured cloud repository", "perform-sync"),
		},
		{
			kind: registry.KindQuery, name: "listDevices", description: "List sync devices",
			path: "/api/sync/listDevices",
			doc:  returning(docs("List the devices taking part in sync", "list-sync-devices"), "array", "Devices"),
		},
		{
			kind: registry.KindQuery, name: "getState", description: "Get the sync state",
			path: "/api/sync/getSyncState",
			doc: returning(docs("Get the last sync time and status", "get-sync-state",
				example("Read state", nil, map[string]any{"synced": 1691467624, "stat": "Synced", "kernels": []any{}, "kernel": "v3.0.0"}),
			), "object", "Sync status"),
		},
	}
}
