package operations

import "github.com/morezero/siyuan-bridge/pkg/registry"

func systemOps() []op {
	return []op{
		{
			kind: registry.KindQuery, name: "bootProgress", description: "Get the boot progress",
			path: "/api/system/bootProgress",
			doc: returning(docs("Get the kernel boot progress", "get-boot-progress",
				example("Booted kernel", nil, map[string]any{"details": "Finishing boot...", "progress": 100}),
			), "object", "Boot progress",
				registry.Property{Name: "details", Type: "string", Description: "Current boot step"},
				registry.Property{Name: "progress", Type: "number", Description: "Percentage from 0 to 100"},
			),
		},
		{
			kind: registry.KindQuery, name: "version", description: "Get the system version",
			path: "/api/system/version",
			doc: returning(docs("Get the kernel version", "get-system-version",
				example("Read version", nil, "1.3.5"),
			), "string", "Kernel version"),
		},
		{
			kind: registry.KindQuery, name: "currentTime", description: "Get the current time",
			path: "/api/system/currentTime",
			doc: returning(docs("Get the kernel clock in milliseconds since the epoch", "get-the-current-time-of-the-system",
				example("Read time", nil, 1631850968131),
			), "number", "Milliseconds since the epoch"),
		},
	}
}
