package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func notificationOps() []op {
	message := func(description string) []schema.Field {
		return []schema.Field{
			schema.Required("msg", schema.String(), description),
			schema.Optional("timeout", schema.Number(), "Display time in milliseconds").WithDefault(7000),
		}
	}
	return []op{
		{
			kind: registry.KindCommand, name: "pushMsg", description: "Push a message",
			path:   "/api/notification/pushMsg",
			fields: message("Message text"),
			doc: returning(docs("Show a notification in the SiYuan UI", "push-message",
				example("Notify", map[string]any{"msg": "test", "timeout": 7000}, map[string]any{"id": "62jtmqi"}),
			), "object", "Message handle",
				registry.Property{Name: "id", Type: "string", Description: "Message ID"},
			),
		},
		{
			kind: registry.KindCommand, name: "pushErrMsg", description: "Push an error message",
			path:   "/api/notification/pushErrMsg",
			fields: message("Error text"),
			doc:    docs("Show an error notification in the SiYuan UI", "push-error-message"),
		},
	}
}
