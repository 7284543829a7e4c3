package operations

import (
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func sqlOps() []op {
	return []op{
		{
			kind: registry.KindQuery, name: "query", description: "Run a SQL query",
			path:   "/api/query/sql",
			fields: []schema.Field{schema.Required("stmt", schema.String(), "SQL statement")},
			doc: returning(docs("Query the block database with SQL", "execute-sql-query",
				example("Select blocks", map[string]any{"stmt": "SELECT * FROM blocks WHERE content LIKE '%content%' LIMIT 7"}, []any{
					map[string]any{"id": "20211230115020-g02dfx0", "type": "p", "content": "content"},
				}),
			), "array", "Result rows"),
		},
		{
			kind: registry.KindCommand, name: "flushTransaction", description: "Flush pending database writes",
			path: "/api/sqlite/flushTransaction",
			doc:  docs("Commit queued database transactions so queries see recent edits", "flush-transaction"),
		},
	}
}
