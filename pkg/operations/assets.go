package operations

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

const defaultAssetsDir = "/assets/"

func assetsOps(c *siyuan.Client) []op {
	return []op{{
		kind: registry.KindCommand, name: "upload", description: "Upload assets",
		fields: []schema.Field{
			schema.Required("files", schema.Array(schema.Object(
				schema.Required("name", schema.String(), "File name"),
				schema.Required("content", schema.String(), "Base64 encoded file content"),
			)), "Files to upload"),
			schema.Optional("path", schema.String(), "Assets directory inside the workspace").WithDefault(defaultAssetsDir),
		},
		handler: uploadAssets(c),
		doc: returning(docs("Upload files into an assets directory", "upload-assets",
			example("Upload one image", map[string]any{
				"files": []any{map[string]any{"name": "foo.png", "content": "iVBORw0KGgo="}},
			}, map[string]any{
				"errFiles": []any{},
				"succMap":  map[string]any{"foo.png": "assets/foo-20210719092549-9j5y79r.png"},
			}),
		), "object", "Upload result",
			registry.Property{Name: "errFiles", Type: "array", Description: "Files that failed"},
			registry.Property{Name: "succMap", Type: "object", Description: "Uploaded file name to asset path"},
		),
	}}
}

func uploadAssets(c *siyuan.Client) registry.Handler {
	return func(ctx context.Context, params schema.Values) (any, error) {
		items, _ := params["files"].([]any)
		files := make([]siyuan.FormFile, 0, len(items))
		for i, item := range items {
			f, _ := item.(map[string]any)
			name, _ := f["name"].(string)
			encoded, _ := f["content"].(string)
			content, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("%s - files.%d.content is not valid base64: %w", logPrefix, i, err)
			}
			files = append(files, siyuan.FormFile{Field: "file[]", FileName: name, Content: content})
		}
		fields := []siyuan.FormField{{Name: "assetsDirPath", Value: params.String("path")}}

		raw, err := c.Upload(ctx, "/api/asset/upload", fields, files)
		if err != nil {
			return nil, err
		}
		return siyuan.DecodeData(raw)
	}
}
