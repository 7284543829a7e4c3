package operations

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strconv"
	"unicode/utf8"

	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

const (
	encodingText   = "text"
	encodingBase64 = "base64"
)

// FileContent is the result of file.getFile. Content is base64 encoded when
// the file is not valid UTF-8.
type FileContent struct {
	Path        string `json:"path"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
	ContentType string `json:"contentType,omitempty"`
	Size        int    `json:"size"`
}

func workspacePath(description string) schema.Field {
	return schema.Required("path", schema.String(), description)
}

func fileOps(c *siyuan.Client) []op {
	return []op{
		{
			kind: registry.KindCommand, name: "putFile", description: "Write a file into the workspace",
			fields: []schema.Field{
				workspacePath("File path under the workspace such as /data/foo.txt"),
				schema.Optional("file", schema.String(), "File content; required unless isDir is true"),
				schema.Optional("encoding", schema.Enum(encodingText, encodingBase64), "Encoding of file").WithDefault(encodingText),
				schema.Optional("isDir", schema.Boolean(), "Create a directory instead of a file").WithDefault(false),
				schema.Optional("modTime", schema.Number(), "Last modification time as a Unix timestamp"),
			},
			handler: putFile(c),
			doc: docs("Create or overwrite a file or directory in the workspace", "put-file",
				example("Write a text file", map[string]any{"path": "/data/notes/hello.txt", "file": "hello"}, nil),
			),
		},
		{
			kind: registry.KindCommand, name: "removeFile", description: "Remove a workspace file",
			path:   "/api/file/removeFile",
			fields: []schema.Field{workspacePath("File path under the workspace")},
			doc:    docs("Remove a file or directory from the workspace", "remove-file"),
		},
		{
			kind: registry.KindQuery, name: "getFile", description: "Read a workspace file",
			fields:  []schema.Field{workspacePath("File path under the workspace")},
			handler: getFile(c),
			doc: returning(docs("Read a file from the workspace", "get-file",
				example("Read a text file", map[string]any{"path": "/data/notes/hello.txt"}, map[string]any{
					"path": "/data/notes/hello.txt", "content": "hello", "encoding": "text", "contentType": "text/plain; charset=utf-8", "size": 5,
				}),
			), "object", "File content",
				registry.Property{Name: "path", Type: "string", Description: "Requested path"},
				registry.Property{Name: "content", Type: "string", Description: "File content"},
				registry.Property{Name: "encoding", Type: "string", Description: "text or base64"},
			),
		},
		{
			kind: registry.KindQuery, name: "readDir", description: "List a workspace directory",
			path:   "/api/file/readDir",
			fields: []schema.Field{workspacePath("Directory path under the workspace")},
			doc: returning(docs("List the entries of a workspace directory", "list-files",
				example("List data", map[string]any{"path": "/data/20210808180117-6v0mkxr/20200923234011-ieuun1p"}, []any{
					map[string]any{"isDir": true, "isSymlink": false, "name": "20210808180303-6yi0dv5", "updated": 1691467624},
				}),
			), "array", "Directory entries with name, isDir, isSymlink and updated"),
		},
	}
}

func putFile(c *siyuan.Client) registry.Handler {
	return func(ctx context.Context, params schema.Values) (any, error) {
		target := params.String("path")
		isDir := params.Bool("isDir")
		fields := []siyuan.FormField{
			{Name: "path", Value: target},
			{Name: "isDir", Value: strconv.FormatBool(isDir)},
		}
		if params.Has("modTime") {
			fields = append(fields, siyuan.FormField{Name: "modTime", Value: strconv.FormatInt(int64(params.Number("modTime")), 10)})
		}

		var files []siyuan.FormFile
		if !isDir {
			if !params.Has("file") {
				return nil, fmt.Errorf("%s - file is required unless isDir is true", logPrefix)
			}
			content := []byte(params.String("file"))
			if params.String("encoding") == encodingBase64 {
				decoded, err := base64.StdEncoding.DecodeString(params.String("file"))
				if err != nil {
					return nil, fmt.Errorf("%s - file is not valid base64: %w", logPrefix, err)
				}
				content = decoded
			}
			files = append(files, siyuan.FormFile{Field: "file", FileName: path.Base(target), Content: content})
		}

		raw, err := c.Upload(ctx, "/api/file/putFile", fields, files)
		if err != nil {
			return nil, err
		}
		return siyuan.DecodeData(raw)
	}
}

func getFile(c *siyuan.Client) registry.Handler {
	return func(ctx context.Context, params schema.Values) (any, error) {
		target := params.String("path")
		data, contentType, err := c.PostRaw(ctx, "/api/file/getFile", map[string]string{"path": target})
		if err != nil {
			return nil, err
		}
		out := &FileContent{Path: target, ContentType: contentType, Size: len(data)}
		if utf8.Valid(data) {
			out.Content, out.Encoding = string(data), encodingText
		} else {
			out.Content, out.Encoding = base64.StdEncoding.EncodeToString(data), encodingBase64
		}
		return out, nil
	}
}
