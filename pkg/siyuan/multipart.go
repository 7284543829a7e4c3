package siyuan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
)

// FormField is one plain value of a multipart request.
type FormField struct {
	Name  string
	Value string
}

// FormFile is one file part of a multipart request.
type FormFile struct {
	Field    string
	FileName string
	Content  []byte
}

// Upload posts a multipart form to path and returns the data member of the
// response. Fields are written before files, in the given order.
func (c *Client) Upload(ctx context.Context, path string, fields []FormField, files []FormFile) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("%s - failed to write field %s: %w", logPrefix, f.Name, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("%s - failed to create part %s: %w", logPrefix, f.FileName, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("%s - failed to write part %s: %w", logPrefix, f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s - failed to close multipart body: %w", logPrefix, err)
	}

	resp, data, err := c.do(ctx, path, w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	return decodeResponse(path, resp, data)
}
