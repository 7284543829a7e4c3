package siyuan

import (
	"context"

	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

// Forward returns a handler that posts the validated params unchanged to
// path and returns the decoded data member.
func Forward(c *Client, path string) registry.Handler {
	return ForwardWith(c, path, nil)
}

// ForwardWith is like Forward but builds the request body with body. A nil
// body forwards the params as they are.
func ForwardWith(c *Client, path string, body func(schema.Values) interface{}) registry.Handler {
	return func(ctx context.Context, params schema.Values) (interface{}, error) {
		var payload interface{} = map[string]interface{}(params)
		if body != nil {
			payload = body(params)
		}
		raw, err := c.Post(ctx, path, payload)
		if err != nil {
			return nil, err
		}
		return DecodeData(raw)
	}
}
