package operations

import (
	"sort"

	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

var proxyEncodings = []string{"text", "base64", "base64-std", "base64-url", "base32", "base32-std", "base32-hex", "hex"}

func networkOps(c *siyuan.Client) []op {
	return []op{
		{
			kind: registry.KindCommand, name: "proxy", description: "Send a request through the kernel proxy",
			path: "/api/network/proxy",
			fields: []schema.Field{
				schema.Required("url", schema.String(), "Request URL"),
				schema.Optional("method", schema.String(), "HTTP method"),
				schema.Optional("payload", schema.Any(), "Request payload"),
			},
			doc: docs("Send an HTTP request from the kernel", "forward-proxy"),
		},
		{
			kind: registry.KindCommand, name: "forwardProxy", description: "Forward an HTTP request through the kernel",
			fields: []schema.Field{
				schema.Required("url", schema.String(), "Target URL"),
				schema.Optional("method", schema.Enum("GET", "POST", "PUT", "PATCH", "DELETE"), "HTTP method").WithDefault("POST"),
				schema.Optional("payload", schema.Any(), "Request payload"),
				schema.Optional("headers", schema.Record(schema.String()), "Request headers"),
				schema.Optional("contentType", schema.String(), "Content-Type of the payload").WithDefault("application/json"),
				schema.Optional("timeout", schema.Number(), "Timeout in milliseconds").WithDefault(7000),
				schema.Optional("payloadEncoding", schema.Enum(proxyEncodings...), "Encoding of payload").WithDefault("text"),
				schema.Optional("responseEncoding", schema.Enum(proxyEncodings...), "Encoding of the returned body").WithDefault("text"),
			},
			handler: siyuan.ForwardWith(c, "/api/network/forwardProxy", forwardProxyBody),
			doc: returning(docs("Forward an HTTP request from the kernel, bypassing browser CORS limits", "forward-proxy",
				example("GET a page", map[string]any{
					"url":     "https://siyuan.example/api",
					"method":  "GET",
					"headers": map[string]any{"Accept": "application/json"},
				}, map[string]any{"body": "{}", "contentType": "application/json", "elapsed": 1976, "status": 200, "url": "https://siyuan.example/api"}),
			), "object", "Response of the target",
				registry.Property{Name: "status", Type: "number", Description: "HTTP status"},
				registry.Property{Name: "body", Type: "string", Description: "Body in responseEncoding"},
				registry.Property{Name: "headers", Type: "object", Description: "Response headers"},
			),
		},
	}
}

// forwardProxyBody sends headers the way the kernel expects them, a list of
// single-entry maps ordered by header name.
func forwardProxyBody(params schema.Values) interface{} {
	body := params.Without("headers")
	headers := params.Map("headers")
	if len(headers) == 0 {
		return body
	}
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]map[string]any, 0, len(names))
	for _, name := range names {
		list = append(list, map[string]any{name: headers[name]})
	}
	body["headers"] = list
	return body
}
