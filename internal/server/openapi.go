package server

import (
	"github.com/morezero/siyuan-bridge/pkg/dispatcher"
	"github.com/morezero/siyuan-bridge/pkg/registry"
)

// openAPI3 types for describing the HTTP dispatch endpoints.
type openAPI3Spec struct {
	OpenAPI string                      `json:"openapi"`
	Info    openAPI3Info                `json:"info"`
	Paths   map[string]openAPI3PathItem `json:"paths"`
}

type openAPI3Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

type openAPI3PathItem struct {
	Post *openAPI3Operation `json:"post,omitempty"`
}

type openAPI3Operation struct {
	Summary     string                      `json:"summary"`
	Description string                      `json:"description,omitempty"`
	OperationID string                      `json:"operationId"`
	Tags        []string                    `json:"tags,omitempty"`
	RequestBody *openAPI3RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]openAPI3Response `json:"responses"`
}

type openAPI3RequestBody struct {
	Content map[string]openAPI3MediaType `json:"content"`
}

type openAPI3Response struct {
	Description string                       `json:"description"`
	Content     map[string]openAPI3MediaType `json:"content,omitempty"`
}

type openAPI3MediaType struct {
	Schema interface{} `json:"schema,omitempty"`
}

var envelopeCodes = []string{
	dispatcher.CodeUnknownOperation, dispatcher.CodeInvalidArgument, dispatcher.CodeHandlerError, CodeInvalidRequest,
}

// envelopeSchema is the response body of every dispatch endpoint.
var envelopeSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":      map[string]interface{}{"type": "string"},
		"success": map[string]interface{}{"type": "boolean"},
		"data":    map[string]interface{}{},
		"error":   map[string]interface{}{"type": "string"},
		"code":    map[string]interface{}{"type": "string", "enum": envelopeCodes},
		"issues": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    map[string]interface{}{"type": "string"},
					"message": map[string]interface{}{"type": "string"},
				},
			},
		},
	},
	"required": []string{"success"},
}

// operationPath is the HTTP dispatch path of def, e.g. /command/notebook.create.
func operationPath(def registry.Definition) string {
	return "/" + def.Kind.String() + "/" + def.Key().String()
}

// buildOpenAPISpec builds an OpenAPI 3.0 spec with one POST path per operation.
func buildOpenAPISpec(defs []registry.Definition, version string) *openAPI3Spec {
	jsonContent := func(schema interface{}) map[string]openAPI3MediaType {
		return map[string]openAPI3MediaType{"application/json": {Schema: schema}}
	}

	paths := make(map[string]openAPI3PathItem, len(defs))
	for _, def := range defs {
		key := def.Key().String()
		desc := ""
		if def.Documentation != nil {
			desc = def.Documentation.Description
		}
		paths[operationPath(def)] = openAPI3PathItem{
			Post: &openAPI3Operation{
				Summary:     def.Description,
				Description: desc,
				OperationID: def.Kind.String() + "." + key,
				Tags:        []string{def.Namespace},
				RequestBody: &openAPI3RequestBody{Content: jsonContent(def.Schema.JSONSchema())},
				Responses: map[string]openAPI3Response{
					"200": {Description: "Success", Content: jsonContent(envelopeSchema)},
					"400": {Description: "Invalid parameters", Content: jsonContent(envelopeSchema)},
					"404": {Description: "Unknown operation", Content: jsonContent(envelopeSchema)},
					"502": {Description: "SiYuan call failed", Content: jsonContent(envelopeSchema)},
				},
			},
		}
	}
	return &openAPI3Spec{
		OpenAPI: "3.0.0",
		Info: openAPI3Info{
			Title:       "SiYuan Bridge",
			Description: "Typed commands and queries over the SiYuan kernel API.",
			Version:     version,
		},
		Paths: paths,
	}
}
