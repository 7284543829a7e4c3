// Package operations registers the built-in SiYuan commands and queries.
package operations

import (
	"fmt"

	"github.com/morezero/siyuan-bridge/pkg/introspect"
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

const (
	logPrefix = "operations:operations"

	// APIDocBase prefixes every apiLink anchor.
	APIDocBase = "https://github.com/siyuan-note/siyuan/blob/master/API.md#"
)

// op is one built-in operation. A nil handler forwards the validated params
// to path unchanged.
type op struct {
	kind        registry.Kind
	name        string
	description string
	path        string
	fields      []schema.Field
	handler     registry.Handler
	doc         *registry.Documentation
}

// group is the set of operations of one namespace.
type group struct {
	namespace string
	ops       []op
}

// Register registers every built-in operation on reg, forwarding to c. The
// meta namespace renders from reg itself.
func Register(reg *registry.Registry, c *siyuan.Client) error {
	groups := []group{
		{"notebook", notebookOps()},
		{"documents", documentsOps()},
		{"blocks", blocksOps()},
		{"attributes", attributesOps()},
		{"assets", assetsOps(c)},
		{"bookmarks", bookmarksOps()},
		{"conversion", conversionOps()},
		{"export", exportOps()},
		{"file", fileOps(c)},
		{"network", networkOps(c)},
		{"notification", notificationOps()},
		{"search", searchOps()},
		{"sql", sqlOps()},
		{"sync", syncOps()},
		{"system", systemOps()},
		{"templates", templatesOps()},
		{"meta", metaOps(introspect.NewRenderer(reg))},
	}
	for _, g := range groups {
		if err := registerGroup(reg, c, g); err != nil {
			return err
		}
	}
	return nil
}

func registerGroup(reg *registry.Registry, c *siyuan.Client, g group) error {
	for _, o := range g.ops {
		d, err := schema.New(o.fields...)
		if err != nil {
			return fmt.Errorf("%s - %s.%s: %w", logPrefix, g.namespace, o.name, err)
		}
		handler := o.handler
		if handler == nil {
			handler = siyuan.Forward(c, o.path)
		}
		def := registry.Definition{
			Namespace:     g.namespace,
			Name:          o.name,
			Description:   o.description,
			Schema:        d,
			Handler:       handler,
			Documentation: o.doc,
		}
		if _, err := reg.Register(o.kind, def); err != nil {
			return fmt.Errorf("%s - failed to register %s: %w", logPrefix, def.Key(), err)
		}
	}
	return nil
}

// docs builds documentation linking to anchor in the kernel API reference.
func docs(description, anchor string, examples ...registry.Example) *registry.Documentation {
	return &registry.Documentation{
		Description: description,
		Examples:    examples,
		APILink:     APIDocBase + anchor,
	}
}

// returning sets the Returns section of doc and returns doc.
func returning(doc *registry.Documentation, typ, description string, props ...registry.Property) *registry.Documentation {
	doc.Returns = &registry.ReturnDoc{Type: typ, Description: description, Properties: props}
	return doc
}

func example(description string, params map[string]any, response any) registry.Example {
	return registry.Example{Description: description, Params: params, Response: response}
}

// transactions is the Returns section of block mutations.
func transactions(doc *registry.Documentation) *registry.Documentation {
	return returning(doc, "array", "Transactions applied by the kernel",
		registry.Property{Name: "doOperations", Type: "array", Description: "Applied operations"},
		registry.Property{Name: "undoOperations", Type: "array", Description: "Undo operations, usually null"},
	)
}

// dataType is the markup of block content.
func dataType() schema.Field {
	return schema.Required("dataType", schema.Enum("markdown", "dom"), "Content format")
}
