package introspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

const noDocumentation = "No detailed documentation."

// Page renders the documentation page of def. The output depends only on
// def, so repeated calls return identical bytes.
func Page(def registry.Definition) string {
	key := def.Key().String()
	doc := def.Documentation
	if doc == nil {
		return fmt.Sprintf("# %s\n\n## Description\n%s\n\n## Parameters\n%s\n", key, def.Description, noDocumentation)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", key)

	description := doc.Description
	if description == "" {
		description = def.Description
	}
	fmt.Fprintf(&b, "## Description\n%s\n\n", description)

	writeParameters(&b, def.Schema, doc.Params)
	writeReturns(&b, doc.Returns)
	writeExamples(&b, doc.Examples)

	if doc.APILink != "" {
		fmt.Fprintf(&b, "## Reference\n[API documentation](%s)\n", doc.APILink)
	}
	return b.String()
}

func writeParameters(b *strings.Builder, d *schema.Descriptor, overrides map[string]registry.ParamDoc) {
	b.WriteString("## Parameters\n")
	if d == nil || d.Len() == 0 {
		b.WriteString("None\n\n")
		return
	}
	for _, f := range d.Fields() {
		typ := f.Type.Label()
		desc := f.Description
		if o, ok := overrides[f.Name]; ok {
			if o.Type != "" {
				typ = o.Type
			}
			if o.Description != "" {
				desc = o.Description
			}
		}
		marker := "optional"
		if f.Required {
			marker = "required"
		}
		fmt.Fprintf(b, "* `%s`: %s (%s)\n", f.Name, typ, marker)

		if f.Default != nil {
			desc = strings.TrimSpace(desc + " (default: " + compactJSON(f.Default) + ")")
		}
		if desc != "" {
			fmt.Fprintf(b, "  * %s\n", desc)
		}
	}
	b.WriteString("\n")
}

func writeReturns(b *strings.Builder, ret *registry.ReturnDoc) {
	if ret == nil {
		return
	}
	b.WriteString("## Returns\n")
	fmt.Fprintf(b, "* Type: %s\n", ret.Type)
	if ret.Description != "" {
		fmt.Fprintf(b, "* Description: %s\n", ret.Description)
	}
	if len(ret.Properties) > 0 {
		b.WriteString("* Properties:\n")
		for _, p := range ret.Properties {
			fmt.Fprintf(b, "  * `%s`: %s\n", p.Name, p.Type)
			if p.Description != "" {
				fmt.Fprintf(b, "    * %s\n", p.Description)
			}
		}
	}
	b.WriteString("\n")
}

func writeExamples(b *strings.Builder, examples []registry.Example) {
	if len(examples) == 0 {
		return
	}
	b.WriteString("## Examples\n")
	for i, ex := range examples {
		fmt.Fprintf(b, "### Example %d: %s\n", i+1, ex.Description)
		params := ex.Params
		if params == nil {
			params = map[string]any{}
		}
		fmt.Fprintf(b, "Parameters:\n```json\n%s\n```\n\n", indentJSON(params))
		fmt.Fprintf(b, "Response:\n```json\n%s\n```\n\n", indentJSON(ex.Response))
	}
}

func indentJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
