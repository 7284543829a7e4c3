package schema

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// JSONSchema renders the descriptor as a JSON Schema object.
func (d *Descriptor) JSONSchema() *jsonschema.Schema {
	return objectSchema(d.fields)
}

func objectSchema(fields []Field) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(fields)),
	}
	for _, f := range fields {
		prop := typeSchema(f.Type)
		prop.Description = f.Description
		if f.Default != nil {
			if raw, err := json.Marshal(f.Default); err == nil {
				prop.Description += " (default " + string(raw) + ")"
			}
		}
		s.Properties[f.Name] = prop
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func typeSchema(t Type) *jsonschema.Schema {
	switch {
	case t.tag == TagAny:
		return &jsonschema.Schema{}
	case t.tag == TagArray:
		return &jsonschema.Schema{Type: "array", Items: typeSchema(*t.elem)}
	case t.record:
		return &jsonschema.Schema{Type: "object", AdditionalProperties: typeSchema(*t.elem)}
	case t.tag == TagObject:
		if len(t.fields) == 0 {
			return &jsonschema.Schema{Type: "object"}
		}
		return objectSchema(t.fields)
	case len(t.enum) > 0:
		s := &jsonschema.Schema{Type: "string"}
		for _, v := range t.enum {
			s.Enum = append(s.Enum, v)
		}
		return s
	}
	return &jsonschema.Schema{Type: string(t.tag)}
}
