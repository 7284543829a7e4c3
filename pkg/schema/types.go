// Package schema describes and validates the parameters accepted by an operation.
package schema

import "strings"

// Tag is the semantic type of a parameter. The set is closed.
type Tag string

const (
	TagString  Tag = "string"
	TagNumber  Tag = "number"
	TagBoolean Tag = "boolean"
	TagArray   Tag = "array"
	TagObject  Tag = "object"
	TagAny     Tag = "any"
)

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	switch t {
	case TagString, TagNumber, TagBoolean, TagArray, TagObject, TagAny:
		return true
	}
	return false
}

// Type is a tagged parameter type. Build values with the constructors below;
// the zero Type is invalid.
type Type struct {
	tag Tag
	// elem is the element type of an array or the value type of a record.
	elem *Type
	// fields are the declared members of an object. A record has none.
	fields []Field
	record bool
	enum   []string
}

// String is a free-form string.
func String() Type { return Type{tag: TagString} }

// Number accepts any JSON number. Validated values are float64.
func Number() Type { return Type{tag: TagNumber} }

// Boolean is true or false.
func Boolean() Type { return Type{tag: TagBoolean} }

// Any accepts every value, including null.
func Any() Type { return Type{tag: TagAny} }

// Array is a list whose elements all match elem.
func Array(elem Type) Type { return Type{tag: TagArray, elem: &elem} }

// Object is a nested structure with declared fields. An Object without fields
// accepts any JSON object unchanged.
func Object(fields ...Field) Type { return Type{tag: TagObject, fields: fields} }

// Record is an object with free keys whose values all match values.
func Record(values Type) Type { return Type{tag: TagObject, elem: &values, record: true} }

// Enum is a string restricted to a closed set of values.
func Enum(values ...string) Type {
	return Type{tag: TagString, enum: append(make([]string, 0, len(values)), values...)}
}

// Tag returns the semantic tag of t.
func (t Type) Tag() Tag { return t.tag }

// Elem returns the element type of an array or the value type of a record.
func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

// Fields returns a copy of the declared fields of an object type.
func (t Type) Fields() []Field { return append([]Field(nil), t.fields...) }

// IsRecord reports whether t is a record object.
func (t Type) IsRecord() bool { return t.record }

// EnumValues returns a copy of the allowed values, or nil when unconstrained.
func (t Type) EnumValues() []string { return append([]string(nil), t.enum...) }

// Label is the type name shown in documentation, e.g. "array<string>".
func (t Type) Label() string {
	switch {
	case t.tag == TagArray && t.elem != nil && t.elem.tag != TagAny:
		return "array<" + t.elem.Label() + ">"
	case t.record && t.elem != nil && t.elem.tag != TagAny:
		return "record<" + t.elem.Label() + ">"
	case len(t.enum) > 0:
		return "enum(" + strings.Join(t.enum, "|") + ")"
	}
	return string(t.tag)
}

// Field is one named parameter.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	Description string
	// Default is applied when an optional field is absent. Required fields
	// must not carry one.
	Default any
}

// Required declares a mandatory parameter.
func Required(name string, t Type, description string) Field {
	return Field{Name: name, Type: t, Required: true, Description: description}
}

// Optional declares a parameter that may be omitted.
func Optional(name string, t Type, description string) Field {
	return Field{Name: name, Type: t, Description: description}
}

// WithDefault returns a copy of f that falls back to v when absent.
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}
