package schema

import (
	"fmt"
)

const logPrefix = "schema:descriptor"

// Descriptor is the ordered, immutable parameter contract of one operation.
type Descriptor struct {
	fields []Field
	index  map[string]int
}

// New builds a Descriptor. Field names must be unique, types must be complete,
// and required fields must not declare a default.
func New(fields ...Field) (*Descriptor, error) {
	if err := checkFields("", fields); err != nil {
		return nil, err
	}
	d := &Descriptor{
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range d.fields {
		d.index[f.Name] = i
	}
	return d, nil
}

// MustNew is like New but panics on an invalid descriptor. It is meant for
// package-level registration tables.
func MustNew(fields ...Field) *Descriptor {
	d, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return d
}

// Empty returns a descriptor that accepts no declared parameters.
func Empty() *Descriptor {
	return &Descriptor{index: map[string]int{}}
}

// Fields returns a copy of the fields in declaration order.
func (d *Descriptor) Fields() []Field {
	return append([]Field(nil), d.fields...)
}

// Field looks up a field by name.
func (d *Descriptor) Field(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// Len returns the number of top-level fields.
func (d *Descriptor) Len() int { return len(d.fields) }

// RequiredNames returns the names of required fields in declaration order.
func (d *Descriptor) RequiredNames() []string {
	var names []string
	for _, f := range d.fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

func checkFields(parent string, fields []Field) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		path := joinPath(parent, f.Name)
		if f.Name == "" {
			return fmt.Errorf("%s - field under %q has an empty name", logPrefix, parent)
		}
		if seen[f.Name] {
			return fmt.Errorf("%s - duplicate field %q", logPrefix, path)
		}
		seen[f.Name] = true
		if f.Required && f.Default != nil {
			return fmt.Errorf("%s - required field %q cannot have a default", logPrefix, path)
		}
		if err := checkType(path, f.Type); err != nil {
			return err
		}
		if f.Default != nil {
			var issues []Issue
			if _, ok := validateValue(path, f.Type, f.Default, &issues); !ok {
				return fmt.Errorf("%s - default of field %q does not match its type: %s", logPrefix, path, issues[0])
			}
		}
	}
	return nil
}

func checkType(path string, t Type) error {
	if !t.tag.Valid() {
		return fmt.Errorf("%s - field %q has unknown type %q", logPrefix, path, t.tag)
	}
	switch {
	case t.tag == TagArray:
		if t.elem == nil {
			return fmt.Errorf("%s - array field %q has no element type", logPrefix, path)
		}
		return checkType(path+"[]", *t.elem)
	case t.record:
		return checkType(path+"{}", *t.elem)
	case t.tag == TagObject:
		return checkFields(path, t.fields)
	case t.enum != nil && len(t.enum) == 0:
		return fmt.Errorf("%s - enum field %q has no values", logPrefix, path)
	}
	return nil
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
