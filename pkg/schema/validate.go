package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Issue is one violated constraint.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError lists every issue found in one parameter bag.
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "invalid parameters: " + strings.Join(parts, "; ")
}

// Validate checks raw against the descriptor. All violations are collected.
// Keys the descriptor does not declare are dropped from the result.
func (d *Descriptor) Validate(raw map[string]any) (Values, error) {
	var issues []Issue
	out := validateFields("", d.fields, raw, &issues)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return Values(out), nil
}

// Validate is the functional form of Descriptor.Validate.
func Validate(d *Descriptor, raw map[string]any) (Values, error) {
	return d.Validate(raw)
}

func validateFields(parent string, fields []Field, raw map[string]any, issues *[]Issue) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		path := joinPath(parent, f.Name)
		v, present := raw[f.Name]
		if present && v == nil && !f.Required {
			present = false
		}
		if !present {
			if f.Required {
				*issues = append(*issues, Issue{Path: path, Message: "required"})
			} else if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}
		if cv, ok := validateValue(path, f.Type, v, issues); ok {
			out[f.Name] = cv
		}
	}
	return out
}

func validateValue(path string, t Type, v any, issues *[]Issue) (any, bool) {
	fail := func(msg string) (any, bool) {
		*issues = append(*issues, Issue{Path: path, Message: msg})
		return nil, false
	}

	switch t.tag {
	case TagAny:
		return v, true

	case TagString:
		s, ok := v.(string)
		if !ok {
			return fail(fmt.Sprintf("expected string, got %s", kindOf(v)))
		}
		if len(t.enum) > 0 && !slices.Contains(t.enum, s) {
			return fail(fmt.Sprintf("must be one of %s, got %q", strings.Join(t.enum, ", "), s))
		}
		return s, true

	case TagNumber:
		n, ok := toFloat(v)
		if !ok {
			return fail(fmt.Sprintf("expected number, got %s", kindOf(v)))
		}
		return n, true

	case TagBoolean:
		b, ok := v.(bool)
		if !ok {
			return fail(fmt.Sprintf("expected boolean, got %s", kindOf(v)))
		}
		return b, true

	case TagArray:
		rv := reflect.ValueOf(v)
		if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return fail(fmt.Sprintf("expected array, got %s", kindOf(v)))
		}
		before := len(*issues)
		items := make([]any, rv.Len())
		for i := range items {
			items[i], _ = validateValue(joinPath(path, fmt.Sprint(i)), *t.elem, rv.Index(i).Interface(), issues)
		}
		return items, len(*issues) == before

	case TagObject:
		m, ok := toMap(v)
		if !ok {
			return fail(fmt.Sprintf("expected object, got %s", kindOf(v)))
		}
		if t.record {
			before := len(*issues)
			out := make(map[string]any, len(m))
			for _, k := range sortedKeys(m) {
				out[k], _ = validateValue(joinPath(path, k), *t.elem, m[k], issues)
			}
			return out, len(*issues) == before
		}
		if len(t.fields) == 0 {
			return m, true
		}
		before := len(*issues)
		out := validateFields(path, t.fields, m, issues)
		return out, len(*issues) == before
	}
	return fail(fmt.Sprintf("unsupported type %q", t.tag))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// kindOf names the JSON kind of v for error messages.
func kindOf(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
