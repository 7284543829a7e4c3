package schema

// Values is a validated parameter bag. Numbers are float64, arrays are []any
// and objects are map[string]any.
type Values map[string]any

// Has reports whether name was supplied or defaulted.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// String returns the string value of name, or "".
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Number returns the numeric value of name, or 0.
func (v Values) Number(name string) float64 {
	n, _ := v[name].(float64)
	return n
}

// Bool returns the boolean value of name, or false.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Strings returns the elements of an array value that are strings.
func (v Values) Strings(name string) []string {
	items, _ := v[name].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Map returns an object value, or nil.
func (v Values) Map(name string) map[string]any {
	m, _ := v[name].(map[string]any)
	return m
}

// Without returns a copy of v without the named keys.
func (v Values) Without(names ...string) Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	for _, name := range names {
		delete(out, name)
	}
	return out
}
