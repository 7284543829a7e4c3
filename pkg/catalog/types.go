// Package catalog loads declarative operation files that add forwarding
// commands and queries without code changes.
package catalog

// File is the root of a catalog file.
type File struct {
	Name        string  `yaml:"name"`
	Version     string  `yaml:"version"`
	Description string  `yaml:"description,omitempty"`
	Operations  []Entry `yaml:"operations"`
}

// Entry declares one operation forwarded to a kernel endpoint.
type Entry struct {
	// Kind is "command" or "query".
	Kind          string    `yaml:"kind"`
	Namespace     string    `yaml:"namespace"`
	Name          string    `yaml:"name"`
	Description   string    `yaml:"description"`
	Path          string    `yaml:"path"`
	Params        []Param   `yaml:"params,omitempty"`
	Documentation *EntryDoc `yaml:"documentation,omitempty"`
}

// Param declares one parameter. Type is one of string, number, boolean,
// array, object, record, enum or any. Items describes array elements, Values
// record values, and Fields the members of an object.
type Param struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Description string      `yaml:"description,omitempty"`
	Required    bool        `yaml:"required,omitempty"`
	Default     interface{} `yaml:"default,omitempty"`
	Enum        []string    `yaml:"enum,omitempty"`
	Items       *Param      `yaml:"items,omitempty"`
	Values      *Param      `yaml:"values,omitempty"`
	Fields      []Param     `yaml:"fields,omitempty"`
}

// EntryDoc is the optional documentation of an entry.
type EntryDoc struct {
	Description string       `yaml:"description,omitempty"`
	Returns     *ReturnsDoc  `yaml:"returns,omitempty"`
	Examples    []ExampleDoc `yaml:"examples,omitempty"`
	APILink     string       `yaml:"apiLink,omitempty"`
}

// ReturnsDoc describes a successful result.
type ReturnsDoc struct {
	Type        string        `yaml:"type"`
	Description string        `yaml:"description,omitempty"`
	Properties  []PropertyDoc `yaml:"properties,omitempty"`
}

// PropertyDoc is one documented member of a result.
type PropertyDoc struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
}

// ExampleDoc is one worked call.
type ExampleDoc struct {
	Description string                 `yaml:"description"`
	Params      map[string]interface{} `yaml:"params,omitempty"`
	Response    interface{}            `yaml:"response,omitempty"`
}

// Issue is an entry that could not be registered.
type Issue struct {
	Index   int    `json:"index"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

// Result summarizes Apply.
type Result struct {
	Registered []string `json:"registered"`
	Issues     []Issue  `json:"issues,omitempty"`
}
