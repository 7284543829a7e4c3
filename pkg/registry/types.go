// Package registry stores the command and query definitions exposed by the bridge.
package registry

import (
	"context"
	"fmt"

	"github.com/morezero/siyuan-bridge/pkg/opkey"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

// Kind separates mutating commands from read-only queries.
type Kind int

const (
	KindCommand Kind = iota
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindQuery:
		return "query"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts "command" or "query".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "command":
		return KindCommand, nil
	case "query":
		return KindQuery, nil
	}
	return 0, NewRegistryError("INVALID_KIND", fmt.Sprintf("unknown kind %q, want command or query", s))
}

// Handler performs the work of one operation with validated params. The
// returned value must be JSON serializable.
type Handler func(ctx context.Context, params schema.Values) (any, error)

// Definition is one registered operation.
type Definition struct {
	Namespace   string
	Name        string
	Description string
	// Kind is assigned by the registry on registration.
	Kind          Kind
	Schema        *schema.Descriptor
	Handler       Handler
	Documentation *Documentation
}

// Key returns namespace.name as a typed key.
func (d Definition) Key() opkey.Key {
	return opkey.Key{Namespace: d.Namespace, Name: d.Name}
}

// Documentation is the optional long-form help of an operation. Parameter
// names, types and required flags come from the schema; Params only overrides
// how a schema field is presented.
type Documentation struct {
	Description string
	Params      map[string]ParamDoc
	Returns     *ReturnDoc
	Examples    []Example
	APILink     string
}

// ParamDoc overrides the presentation of one schema field.
type ParamDoc struct {
	Type        string
	Description string
}

// ReturnDoc describes the shape of a successful result.
type ReturnDoc struct {
	Type        string
	Description string
	Properties  []Property
}

// Property is one documented member of a result object.
type Property struct {
	Name        string
	Type        string
	Description string
}

// Example is a worked request/response pair.
type Example struct {
	Description string
	Params      any
	Response    any
}

// RegistryError is a structured error from the registry.
type RegistryError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *RegistryError) Error() string {
	return e.Code + ": " + e.Message
}

// NewRegistryError creates a new RegistryError.
func NewRegistryError(code, message string) *RegistryError {
	return &RegistryError{Code: code, Message: message}
}
