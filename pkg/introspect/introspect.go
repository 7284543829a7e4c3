// Package introspect renders discovery listings and documentation pages for registered operations.
package introspect

import (
	"errors"
	"fmt"

	"github.com/morezero/siyuan-bridge/pkg/opkey"
	"github.com/morezero/siyuan-bridge/pkg/registry"
)

const logPrefix = "introspect:introspect"

// ErrNotFound is returned by Render for keys that are neither a command nor a query.
var ErrNotFound = errors.New("operation not found")

// Entry is one line of the catalog.
type Entry struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// Catalog lists every registered operation in registration order.
type Catalog struct {
	Commands []Entry `json:"commands"`
	Queries  []Entry `json:"queries"`
}

// Renderer is a read-only view over a registry. It never calls handlers.
type Renderer struct {
	registry *registry.Registry
}

// NewRenderer creates a Renderer over reg.
func NewRenderer(reg *registry.Registry) *Renderer {
	return &Renderer{registry: reg}
}

// ListAll returns the flat catalog of commands and queries.
func (r *Renderer) ListAll() *Catalog {
	return &Catalog{
		Commands: entries(r.registry.AllCommands()),
		Queries:  entries(r.registry.AllQueries()),
	}
}

// Lookup finds key among commands first, then queries.
func (r *Renderer) Lookup(rawKey string) (registry.Definition, error) {
	key, err := opkey.Parse(rawKey)
	if err != nil {
		return registry.Definition{}, fmt.Errorf("%s - %q: %w", logPrefix, rawKey, ErrNotFound)
	}
	if def, ok := r.registry.GetCommand(key); ok {
		return def, nil
	}
	if def, ok := r.registry.GetQuery(key); ok {
		return def, nil
	}
	return registry.Definition{}, fmt.Errorf("%s - %q: %w", logPrefix, rawKey, ErrNotFound)
}

// Render returns the markdown documentation page of key.
func (r *Renderer) Render(rawKey string) (string, error) {
	def, err := r.Lookup(rawKey)
	if err != nil {
		return "", err
	}
	return Page(def), nil
}

func entries(defs []registry.Definition) []Entry {
	out := make([]Entry, 0, len(defs))
	for _, def := range defs {
		out = append(out, Entry{Key: def.Key().String(), Description: def.Description})
	}
	return out
}
