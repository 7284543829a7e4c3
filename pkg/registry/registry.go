package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/morezero/siyuan-bridge/pkg/opkey"
)

const logPrefix = "registry:registry"

// Registry holds commands and queries keyed by namespace.name. The two kinds
// are independent, so one key may name both a command and a query.
// All methods are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	collections [2]*collection
	logger      *slog.Logger
}

// NewRegistryParams holds parameters for NewRegistry.
type NewRegistryParams struct {
	// Logger receives overwrite warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(params NewRegistryParams) *Registry {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		collections: [2]*collection{newCollection(), newCollection()},
		logger:      logger,
	}
}

// RegisterCommand registers def as a command. See Register.
func (r *Registry) RegisterCommand(def Definition) (bool, error) {
	return r.Register(KindCommand, def)
}

// RegisterQuery registers def as a query. See Register.
func (r *Registry) RegisterQuery(def Definition) (bool, error) {
	return r.Register(KindQuery, def)
}

// Register inserts def under kind. Re-registering a key replaces the previous
// definition, logs a warning and reports overwritten=true.
func (r *Registry) Register(kind Kind, def Definition) (overwritten bool, err error) {
	if err := checkKind(kind); err != nil {
		return false, err
	}
	if err := checkDefinition(def); err != nil {
		return false, err
	}
	def.Kind = kind
	def.Documentation = r.alignDocumentation(def)

	r.mu.Lock()
	overwritten = r.collections[kind].put(def)
	r.mu.Unlock()

	if overwritten {
		r.logger.Warn(fmt.Sprintf("%s - %s %s already registered, overwriting", logPrefix, kind, def.Key()))
	} else {
		r.logger.Debug(fmt.Sprintf("%s - registered %s %s", logPrefix, kind, def.Key()))
	}
	return overwritten, nil
}

// GetCommand looks up a command. The bool is false when the key is unknown.
func (r *Registry) GetCommand(key opkey.Key) (Definition, bool) {
	return r.Get(KindCommand, key)
}

// GetQuery looks up a query. The bool is false when the key is unknown.
func (r *Registry) GetQuery(key opkey.Key) (Definition, bool) {
	return r.Get(KindQuery, key)
}

// Get looks up key in the collection of kind.
func (r *Registry) Get(kind Kind, key opkey.Key) (Definition, bool) {
	if checkKind(kind) != nil {
		return Definition{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collections[kind].get(key)
}

// AllCommands returns a snapshot of every command in registration order.
func (r *Registry) AllCommands() []Definition {
	return r.All(KindCommand)
}

// AllQueries returns a snapshot of every query in registration order.
func (r *Registry) AllQueries() []Definition {
	return r.All(KindQuery)
}

// All returns a snapshot of kind in registration order. The slice is owned
// by the caller.
func (r *Registry) All(kind Kind) []Definition {
	if checkKind(kind) != nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collections[kind].all()
}

// Len returns the number of definitions of kind.
func (r *Registry) Len(kind Kind) int {
	if checkKind(kind) != nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collections[kind].len()
}

// Reset drops every command and query. Only tests call it.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections = [2]*collection{newCollection(), newCollection()}
}

func checkKind(kind Kind) error {
	if kind != KindCommand && kind != KindQuery {
		return NewRegistryError("INVALID_KIND", fmt.Sprintf("unknown kind %d", int(kind)))
	}
	return nil
}

func checkDefinition(def Definition) error {
	if err := def.Key().Validate(); err != nil {
		return &RegistryError{Code: "INVALID_DEFINITION", Message: err.Error()}
	}
	if def.Description == "" {
		return NewRegistryError("INVALID_DEFINITION", fmt.Sprintf("%s has no description", def.Key()))
	}
	if def.Schema == nil {
		return NewRegistryError("INVALID_DEFINITION", fmt.Sprintf("%s has no schema", def.Key()))
	}
	if def.Handler == nil {
		return NewRegistryError("INVALID_DEFINITION", fmt.Sprintf("%s has no handler", def.Key()))
	}
	return nil
}

// alignDocumentation drops parameter docs that name fields missing from the
// schema. The returned value is a private copy.
func (r *Registry) alignDocumentation(def Definition) *Documentation {
	if def.Documentation == nil {
		return nil
	}
	doc := *def.Documentation
	doc.Examples = append([]Example(nil), doc.Examples...)
	if doc.Returns != nil {
		ret := *doc.Returns
		ret.Properties = append([]Property(nil), ret.Properties...)
		doc.Returns = &ret
	}
	if doc.Params == nil {
		return &doc
	}

	params := make(map[string]ParamDoc, len(doc.Params))
	var dropped []string
	for name, p := range doc.Params {
		if _, ok := def.Schema.Field(name); !ok {
			dropped = append(dropped, name)
			continue
		}
		params[name] = p
	}
	if len(dropped) > 0 {
		sort.Strings(dropped)
		r.logger.Warn(fmt.Sprintf("%s - %s documents unknown params %v, ignoring them", logPrefix, def.Key(), dropped))
	}
	doc.Params = params
	return &doc
}
