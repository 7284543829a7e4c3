package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/morezero/siyuan-bridge/pkg/events"
	"github.com/morezero/siyuan-bridge/pkg/opkey"
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

const logPrefix = "dispatcher:dispatch"

// Dispatcher executes registered operations. It never returns Go errors and
// never panics; every failure becomes an Envelope.
type Dispatcher struct {
	registry  *registry.Registry
	publisher events.EventPublisher
}

// NewDispatcherParams holds parameters for NewDispatcher.
type NewDispatcherParams struct {
	Registry *registry.Registry
	// Publisher receives an event after each successful command. Defaults to a no-op.
	Publisher events.EventPublisher
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(params NewDispatcherParams) *Dispatcher {
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}
	return &Dispatcher{registry: params.Registry, publisher: pub}
}

// ExecuteCommand dispatches the command registered under key.
func (d *Dispatcher) ExecuteCommand(ctx context.Context, key string, params map[string]interface{}) *Envelope {
	return d.Dispatch(ctx, &Request{Kind: registry.KindCommand.String(), Key: key, Params: params})
}

// ExecuteQuery dispatches the query registered under key.
func (d *Dispatcher) ExecuteQuery(ctx context.Context, key string, params map[string]interface{}) *Envelope {
	return d.Dispatch(ctx, &Request{Kind: registry.KindQuery.String(), Key: key, Params: params})
}

// Dispatch resolves req.Key, validates req.Params and runs the handler once.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Envelope {
	slog.Debug(fmt.Sprintf("%s - kind=%s key=%s id=%s", logPrefix, req.Kind, req.Key, req.ID))

	// Resolving
	kind, err := registry.ParseKind(req.Kind)
	if err != nil {
		return errorEnvelope(req.ID, CodeUnknownOperation, fmt.Sprintf("unknown operation %s: %v", req.Key, err))
	}
	def, env := d.resolve(req.ID, kind, req.Key)
	if env != nil {
		return env
	}

	// Validating
	values, err := def.Schema.Validate(req.Params)
	if err != nil {
		env := errorEnvelope(req.ID, CodeInvalidArgument, fmt.Sprintf("%s: %v", def.Key(), err))
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			env.Issues = verr.Issues
		}
		return env
	}

	// Executing
	data, err := invoke(ctx, def, values)
	if err != nil {
		slog.Debug(fmt.Sprintf("%s - %s %s failed: %v", logPrefix, kind, def.Key(), err))
		return errorEnvelope(req.ID, CodeHandlerError, err.Error())
	}

	if kind == registry.KindCommand {
		d.publishExecuted(ctx, req.ID, def)
	}
	return &Envelope{ID: req.ID, Success: true, Data: data}
}

func (d *Dispatcher) resolve(id string, kind registry.Kind, rawKey string) (registry.Definition, *Envelope) {
	key, err := opkey.Parse(rawKey)
	if err != nil {
		return registry.Definition{}, errorEnvelope(id, CodeUnknownOperation, fmt.Sprintf("unknown operation %s", rawKey))
	}
	if def, ok := d.registry.Get(kind, key); ok {
		return def, nil
	}

	msg := fmt.Sprintf("unknown operation %s", key)
	other := registry.KindQuery
	if kind == registry.KindQuery {
		other = registry.KindCommand
	}
	if _, ok := d.registry.Get(other, key); ok {
		msg = fmt.Sprintf("unknown operation %s (it is registered as a %s)", key, other)
	}
	return registry.Definition{}, errorEnvelope(id, CodeUnknownOperation, msg)
}

// invoke runs the handler and converts a panic into an error.
func invoke(ctx context.Context, def registry.Definition, values schema.Values) (data interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(fmt.Sprintf("%s - handler for %s panicked: %v", logPrefix, def.Key(), r))
			data, err = nil, fmt.Errorf("handler for %s panicked: %v", def.Key(), r)
		}
	}()
	return def.Handler(ctx, values)
}

func (d *Dispatcher) publishExecuted(ctx context.Context, id string, def registry.Definition) {
	event := events.NewOperationExecuted(def.Kind.String(), def.Namespace, def.Name, id, time.Now())
	if err := d.publisher.PublishExecuted(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish executed event for %s: %v", logPrefix, def.Key(), err))
	}
}

// --- helpers ---

func errorEnvelope(id, code, message string) *Envelope {
	return &Envelope{
		ID:      id,
		Success: false,
		Error:   message,
		Code:    code,
	}
}
