package events

import "context"

// EventPublisher delivers operation events. Publish failures never fail the
// operation that produced the event.
type EventPublisher interface {
	PublishExecuted(ctx context.Context, event *OperationExecutedEvent) error
}

// NoOpPublisher drops every event. It is the default when COMMS is disabled.
type NoOpPublisher struct{}

func (NoOpPublisher) PublishExecuted(context.Context, *OperationExecutedEvent) error { return nil }

// PublisherFunc adapts a function to EventPublisher.
type PublisherFunc func(ctx context.Context, event *OperationExecutedEvent) error

// PublishExecuted calls f.
func (f PublisherFunc) PublishExecuted(ctx context.Context, event *OperationExecutedEvent) error {
	return f(ctx, event)
}
