package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/siyuan-bridge/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// Message headers set on every change event.
const (
	HeaderOperation = "Siyuan-Operation"
	HeaderRequestID = "Siyuan-Request-Id"
)

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use defaults.
type CommsPublisherOpts struct {
	// GlobalChangeSubject is the change subject prefix (CHANGE_EVENT_SUBJECT).
	// Defaults to commsutil.SubjectChangeEvent.
	GlobalChangeSubject string
}

// CommsPublisher publishes change events as COMMS messages with headers
// naming the operation and request.
type CommsPublisher struct {
	nc     *comms.Conn
	prefix string
}

// NewCommsPublisher creates a CommsPublisher on nc.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	p := &CommsPublisher{nc: nc, prefix: commsutil.SubjectChangeEvent}
	if opts != nil && opts.GlobalChangeSubject != "" {
		p.prefix = opts.GlobalChangeSubject
	}
	return p
}

// PublishExecuted sends event on each of its subjects. A failed subject does
// not stop delivery on the others; the failures are joined.
func (p *CommsPublisher) PublishExecuted(_ context.Context, event *OperationExecutedEvent) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	header := comms.Header{}
	header.Set(HeaderOperation, event.Kind+":"+event.Key)
	if event.RequestID != "" {
		header.Set(HeaderRequestID, event.RequestID)
	}

	var errs []error
	for _, subject := range event.Subjects(p.prefix) {
		msg := &comms.Msg{Subject: subject, Header: header, Data: data}
		if err := p.nc.PublishMsg(msg); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, subject, err))
			errs = append(errs, fmt.Errorf("%s: %w", subject, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Debug(fmt.Sprintf("%s - Published change event for %s", commsPublisherLogPrefix, event.Key))
	return nil
}
