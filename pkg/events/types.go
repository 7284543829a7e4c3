// Package events defines the events emitted after operations run and the publishers that deliver them.
package events

import (
	"time"

	"github.com/morezero/siyuan-bridge/pkg/commsutil"
)

// OperationExecutedEvent is emitted after a command completes successfully.
type OperationExecutedEvent struct {
	Kind      string `json:"kind"`
	Key       string `json:"key"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	// RequestID is the caller supplied request id, when there is one.
	RequestID string `json:"requestId,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewOperationExecuted builds the event for namespace.name run at at.
func NewOperationExecuted(kind, namespace, name, requestID string, at time.Time) *OperationExecutedEvent {
	return &OperationExecutedEvent{
		Kind:      kind,
		Key:       namespace + "." + name,
		Namespace: namespace,
		Name:      name,
		RequestID: requestID,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// Subjects returns the subjects the event is delivered on: the granular
// <prefix>.<namespace>.<name> subject first, then prefix itself.
func (e *OperationExecutedEvent) Subjects(prefix string) []string {
	if prefix == "" {
		prefix = commsutil.SubjectChangeEvent
	}
	return []string{commsutil.BuildChangeSubject(prefix, e.Namespace, e.Name), prefix}
}
