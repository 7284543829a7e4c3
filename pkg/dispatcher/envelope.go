// Package dispatcher resolves, validates and executes registered operations and wraps every outcome in an envelope.
package dispatcher

import (
	"encoding/json"

	"github.com/morezero/siyuan-bridge/pkg/schema"
)

// Error codes carried by failed envelopes.
const (
	CodeUnknownOperation = "UNKNOWN_OPERATION"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeHandlerError     = "HANDLER_ERROR"
)

// Request is the JSON envelope for incoming dispatch requests.
type Request struct {
	ID     string                 `json:"id,omitempty"`
	Kind   string                 `json:"kind"`
	Key    string                 `json:"key"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// Envelope is the uniform result of a dispatch. Data is meaningful only when
// Success is true and Error only when it is false.
type Envelope struct {
	ID      string         `json:"id,omitempty"`
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
	Issues  []schema.Issue `json:"issues,omitempty"`
}

// MarshalJSON always writes data on success, as null when the handler
// returned nothing, and never on failure.
func (e Envelope) MarshalJSON() ([]byte, error) {
	type plain Envelope
	if !e.Success {
		return json.Marshal(plain(e))
	}
	return json.Marshal(struct {
		plain
		Data interface{} `json:"data"`
	}{plain: plain(e), Data: e.Data})
}
