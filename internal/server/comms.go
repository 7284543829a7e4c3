package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/siyuan-bridge/pkg/commsutil"
	"github.com/morezero/siyuan-bridge/pkg/dispatcher"
)

// CodeInvalidRequest marks a COMMS message that is not a dispatch request.
const CodeInvalidRequest = "INVALID_REQUEST"

// dispatchHandler decodes each message as a dispatcher.Request, runs it under
// a per-message timeout derived from ctx and replies with the envelope.
func dispatchHandler(ctx context.Context, d *dispatcher.Dispatcher, timeout time.Duration) comms.MsgHandler {
	return func(msg *comms.Msg) {
		var req dispatcher.Request
		if err := commsutil.DecodePayload(msg.Data, &req); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode request on %s: %v", logPrefix, msg.Subject, err))
			reply(msg, &dispatcher.Envelope{
				Success: false,
				Error:   "Failed to decode request",
				Code:    CodeInvalidRequest,
			})
			return
		}

		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		reply(msg, d.Dispatch(reqCtx, &req))
	}
}

func reply(msg *comms.Msg, env *dispatcher.Envelope) {
	if err := commsutil.Reply(msg, env); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to reply on %s: %v", logPrefix, msg.Subject, err))
	}
}
