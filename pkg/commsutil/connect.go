// Package commsutil provides COMMS (NATS) connection helpers, subjects and payload codecs for the bridge.
package commsutil

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	comms "github.com/nats-io/nats.go"
)

const logPrefix = "commsutil:connect"

// DefaultOptions are the connection options used by Connect: client name,
// a 10s dial timeout and two minutes of reconnect attempts, with every
// connection state change logged.
func DefaultOptions(name string) []comms.Option {
	return []comms.Option{
		comms.Name(name),
		comms.Timeout(10 * time.Second),
		comms.ReconnectWait(2 * time.Second),
		comms.MaxReconnects(60),
		comms.DisconnectErrHandler(func(_ *comms.Conn, err error) {
			if err != nil {
				slog.Warn(fmt.Sprintf("%s - COMMS disconnected: %v", logPrefix, err))
			}
		}),
		comms.ReconnectHandler(func(nc *comms.Conn) {
			slog.Info(fmt.Sprintf("%s - COMMS reconnected to %s", logPrefix, Redact(nc.ConnectedUrl())))
		}),
		comms.ClosedHandler(func(_ *comms.Conn) {
			slog.Info(fmt.Sprintf("%s - COMMS connection closed", logPrefix))
		}),
		comms.ErrorHandler(func(_ *comms.Conn, sub *comms.Subscription, err error) {
			if sub != nil {
				slog.Error(fmt.Sprintf("%s - COMMS error on %s: %v", logPrefix, sub.Subject, err))
				return
			}
			slog.Error(fmt.Sprintf("%s - COMMS error: %v", logPrefix, err))
		}),
	}
}

// Connect dials rawURL identified as name. extra is applied after
// DefaultOptions and wins over it.
func Connect(rawURL, name string, extra ...comms.Option) (*comms.Conn, error) {
	safe := Redact(rawURL)
	slog.Info(fmt.Sprintf("%s - Connecting to COMMS at %s as %s", logPrefix, safe, name))

	nc, err := comms.Connect(rawURL, append(DefaultOptions(name), extra...)...)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to connect to COMMS at %s: %w", logPrefix, safe, err)
	}

	slog.Info(fmt.Sprintf("%s - Connected to COMMS at %s", logPrefix, Redact(nc.ConnectedUrl())))
	return nc, nil
}

// Redact hides the password or token in a server URL for logging. Lists of
// URLs and unparsable input are returned unchanged.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	} else {
		u.User = url.User("xxxxx")
	}
	return u.String()
}
