// Package client implements the statement-execution core of the driver: the
// parameter binding model, the server-side statement cache, the
// extended-query message flow, and the statement executor that turns one
// Execute call into a stream of per-binding results.
//
// The raw transport is an external collaborator. Anything that opens
// sockets, negotiates TLS, or deframes bytes into backend messages lives
// behind the Client interface.
package client

import (
	"context"

	"github.com/featherdb/pgdriver/protocol"
)

// Client is the connection collaborator consumed by this package. Send
// transmits outbound frames in order; Receive pulls the next deframed
// backend message. The inbound sequence is correlated to the connection, not
// to a statement: correlation is achieved structurally by the bounded frame
// sequences this package emits and the control markers it windows on.
type Client interface {
	// Send transmits the given frames to the server.
	Send(ctx context.Context, msgs ...protocol.FrontendMessage) error

	// Receive returns the next backend message. It blocks until a message
	// is available, the context is done, or the connection fails.
	Receive(ctx context.Context) (protocol.BackendMessage, error)
}
