// Package transport deals with packet-like connections between endpoints.
// It includes helpers to create them from sockets or as derived concepts.
package transport

import (
	"context"
)

// Transport is a framed, bidirectional connection that exchanges one JSON-shaped value per message.
// Implementations guarantee in-order, lossless delivery per direction; errors are fatal to the connection.
type Transport interface {
	// Context returns a context which is Done when the underlying connection has closed.
	Context() context.Context

	// ReadJSON reads the next message available into the given target, e.g., by decoding.
	ReadJSON(v any) error

	// WriteJSON sends the given message.
	WriteJSON(v any) error
}

// Handler is invoked once per established Transport. The connection is closed when it returns.
type Handler func(Transport) error
