package channel

import (
	"context"

	"github.com/samthor/relay/format"
)

// Endpoint is the bidirectional typed pipe backing one sub-channel (spec §3): Send writes
// outbound traffic addressed to this SubID, Recv drains whatever the Mux has routed to it.
type Endpoint interface {
	Send(ctx context.Context, repr format.Representation) error
	Recv(ctx context.Context) (format.Representation, error)
	Context() context.Context
}
