package channel

import (
	"context"
	"fmt"

	"github.com/samthor/relay/format"
	"github.com/samthor/relay/transport"
)

// DirectEndpoint adapts a transport.Transport directly into an Endpoint with no SubID framing at
// all, backed by transport.NewTyped: every Send/Recv is just one typed Write/Read on the
// underlying connection. This is the carrier for director.Trivial, used when the transport already
// exchanges one pre-typed channel's worth of traffic (spec §4.7 "the transport already provides a
// pre-typed typed channel").
type DirectEndpoint struct {
	ctx context.Context
	tt  transport.TypeTransport[format.Representation]
}

// NewDirectEndpoint wraps tr as a single-channel Endpoint with no multiplexing.
func NewDirectEndpoint(ctx context.Context, tr transport.Transport) *DirectEndpoint {
	return &DirectEndpoint{ctx: ctx, tt: transport.NewTyped[format.Representation](tr)}
}

func (e *DirectEndpoint) Context() context.Context { return e.ctx }

func (e *DirectEndpoint) Send(ctx context.Context, repr format.Representation) error {
	return e.tt.Write(repr)
}

func (e *DirectEndpoint) Recv(ctx context.Context) (format.Representation, error) {
	return e.tt.Read()
}

// BottomEndpoint is the uninhabited Endpoint backing director.Null: both ends agree nothing is
// ever exchanged (spec's Bottom type), so Send/Recv are program errors if ever reached.
type BottomEndpoint struct {
	ctx context.Context
}

// NewBottomEndpoint returns an Endpoint whose Send/Recv must never be called.
func NewBottomEndpoint(ctx context.Context) *BottomEndpoint {
	return &BottomEndpoint{ctx: ctx}
}

func (e *BottomEndpoint) Context() context.Context { return e.ctx }

func (e *BottomEndpoint) Send(ctx context.Context, repr format.Representation) error {
	panic(fmt.Sprintf("channel: bottom endpoint sent %T, but nothing may ever be exchanged", repr))
}

func (e *BottomEndpoint) Recv(ctx context.Context) (format.Representation, error) {
	panic("channel: bottom endpoint received on, but nothing may ever be exchanged")
}
