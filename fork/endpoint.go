package fork

import (
	"context"

	"github.com/samthor/relay/channel"
	"github.com/samthor/relay/format"
)

// Endpoint is the typed view of a sub-channel's raw channel.Endpoint. I is the single item type
// exchanged in both directions on this sub-channel — the Go-native collapse of the spec's
// separate DeconstructItem/ConstructItem pair into one symmetric type (see DESIGN.md).
type Endpoint[I any] struct {
	raw    channel.Endpoint
	format format.Format
}

func newEndpoint[I any](raw channel.Endpoint, f format.Format) *Endpoint[I] {
	return &Endpoint[I]{raw: raw, format: f}
}

// NewEndpoint wraps a raw channel.Endpoint as a typed Endpoint[I], for callers outside this
// package (director.Trivial, director.Null) that build their own channel.Endpoint rather than
// going through a Session's Mux.
func NewEndpoint[I any](raw channel.Endpoint, f format.Format) *Endpoint[I] {
	return newEndpoint[I](raw, f)
}

// Send encodes v with the session's Format and writes it addressed to this sub-channel.
func (e *Endpoint[I]) Send(ctx context.Context, v I) error {
	repr, err := e.format.Serialize(ctx, v)
	if err != nil {
		return err
	}
	return e.raw.Send(ctx, repr)
}

// Recv blocks for the next item routed to this sub-channel and decodes it into I.
func (e *Endpoint[I]) Recv(ctx context.Context) (I, error) {
	var zero I
	repr, err := e.raw.Recv(ctx)
	if err != nil {
		return zero, err
	}
	var v I
	if err := e.format.Deserialize(ctx, repr, &v); err != nil {
		return zero, err
	}
	return v, nil
}

// Context returns the sub-channel's lifetime context; it is done once the sub-channel tears down.
func (e *Endpoint[I]) Context() context.Context { return e.raw.Context() }
