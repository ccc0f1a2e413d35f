// Package director binds a Protocol to a Format and a Transport, producing the top-level unravel
// and coalesce operations a caller actually runs (spec C7). Three strategies are provided; the
// core decides which fits by the shape of the transport, not by configuration.
package director

import (
	"context"

	"github.com/samthor/relay/channel"
	"github.com/samthor/relay/fork"
	"github.com/samthor/relay/format"
	"github.com/samthor/relay/transport"
)

// NewProtocol builds the Protocol a Director drives, given the fork.Session the Director
// bootstrapped over its transport. Composite protocols (Option, Result, tuples, slices, maps)
// carry a *fork.Session field so they can fork children of their own; NewProtocol is how a
// Director hands that Session to them before any traffic flows. Protocols that never fork (Scalar,
// Unit) can ignore the argument. Null and Trivial never build a Session and always pass nil.
type NewProtocol[V any, I any] func(s *fork.Session) fork.Protocol[V, I]

// Director binds a fork.Protocol[V, I] to a carrier built from a Transport, producing the pair of
// top-level operations named in spec §4.7.
type Director[V any, I any] interface {
	// Unravel decomposes value onto tr and blocks until the decomposition completes.
	Unravel(ctx context.Context, newProtocol NewProtocol[V, I], value V, tr transport.Transport) error

	// Coalesce reconstructs a V from tr and blocks until it is fully assembled.
	Coalesce(ctx context.Context, newProtocol NewProtocol[V, I], tr transport.Transport) (V, error)
}

// Null is the Director for protocols whose Unravel/Coalesce never touch their Endpoint at all —
// the uninhabited Bottom case that terminates recursion on unit-like types (spec §4.7). Reaching
// its Endpoint's Send or Recv is a program error and panics. I is left generic (rather than fixed
// to format.Representation) purely so callers can reuse their ordinary Protocol[V, I] value,
// e.g. protocol.UnitProtocol[V] with I = protocol.Unit, unchanged.
type Null[V any, I any] struct{}

func (Null[V, I]) Unravel(ctx context.Context, newProtocol NewProtocol[V, I], value V, tr transport.Transport) error {
	ep := fork.NewEndpoint[I](channel.NewBottomEndpoint(ctx), format.Bottom{})
	return newProtocol(nil).Unravel(ctx, value, ep)
}

func (Null[V, I]) Coalesce(ctx context.Context, newProtocol NewProtocol[V, I], tr transport.Transport) (V, error) {
	ep := fork.NewEndpoint[I](channel.NewBottomEndpoint(ctx), format.Bottom{})
	return newProtocol(nil).Coalesce(ctx, ep)
}

// Trivial passes tr through as a single unframed channel: no SubID multiplexing, no registry, and
// no Format translation beyond the identity (format.Null). Appropriate when tr already carries
// exactly one Protocol's worth of pre-typed traffic, e.g. a transport.NewPair pair shared by two
// in-process peers that agree on I out of band (spec §4.7).
type Trivial[V any, I any] struct{}

func (Trivial[V, I]) Unravel(ctx context.Context, newProtocol NewProtocol[V, I], value V, tr transport.Transport) error {
	ep := fork.NewEndpoint[I](channel.NewDirectEndpoint(ctx, tr), format.Null{})
	return newProtocol(nil).Unravel(ctx, value, ep)
}

func (Trivial[V, I]) Coalesce(ctx context.Context, newProtocol NewProtocol[V, I], tr transport.Transport) (V, error) {
	ep := fork.NewEndpoint[I](channel.NewDirectEndpoint(ctx, tr), format.Null{})
	return newProtocol(nil).Coalesce(ctx, ep)
}

// Multiplexed is the default Director (implicit in the fork fabric, spec §4.7): it bootstraps a
// full fork.Session over tr, starts the Mux's read loop, and drives the protocol against the
// reserved root sub-channel, so it is free to fork children of its own via the same Session
// exactly as any nested Protocol would (spec §4.5).
type Multiplexed[V any, I any] struct {
	// Format is the wire codec the session encodes every sub-channel with. Defaults to format.JSON
	// if left zero.
	Format format.Format
}

func (m Multiplexed[V, I]) format() format.Format {
	if m.Format != nil {
		return m.Format
	}
	return format.JSON{}
}

func (m Multiplexed[V, I]) Unravel(ctx context.Context, newProtocol NewProtocol[V, I], value V, tr transport.Transport) error {
	s := fork.NewSession(ctx, tr, m.format())
	go s.Mux().Run(ctx)

	ep, err := fork.Root[I](ctx, s)
	if err != nil {
		return err
	}

	p := newProtocol(s)
	err = p.Unravel(ep.Context(), value, ep)
	s.Mux().Registry().Deregister(channel.RootSubID, err)
	_ = s.Mux().SendStop(channel.RootSubID, err)
	return err
}

func (m Multiplexed[V, I]) Coalesce(ctx context.Context, newProtocol NewProtocol[V, I], tr transport.Transport) (V, error) {
	var zero V

	s := fork.NewSession(ctx, tr, m.format())
	go s.Mux().Run(ctx)

	ep, err := fork.Root[I](ctx, s)
	if err != nil {
		return zero, err
	}

	p := newProtocol(s)
	v, err := p.Coalesce(ep.Context(), ep)
	s.Mux().Registry().Deregister(channel.RootSubID, err)
	_ = s.Mux().SendStop(channel.RootSubID, err)
	return v, err
}
