package protocol

import (
	"context"

	"github.com/samthor/relay/fork"
)

// Unit is the wire-visible nothing exchanged by unit-like protocols.
type Unit struct{}

// UnitProtocol handles any unit-like V (struct{}, [0]T, a phantom marker type): both halves are
// immediate successes and nothing is exchanged on the wire (spec §4.6).
type UnitProtocol[V any] struct{}

func (UnitProtocol[V]) Unravel(ctx context.Context, value V, ep *fork.Endpoint[Unit]) error {
	return nil
}

func (UnitProtocol[V]) Coalesce(ctx context.Context, ep *fork.Endpoint[Unit]) (V, error) {
	var zero V
	return zero, nil
}
