package protocol

import (
	"context"
	"fmt"

	"github.com/samthor/relay/fork"
)

// Scalar is the ground case of recursion (spec §4.6): it unravels a flat value as exactly one
// item of its own type, and coalesces by reading exactly one item, failing ErrInsufficient if the
// sub-channel closed empty. It is the Protocol for every flat scalar this repo carries natively —
// bool, every int/uint/float width, string, time.Duration — since all of them round-trip through
// format.JSON without help.
type Scalar[T any] struct{}

func (Scalar[T]) Unravel(ctx context.Context, value T, ep *fork.Endpoint[T]) error {
	return ep.Send(ctx, value)
}

func (Scalar[T]) Coalesce(ctx context.Context, ep *fork.Endpoint[T]) (T, error) {
	v, err := ep.Recv(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	return v, nil
}
