package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/samthor/relay/fork"
)

// ErrZeroValue is returned by NonZero.Coalesce when the peer sent the zero value of T.
var ErrZeroValue = errors.New("protocol: non-zero value carried a zero value")

// NonZero wraps a comparable T that is guaranteed, once coalesced, never to be the zero value.
type NonZero[T comparable] struct {
	Value T
}

// NonZeroScalar is the Protocol for NonZero[T]: it unravels like Scalar[T] but Coalesce rejects a
// received zero value with ErrZeroValue instead of returning it.
type NonZeroScalar[T comparable] struct{}

func (NonZeroScalar[T]) Unravel(ctx context.Context, value NonZero[T], ep *fork.Endpoint[T]) error {
	return ep.Send(ctx, value.Value)
}

func (NonZeroScalar[T]) Coalesce(ctx context.Context, ep *fork.Endpoint[T]) (NonZero[T], error) {
	v, err := ep.Recv(ctx)
	if err != nil {
		return NonZero[T]{}, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	var zero T
	if v == zero {
		return NonZero[T]{}, ErrZeroValue
	}
	return NonZero[T]{Value: v}, nil
}
