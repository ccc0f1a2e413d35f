package protocol

import (
	"context"

	"github.com/samthor/relay/fork"
)

// Stream is a unidirectional flow of T values, grounded on original_source/examples/sink.rs (spec
// S5): the unravel side pushes values as they become available rather than unraveling one
// composite value. Values is closed by the unravel side once the stream is done.
type Stream[T any] struct {
	Values <-chan T
}

// StreamProtocol is the Protocol for Stream[T]: Unravel forwards every value off Values onto the
// sub-channel as its own item until Values closes; Coalesce is a goroutine that reads items off
// the sub-channel and republishes them on a channel the caller can range over.
type StreamProtocol[T any] struct{}

func (StreamProtocol[T]) Unravel(ctx context.Context, value Stream[T], ep *fork.Endpoint[T]) error {
	for {
		select {
		case v, ok := <-value.Values:
			if !ok {
				return nil
			}
			if err := ep.Send(ctx, v); err != nil {
				return err
			}
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
}

func (StreamProtocol[T]) Coalesce(ctx context.Context, ep *fork.Endpoint[T]) (Stream[T], error) {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			v, err := ep.Recv(ctx)
			if err != nil {
				return
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return Stream[T]{Values: out}, nil
}
