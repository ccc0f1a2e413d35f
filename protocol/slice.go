package protocol

import (
	"context"
	"fmt"

	"github.com/samthor/relay/fork"
)

// SliceProtocol is the Protocol for []T: each element is forked as an independent sub-channel,
// and the parent carries only the resulting Handles, in order, as a single item (spec §4.6
// "Compound", same wire shape as Pair/Triple generalized to arbitrary length).
type SliceProtocol[T any, I any] struct {
	Session *fork.Session
	Child   fork.Protocol[T, I]
}

func (p SliceProtocol[T, I]) Unravel(ctx context.Context, value []T, ep *fork.Endpoint[[]fork.Handle]) error {
	handles := make([]fork.Handle, len(value))
	for i, v := range value {
		h, err := fork.Fork[T, I](ctx, p.Session, p.Child, v)
		if err != nil {
			return err
		}
		handles[i] = h
	}
	return ep.Send(ctx, handles)
}

func (p SliceProtocol[T, I]) Coalesce(ctx context.Context, ep *fork.Endpoint[[]fork.Handle]) ([]T, error) {
	handles, err := ep.Recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	out := make([]T, len(handles))
	for i, h := range handles {
		v, err := fork.GetFork[T, I](ctx, p.Session, p.Child, h)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
