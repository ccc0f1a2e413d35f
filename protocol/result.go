package protocol

import (
	"context"
	"fmt"

	"github.com/samthor/relay/fork"
)

// Result mirrors Rust's Result<T, E>: exactly one of OkValue/ErrValue is meaningful, selected by IsOk.
type Result[T, E any] struct {
	OkValue  T
	ErrValue E
	IsOk     bool
}

// Ok builds a successful Result.
func Ok[T, E any](v T) Result[T, E] { return Result[T, E]{OkValue: v, IsOk: true} }

// Err builds a failed Result.
func Err[T, E any](e E) Result[T, E] { return Result[T, E]{ErrValue: e} }

// resultItem tags which side was forked alongside its Handle, sent as a single item on the
// parent sub-channel — the Go-native equivalent of the spec's "single leading discriminant" note.
type resultItem struct {
	Ok     bool
	Handle fork.Handle
}

// ResultProtocol is the Protocol for Result[T, E]: it forks exactly one child, the Ok payload or
// the Err payload, and tags which one it was (spec §9 open question about the sibling of Option).
type ResultProtocol[T, E any, OI, EI any] struct {
	Session  *fork.Session
	OkChild  fork.Protocol[T, OI]
	ErrChild fork.Protocol[E, EI]
}

func (p ResultProtocol[T, E, OI, EI]) Unravel(ctx context.Context, value Result[T, E], ep *fork.Endpoint[resultItem]) error {
	if value.IsOk {
		h, err := fork.Fork[T, OI](ctx, p.Session, p.OkChild, value.OkValue)
		if err != nil {
			return err
		}
		return ep.Send(ctx, resultItem{Ok: true, Handle: h})
	}
	h, err := fork.Fork[E, EI](ctx, p.Session, p.ErrChild, value.ErrValue)
	if err != nil {
		return err
	}
	return ep.Send(ctx, resultItem{Ok: false, Handle: h})
}

func (p ResultProtocol[T, E, OI, EI]) Coalesce(ctx context.Context, ep *fork.Endpoint[resultItem]) (Result[T, E], error) {
	item, err := ep.Recv(ctx)
	if err != nil {
		return Result[T, E]{}, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	if item.Ok {
		v, err := fork.GetFork[T, OI](ctx, p.Session, p.OkChild, item.Handle)
		if err != nil {
			return Result[T, E]{}, err
		}
		return Ok[T, E](v), nil
	}
	e, err := fork.GetFork[E, EI](ctx, p.Session, p.ErrChild, item.Handle)
	if err != nil {
		return Result[T, E]{}, err
	}
	return Err[T, E](e), nil
}
