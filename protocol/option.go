package protocol

import (
	"context"
	"errors"

	"github.com/samthor/relay/channel"
	"github.com/samthor/relay/fork"
)

// Option mirrors Rust's Option<T>: Some carries a value, None carries nothing.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some builds a present Option.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Valid: true} }

// None builds an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// OptionProtocol is the Protocol for Option[T] (spec §4.6): if Some(v), it forks v as a child and
// sends its Handle exactly once; if None, it sends nothing. Coalesce awaits at most one item: none
// ever arriving — signalled by the sub-channel closing with channel.ErrRemoteStop, the cause Fork
// always records once Unravel returns without error — means None.
type OptionProtocol[T any, I any] struct {
	Session *fork.Session
	Child   fork.Protocol[T, I]
}

func (p OptionProtocol[T, I]) Unravel(ctx context.Context, value Option[T], ep *fork.Endpoint[fork.Handle]) error {
	if !value.Valid {
		return nil
	}
	h, err := fork.Fork[T, I](ctx, p.Session, p.Child, value.Value)
	if err != nil {
		return err
	}
	return ep.Send(ctx, h)
}

func (p OptionProtocol[T, I]) Coalesce(ctx context.Context, ep *fork.Endpoint[fork.Handle]) (Option[T], error) {
	h, err := ep.Recv(ctx)
	if err != nil {
		if errors.Is(err, channel.ErrRemoteStop) {
			return None[T](), nil
		}
		return None[T](), err
	}
	v, err := fork.GetFork[T, I](ctx, p.Session, p.Child, h)
	if err != nil {
		return None[T](), err
	}
	return Some(v), nil
}
