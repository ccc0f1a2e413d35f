package protocol

import (
	"context"
	"fmt"

	"github.com/samthor/relay/fork"
)

// Pair mirrors Rust's (A, B). Go has no variadic generics, so each arity gets its own named type;
// this repo carries Pair and Triple, the arities exercised by its tests and scenarios — higher
// arities follow the identical mechanical pattern (see DESIGN.md).
type Pair[A, B any] struct {
	First  A
	Second B
}

// pairItem carries every child Handle as one item on the parent sub-channel (spec S4): a single
// JSON object holding both handles, not one item per handle.
type pairItem struct {
	First  fork.Handle
	Second fork.Handle
}

// PairProtocol is the Protocol for Pair[A, B]: each component is forked as an independent child,
// and the parent carries only the resulting Handles (spec §4.6 "Compound").
type PairProtocol[A, B any, AI, BI any] struct {
	Session *fork.Session
	First   fork.Protocol[A, AI]
	Second  fork.Protocol[B, BI]
}

func (p PairProtocol[A, B, AI, BI]) Unravel(ctx context.Context, value Pair[A, B], ep *fork.Endpoint[pairItem]) error {
	h1, err := fork.Fork[A, AI](ctx, p.Session, p.First, value.First)
	if err != nil {
		return err
	}
	h2, err := fork.Fork[B, BI](ctx, p.Session, p.Second, value.Second)
	if err != nil {
		return err
	}
	return ep.Send(ctx, pairItem{First: h1, Second: h2})
}

func (p PairProtocol[A, B, AI, BI]) Coalesce(ctx context.Context, ep *fork.Endpoint[pairItem]) (Pair[A, B], error) {
	item, err := ep.Recv(ctx)
	if err != nil {
		return Pair[A, B]{}, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	a, err := fork.GetFork[A, AI](ctx, p.Session, p.First, item.First)
	if err != nil {
		return Pair[A, B]{}, err
	}
	b, err := fork.GetFork[B, BI](ctx, p.Session, p.Second, item.Second)
	if err != nil {
		return Pair[A, B]{}, err
	}
	return Pair[A, B]{First: a, Second: b}, nil
}

// Triple mirrors Rust's (A, B, C).
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

type tripleItem struct {
	First  fork.Handle
	Second fork.Handle
	Third  fork.Handle
}

// TripleProtocol is the Protocol for Triple[A, B, C], following PairProtocol's pattern.
type TripleProtocol[A, B, C any, AI, BI, CI any] struct {
	Session *fork.Session
	First   fork.Protocol[A, AI]
	Second  fork.Protocol[B, BI]
	Third   fork.Protocol[C, CI]
}

func (p TripleProtocol[A, B, C, AI, BI, CI]) Unravel(ctx context.Context, value Triple[A, B, C], ep *fork.Endpoint[tripleItem]) error {
	h1, err := fork.Fork[A, AI](ctx, p.Session, p.First, value.First)
	if err != nil {
		return err
	}
	h2, err := fork.Fork[B, BI](ctx, p.Session, p.Second, value.Second)
	if err != nil {
		return err
	}
	h3, err := fork.Fork[C, CI](ctx, p.Session, p.Third, value.Third)
	if err != nil {
		return err
	}
	return ep.Send(ctx, tripleItem{First: h1, Second: h2, Third: h3})
}

func (p TripleProtocol[A, B, C, AI, BI, CI]) Coalesce(ctx context.Context, ep *fork.Endpoint[tripleItem]) (Triple[A, B, C], error) {
	item, err := ep.Recv(ctx)
	if err != nil {
		return Triple[A, B, C]{}, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	a, err := fork.GetFork[A, AI](ctx, p.Session, p.First, item.First)
	if err != nil {
		return Triple[A, B, C]{}, err
	}
	b, err := fork.GetFork[B, BI](ctx, p.Session, p.Second, item.Second)
	if err != nil {
		return Triple[A, B, C]{}, err
	}
	c, err := fork.GetFork[C, CI](ctx, p.Session, p.Third, item.Third)
	if err != nil {
		return Triple[A, B, C]{}, err
	}
	return Triple[A, B, C]{First: a, Second: b, Third: c}, nil
}
