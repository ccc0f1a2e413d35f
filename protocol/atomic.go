package protocol

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/samthor/relay/fork"
)

// AtomicInt32 carries an *atomic.Int32 by its current snapshot value; the peer reconstructs a
// fresh atomic cell seeded with it. Atomics never travel by reference across a sub-channel — only
// their value does.
type AtomicInt32 struct{}

func (AtomicInt32) Unravel(ctx context.Context, value *atomic.Int32, ep *fork.Endpoint[int32]) error {
	return ep.Send(ctx, value.Load())
}

func (AtomicInt32) Coalesce(ctx context.Context, ep *fork.Endpoint[int32]) (*atomic.Int32, error) {
	v, err := ep.Recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	a := &atomic.Int32{}
	a.Store(v)
	return a, nil
}

// AtomicInt64 is AtomicInt32's 64-bit counterpart.
type AtomicInt64 struct{}

func (AtomicInt64) Unravel(ctx context.Context, value *atomic.Int64, ep *fork.Endpoint[int64]) error {
	return ep.Send(ctx, value.Load())
}

func (AtomicInt64) Coalesce(ctx context.Context, ep *fork.Endpoint[int64]) (*atomic.Int64, error) {
	v, err := ep.Recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	a := &atomic.Int64{}
	a.Store(v)
	return a, nil
}

// AtomicBool is AtomicInt32's boolean counterpart.
type AtomicBool struct{}

func (AtomicBool) Unravel(ctx context.Context, value *atomic.Bool, ep *fork.Endpoint[bool]) error {
	return ep.Send(ctx, value.Load())
}

func (AtomicBool) Coalesce(ctx context.Context, ep *fork.Endpoint[bool]) (*atomic.Bool, error) {
	v, err := ep.Recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	a := &atomic.Bool{}
	a.Store(v)
	return a, nil
}
