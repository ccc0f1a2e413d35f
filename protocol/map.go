package protocol

import (
	"context"
	"fmt"

	"github.com/samthor/relay/fork"
)

// mapEntry pairs a forked key Handle with a forked value Handle.
type mapEntry struct {
	Key fork.Handle
	Val fork.Handle
}

// MapProtocol is the Protocol for map[K]V: both the key and the value of each entry are forked as
// independent sub-channels, and the parent carries the resulting (key handle, value handle) pairs
// as a single item (spec §4.6 "Compound").
type MapProtocol[K comparable, V any, KI, VI any] struct {
	Session  *fork.Session
	KeyChild fork.Protocol[K, KI]
	ValChild fork.Protocol[V, VI]
}

func (p MapProtocol[K, V, KI, VI]) Unravel(ctx context.Context, value map[K]V, ep *fork.Endpoint[[]mapEntry]) error {
	entries := make([]mapEntry, 0, len(value))
	for k, v := range value {
		hk, err := fork.Fork[K, KI](ctx, p.Session, p.KeyChild, k)
		if err != nil {
			return err
		}
		hv, err := fork.Fork[V, VI](ctx, p.Session, p.ValChild, v)
		if err != nil {
			return err
		}
		entries = append(entries, mapEntry{Key: hk, Val: hv})
	}
	return ep.Send(ctx, entries)
}

func (p MapProtocol[K, V, KI, VI]) Coalesce(ctx context.Context, ep *fork.Endpoint[[]mapEntry]) (map[K]V, error) {
	entries, err := ep.Recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	out := make(map[K]V, len(entries))
	for _, e := range entries {
		k, err := fork.GetFork[K, KI](ctx, p.Session, p.KeyChild, e.Key)
		if err != nil {
			return nil, err
		}
		v, err := fork.GetFork[V, VI](ctx, p.Session, p.ValChild, e.Val)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
