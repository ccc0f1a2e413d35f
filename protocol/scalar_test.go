package protocol

import (
	"context"
	"testing"

	"github.com/samthor/relay/fork"
)

// TestScalarRoundTrip is scenario S1: unravel u32 = 42, coalesce yields 42.
func TestScalarRoundTrip(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	var p Scalar[uint32]
	h, err := fork.Fork[uint32, uint32](ctx, sa, p, 42)
	if err != nil {
		t.Fatalf("fork: %v", err)
	}
	got, err := fork.GetFork[uint32, uint32](ctx, sb, p, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestScalarInsufficientOnClosedChannel(t *testing.T) {
	sa, _ := newSessionPair(t)
	ctx, cancel := context.WithCancel(t.Context())

	epA, err := fork.Root[string](ctx, sa)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	cancel()

	var p Scalar[string]
	if _, err := p.Coalesce(ctx, epA); err == nil {
		t.Fatalf("expected error coalescing from a cancelled sub-channel")
	}
}
