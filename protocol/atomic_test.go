package protocol

import (
	"sync/atomic"
	"testing"

	"github.com/samthor/relay/fork"
)

func TestAtomicInt32RoundTrip(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	src := &atomic.Int32{}
	src.Store(42)

	var pa AtomicInt32
	h, err := fork.Fork[*atomic.Int32, int32](ctx, sa, pa, src)
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	var pb AtomicInt32
	got, err := fork.GetFork[*atomic.Int32, int32](ctx, sb, pb, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if got.Load() != 42 {
		t.Fatalf("got %d, want 42", got.Load())
	}
}

func TestAtomicInt64RoundTrip(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	src := &atomic.Int64{}
	src.Store(-7)

	var pa AtomicInt64
	h, err := fork.Fork[*atomic.Int64, int64](ctx, sa, pa, src)
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	var pb AtomicInt64
	got, err := fork.GetFork[*atomic.Int64, int64](ctx, sb, pb, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if got.Load() != -7 {
		t.Fatalf("got %d, want -7", got.Load())
	}
}

func TestAtomicBoolRoundTrip(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	src := &atomic.Bool{}
	src.Store(true)

	var pa AtomicBool
	h, err := fork.Fork[*atomic.Bool, bool](ctx, sa, pa, src)
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	var pb AtomicBool
	got, err := fork.GetFork[*atomic.Bool, bool](ctx, sb, pb, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if !got.Load() {
		t.Fatalf("got false, want true")
	}
}
