package protocol

import (
	"testing"

	"github.com/samthor/relay/fork"
)

// TestOptionNone is scenario S2: unravel Option<u32> = None, coalesce yields None.
func TestOptionNone(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	pa := OptionProtocol[uint32, uint32]{Session: sa, Child: Scalar[uint32]{}}
	h, err := fork.Fork[Option[uint32], fork.Handle](ctx, sa, pa, None[uint32]())
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	pb := OptionProtocol[uint32, uint32]{Session: sb, Child: Scalar[uint32]{}}
	got, err := fork.GetFork[Option[uint32], fork.Handle](ctx, sb, pb, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if got.Valid {
		t.Fatalf("expected None, got Some(%v)", got.Value)
	}
}

// TestOptionSome is scenario S3: unravel Option<u32> = Some(7), coalesce yields Some(7).
func TestOptionSome(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	pa := OptionProtocol[uint32, uint32]{Session: sa, Child: Scalar[uint32]{}}
	h, err := fork.Fork[Option[uint32], fork.Handle](ctx, sa, pa, Some[uint32](7))
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	pb := OptionProtocol[uint32, uint32]{Session: sb, Child: Scalar[uint32]{}}
	got, err := fork.GetFork[Option[uint32], fork.Handle](ctx, sb, pb, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if !got.Valid || got.Value != 7 {
		t.Fatalf("got %+v, want Some(7)", got)
	}
}

// TestOptionNestedSome is scenario S6: unravel Option<Option<u32>> = Some(Some(5)), two nested
// forks, coalesce yields Some(Some(5)).
func TestOptionNestedSome(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	outerA := OptionProtocol[Option[uint32], fork.Handle]{
		Session: sa,
		Child:   OptionProtocol[uint32, uint32]{Session: sa, Child: Scalar[uint32]{}},
	}
	h, err := fork.Fork[Option[Option[uint32]], fork.Handle](ctx, sa, outerA, Some(Some[uint32](5)))
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	outerB := OptionProtocol[Option[uint32], fork.Handle]{
		Session: sb,
		Child:   OptionProtocol[uint32, uint32]{Session: sb, Child: Scalar[uint32]{}},
	}
	got, err := fork.GetFork[Option[Option[uint32]], fork.Handle](ctx, sb, outerB, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if !got.Valid || !got.Value.Valid || got.Value.Value != 5 {
		t.Fatalf("got %+v, want Some(Some(5))", got)
	}
}
