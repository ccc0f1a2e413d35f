package protocol

import (
	"testing"

	"github.com/samthor/relay/fork"
)

func TestResultOk(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	pa := ResultProtocol[uint32, string, uint32, string]{Session: sa, OkChild: Scalar[uint32]{}, ErrChild: Scalar[string]{}}
	h, err := fork.Fork[Result[uint32, string], resultItem](ctx, sa, pa, Ok[uint32, string](5))
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	pb := ResultProtocol[uint32, string, uint32, string]{Session: sb, OkChild: Scalar[uint32]{}, ErrChild: Scalar[string]{}}
	got, err := fork.GetFork[Result[uint32, string], resultItem](ctx, sb, pb, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if !got.IsOk || got.OkValue != 5 {
		t.Fatalf("got %+v, want Ok(5)", got)
	}
}

func TestResultErr(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	pa := ResultProtocol[uint32, string, uint32, string]{Session: sa, OkChild: Scalar[uint32]{}, ErrChild: Scalar[string]{}}
	h, err := fork.Fork[Result[uint32, string], resultItem](ctx, sa, pa, Err[uint32, string]("boom"))
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	pb := ResultProtocol[uint32, string, uint32, string]{Session: sb, OkChild: Scalar[uint32]{}, ErrChild: Scalar[string]{}}
	got, err := fork.GetFork[Result[uint32, string], resultItem](ctx, sb, pb, h)
	if err != nil {
		t.Fatalf("get fork: %v", err)
	}
	if got.IsOk || got.ErrValue != "boom" {
		t.Fatalf("got %+v, want Err(boom)", got)
	}
}
