package channel

import (
	"testing"
	"time"

	"github.com/samthor/relay/format"
	"github.com/samthor/relay/transport"
)

func TestMuxRootRoundTrip(t *testing.T) {
	ctx := t.Context()
	a, b := transport.NewPair(ctx)

	regB := NewRegistry()
	mb := NewMux(b, format.JSON{}, regB)
	go mb.Run(ctx)

	ma := NewMux(a, format.JSON{}, NewRegistry())
	if err := ma.Send(RootSubID, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	rootEp, ok := regB.Claim(ctx, RootSubID)
	if !ok {
		t.Fatalf("expected to claim remote root row")
	}
	v, err := rootEp.Recv(ctx)
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	var got string
	if err := (format.JSON{}).Deserialize(ctx, v, &got); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
}

func TestMuxSubChannelRoundTrip(t *testing.T) {
	ctx := t.Context()
	a, b := transport.NewPair(ctx)

	regB := NewRegistry()
	mb := NewMux(b, format.JSON{}, regB)
	go mb.Run(ctx)

	ma := NewMux(a, format.JSON{}, NewRegistry())
	id, ep := ma.Allocate(ctx)

	if err := ep.Send(ctx, "child payload"); err != nil {
		t.Fatalf("send: %v", err)
	}

	// the remote side sees traffic addressed to the same SubID and can claim it on arrival
	// ("handle before data"): Route auto-creates the row before Claim ever runs.
	var got any
	for i := 0; i < 50 && regB.Len() == 0; i++ {
		time.Sleep(time.Millisecond)
	}
	remoteEp, ok := regB.Claim(ctx, id)
	if !ok {
		t.Fatalf("expected to claim mirrored id %d on remote side", id)
	}
	v, err := remoteEp.Recv(ctx)
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	got = v
	var s string
	if err := (format.JSON{}).Deserialize(ctx, got, &s); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if s != "child payload" {
		t.Fatalf("got %q, want %q", s, "child payload")
	}
}

func TestMuxStickyID(t *testing.T) {
	ctx := t.Context()
	a, _ := transport.NewPair(ctx)
	m := NewMux(a, format.JSON{}, NewRegistry())

	if err := m.Send(SubID(5), "one"); err != nil {
		t.Fatalf("send 1: %v", err)
	}
	if m.lastOutgoing != 5 {
		t.Fatalf("expected sticky id to latch to 5, got %d", m.lastOutgoing)
	}
	if err := m.Send(SubID(5), "two"); err != nil {
		t.Fatalf("send 2: %v", err)
	}
}

func TestMuxStop(t *testing.T) {
	ctx := t.Context()
	a, b := transport.NewPair(ctx)

	regB := NewRegistry()
	mb := NewMux(b, format.JSON{}, regB)
	go mb.Run(ctx)

	ma := NewMux(a, format.JSON{}, NewRegistry())
	id, _ := ma.Allocate(ctx)
	if err := ma.Send(id, "x"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := ma.SendStop(id, nil); err != nil {
		t.Fatalf("send stop: %v", err)
	}
}
