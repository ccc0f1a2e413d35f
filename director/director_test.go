package director_test

import (
	"testing"

	"github.com/samthor/relay/director"
	"github.com/samthor/relay/fork"
	"github.com/samthor/relay/protocol"
	"github.com/samthor/relay/transport"
)

func scalarProtocol[T any](*fork.Session) fork.Protocol[T, T] { return protocol.Scalar[T]{} }

func unitProtocol(*fork.Session) fork.Protocol[struct{}, protocol.Unit] {
	return protocol.UnitProtocol[struct{}]{}
}

func TestMultiplexedScalarRoundTrip(t *testing.T) {
	ctx := t.Context()
	ta, tb := transport.NewPair(ctx)

	var d director.Multiplexed[uint32, uint32]

	errCh := make(chan error, 1)
	go func() { errCh <- d.Unravel(ctx, scalarProtocol[uint32], uint32(42), ta) }()

	got, err := d.Coalesce(ctx, scalarProtocol[uint32], tb)
	if err != nil {
		t.Fatalf("coalesce: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("unravel: %v", err)
	}
}

// TestMultiplexedOptionRoundTrip exercises a root protocol that itself forks a child sub-channel,
// proving Director.Multiplexed composes with the fork machinery rather than just carrying flat
// scalars.
func TestMultiplexedOptionRoundTrip(t *testing.T) {
	ctx := t.Context()
	ta, tb := transport.NewPair(ctx)

	newOption := func(s *fork.Session) fork.Protocol[protocol.Option[uint32], fork.Handle] {
		return protocol.OptionProtocol[uint32, uint32]{Session: s, Child: protocol.Scalar[uint32]{}}
	}

	var d director.Multiplexed[protocol.Option[uint32], fork.Handle]

	errCh := make(chan error, 1)
	go func() { errCh <- d.Unravel(ctx, newOption, protocol.Some[uint32](7), ta) }()

	got, err := d.Coalesce(ctx, newOption, tb)
	if err != nil {
		t.Fatalf("coalesce: %v", err)
	}
	if !got.Valid || got.Value != 7 {
		t.Fatalf("got %+v, want Some(7)", got)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("unravel: %v", err)
	}
}

func TestTrivialScalarRoundTrip(t *testing.T) {
	ctx := t.Context()
	ta, tb := transport.NewPair(ctx)

	var d director.Trivial[string, string]

	errCh := make(chan error, 1)
	go func() { errCh <- d.Unravel(ctx, scalarProtocol[string], "hello", ta) }()

	got, err := d.Coalesce(ctx, scalarProtocol[string], tb)
	if err != nil {
		t.Fatalf("coalesce: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("unravel: %v", err)
	}
}

func TestNullUnit(t *testing.T) {
	ctx := t.Context()
	ta, _ := transport.NewPair(ctx)

	var d director.Null[struct{}, protocol.Unit]

	if err := d.Unravel(ctx, unitProtocol, struct{}{}, ta); err != nil {
		t.Fatalf("unravel: %v", err)
	}
	if _, err := d.Coalesce(ctx, unitProtocol, ta); err != nil {
		t.Fatalf("coalesce: %v", err)
	}
}
