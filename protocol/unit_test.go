package protocol

import (
	"testing"

	"github.com/samthor/relay/fork"
)

func TestUnitRoundTrip(t *testing.T) {
	sa, sb := newSessionPair(t)
	ctx := t.Context()

	var pa UnitProtocol[struct{}]
	h, err := fork.Fork[struct{}, Unit](ctx, sa, pa, struct{}{})
	if err != nil {
		t.Fatalf("fork: %v", err)
	}

	var pb UnitProtocol[struct{}]
	if _, err := fork.GetFork[struct{}, Unit](ctx, sb, pb, h); err != nil {
		t.Fatalf("get fork: %v", err)
	}
}
