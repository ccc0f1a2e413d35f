package protocol

import (
	"testing"

	"github.com/samthor/relay/fork"
	"github.com/samthor/relay/format"
	"github.com/samthor/relay/transport"
)

func newSessionPair(t *testing.T) (*fork.Session, *fork.Session) {
	t.Helper()
	ctx := t.Context()
	ta, tb := transport.NewPair(ctx)
	sa := fork.NewSession(ctx, ta, format.JSON{})
	sb := fork.NewSession(ctx, tb, format.JSON{})
	go sa.Mux().Run(ctx)
	go sb.Mux().Run(ctx)
	return sa, sb
}
