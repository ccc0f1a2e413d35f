package channel

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/samthor/relay/format"
	"github.com/samthor/relay/lifecycle"
	"github.com/samthor/relay/transport"
)

// ErrRemoteStop is the cause recorded against a row when the peer closes it with an empty reason.
var ErrRemoteStop = errors.New("channel: remote stop")

// wireItem is the framed packet exchanged over the Transport, grounded on transport/mux.go's
// anonymous id/p/stop struct, generalized from a comparable ID and json.RawMessage payload to
// SubID and format.Representation.
type wireItem struct {
	Sub  *SubID                `json:"id,omitempty"`
	Repr format.Representation `json:"p,omitempty"`
	Stop *string               `json:"stop,omitempty"`
}

// Mux demultiplexes one Transport into many sub-channels addressed by SubID (spec C4), grounded
// on transport/mux.go's Mux[ID] loop: both directions maintain a "sticky" id, sent only when it
// differs from whatever was last sent, so a long run of traffic on one sub-channel costs nothing
// extra on the wire.
type Mux struct {
	tr     transport.Transport
	format format.Format
	reg    *Registry

	mu           sync.Mutex
	lastOutgoing SubID
	status       lifecycle.WorkerStatus
}

// NewMux builds a Mux over tr, encoding payloads with f and routing incoming traffic into reg.
func NewMux(tr transport.Transport, f format.Format, reg *Registry) *Mux {
	return &Mux{tr: tr, format: f, reg: reg}
}

// Registry returns the Mux's backing Registry.
func (m *Mux) Registry() *Registry { return m.reg }

// Run blocks reading packets off the Transport and routing them into the Registry until the
// Transport fails or ctx is cancelled, at which point every live row is torn down. RootSubID is
// not special-cased: it is just another row, claimed by fork.Root for the top-level protocol
// value (spec §4.7). The read loop itself is a lifecycle.Worker so a caller can observe whether
// this Mux ever became Ready and when it went Idle, the same lifecycle reporting the teacher gives
// every long-lived channel consumer.
func (m *Mux) Run(ctx context.Context) error {
	rawCh := make(chan wireItem)
	var readErr error

	go func() {
		defer close(rawCh)
		for {
			var raw wireItem
			if err := m.tr.ReadJSON(&raw); err != nil {
				readErr = err
				m.reg.Teardown(err)
				return
			}
			select {
			case rawCh <- raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	status := lifecycle.Worker(ctx, rawCh, m.process)
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	err := <-status.Done()
	if ctx.Err() != nil {
		m.reg.Teardown(context.Cause(ctx))
	}
	if err != nil {
		return err
	}
	return readErr
}

// Status reports this Mux's read-loop lifecycle, or nil if Run has not yet been called.
func (m *Mux) Status() lifecycle.WorkerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Mux) process(ctx context.Context, events iter.Seq[wireItem]) error {
	var lastIncoming SubID

	for raw := range events {
		id := lastIncoming
		if raw.Sub != nil {
			id = *raw.Sub
			lastIncoming = id
		}

		if raw.Stop != nil {
			cause := ErrRemoteStop
			if *raw.Stop != "" {
				cause = errors.New("channel: remote stop: " + *raw.Stop)
			}
			m.reg.Deregister(id, cause)
			continue
		}

		// A stray id the registry has already torn down is dropped rather than killing the
		// session, mirroring transport/mux.go's "client is allowed to route to an unknown/bad call".
		_ = m.reg.Route(ctx, id, raw.Repr)
	}

	return nil
}

// Send writes repr addressed to id, encoding the sub id only when it differs from the last one sent.
func (m *Mux) Send(id SubID, repr format.Representation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out wireItem
	if m.lastOutgoing != id {
		sub := id
		out.Sub = &sub
		m.lastOutgoing = id
	}
	out.Repr = repr
	return m.tr.WriteJSON(out)
}

// SendStop tells the peer that id will carry no more traffic.
func (m *Mux) SendStop(id SubID, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	out := wireItem{Stop: &reason}
	if m.lastOutgoing != id {
		sub := id
		out.Sub = &sub
		m.lastOutgoing = id
	}
	return m.tr.WriteJSON(out)
}

// Claim returns the Endpoint for id, reserving it for exactly one local consumer. ok is false on
// a double join.
func (m *Mux) Claim(ctx context.Context, id SubID) (Endpoint, bool) {
	ro, ok := m.reg.Claim(ctx, id)
	if !ok {
		return nil, false
	}
	return &muxEndpoint{mux: m, id: id, row: ro}, true
}

// Allocate reserves a fresh SubID and returns its already-claimed Endpoint in one step, used by
// Fork to mint a child sub-channel (spec §4.5).
func (m *Mux) Allocate(ctx context.Context) (SubID, Endpoint) {
	id := m.reg.Allocate(ctx)
	ro, _ := m.reg.Claim(ctx, id) // freshly allocated: can't already be claimed
	return id, &muxEndpoint{mux: m, id: id, row: ro}
}

// Format returns the Format this Mux encodes payloads with.
func (m *Mux) Format() format.Format { return m.format }

type muxEndpoint struct {
	mux *Mux
	id  SubID
	row *row
}

func (e *muxEndpoint) Context() context.Context { return e.row.ctx }

func (e *muxEndpoint) Send(ctx context.Context, repr format.Representation) error {
	return e.mux.Send(e.id, repr)
}

func (e *muxEndpoint) Recv(ctx context.Context) (format.Representation, error) {
	return e.row.Recv(ctx)
}
