package channel

import (
	"context"
	"errors"
	"sync"

	"github.com/samthor/relay/format"
	"github.com/samthor/relay/queue"
)

// ErrUnknownSubID is returned only for traffic addressed to a SubID after the Registry has
// already torn down; a SubID that simply hasn't been locally claimed yet is never an error
// (spec §8 property 4, "handle before data") — it just buffers.
var ErrUnknownSubID = errors.New("channel: unknown sub id")

// Registry tracks every sub-channel active within one session: the mapping a forked Handle
// must flow through before its Endpoint exists (spec C3). Grounded on transport/mux.go's
// `known map[ID]*subTransport[ID]` and `newSubTransport`, generalized from a fixed ID type and
// json.RawMessage payload to SubID and format.Representation, and from caller-supplied ids to
// Allocate issuing monotonic ids starting after the reserved root id 0.
type Registry struct {
	mu   sync.Mutex
	next SubID
	rows map[SubID]*row
	torn bool
}

type row struct {
	id       SubID
	ctx      context.Context
	cancel   context.CancelCauseFunc
	inbox    queue.Queue[format.Representation]
	listener queue.Listener[format.Representation]
	claimed  bool
}

// NewRegistry builds an empty Registry. Each row's context derives from the ctx passed to the
// Allocate, Claim or Route call that created it.
func NewRegistry() *Registry {
	return &Registry{rows: make(map[SubID]*row), next: RootSubID + 1}
}

func (r *Registry) newRowLocked(ctx context.Context, id SubID) *row {
	rctx, cancel := context.WithCancelCause(ctx)
	inbox := queue.New[format.Representation]()
	ro := &row{
		id:     id,
		ctx:    rctx,
		cancel: cancel,
		inbox:  inbox,
		// joined immediately, at row creation, so traffic routed before any local Recv call is
		// still captured: joining lazily on the first Recv would start the listener at the
		// queue's current head and miss anything already buffered (spec §8 property 4).
		listener: inbox.Join(rctx),
	}
	r.rows[id] = ro
	return ro
}

// ensure returns the row for id, creating a buffering one if this is the first time id is seen.
// This is what makes "handle before data" safe: a Route racing ahead of a local Claim never
// fails, it just buffers in the row's inbox until a consumer joins.
func (r *Registry) ensure(ctx context.Context, id SubID) (*row, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.torn {
		return nil, false
	}
	ro, ok := r.rows[id]
	if !ok {
		ro = r.newRowLocked(ctx, id)
	}
	return ro, true
}

// Allocate reserves and returns a fresh SubID, with its row already present (spec invariant 2:
// SubID allocation is monotonic and unique per endpoint).
func (r *Registry) Allocate(ctx context.Context) SubID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	if !r.torn {
		r.newRowLocked(ctx, id)
	}
	return id
}

// Claim marks id as owned by exactly one local consumer. ok is false if id was already claimed
// (a double join) or the registry has torn down; callers surface this as fork.ErrDoubleJoin.
func (r *Registry) Claim(ctx context.Context, id SubID) (*row, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.torn {
		return nil, false
	}
	ro, ok := r.rows[id]
	if !ok {
		ro = r.newRowLocked(ctx, id)
	}
	if ro.claimed {
		return nil, false
	}
	ro.claimed = true
	return ro, true
}

// Deregister tears down id's row, reclaiming a sub-channel that was reserved but never joined
// by the peer (spec §4.5 edge case) or one whose owning fork has exited normally.
func (r *Registry) Deregister(id SubID, cause error) {
	r.mu.Lock()
	ro, ok := r.rows[id]
	if ok {
		delete(r.rows, id)
	}
	r.mu.Unlock()

	if ok {
		ro.cancel(cause)
	}
}

// Route delivers repr to id's inbox, auto-creating the row if this is the first traffic
// addressed to it. Returns ErrUnknownSubID only once the registry has been torn down.
func (r *Registry) Route(ctx context.Context, id SubID, repr format.Representation) error {
	ro, ok := r.ensure(ctx, id)
	if !ok {
		return ErrUnknownSubID
	}
	ro.inbox.Push(repr)
	return nil
}

// Teardown cancels and clears every remaining row, called once a session's top-level context is
// done. After this, the registry is empty (spec §8 properties 5/6).
func (r *Registry) Teardown(cause error) {
	r.mu.Lock()
	rows := r.rows
	r.rows = make(map[SubID]*row)
	r.torn = true
	r.mu.Unlock()

	for _, ro := range rows {
		ro.cancel(cause)
	}
}

// Len reports how many sub-channels are currently live, for teardown assertions in tests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (ro *row) Context() context.Context { return ro.ctx }

// Recv blocks for the next item routed to this row, or returns the row's cancellation cause.
func (ro *row) Recv(ctx context.Context) (format.Representation, error) {
	v, ok := ro.listener.Next()
	if !ok {
		return nil, context.Cause(ro.ctx)
	}
	return v, nil
}
