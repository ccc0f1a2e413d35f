package fork

import (
	"context"
	"errors"
	"sync"

	"github.com/samthor/relay/channel"
	"github.com/samthor/relay/format"
	"github.com/samthor/relay/future"
	"github.com/samthor/relay/lifecycle"
	"github.com/samthor/relay/transport"
)

// ErrDoubleJoin is returned by GetFork when a Handle is passed to it a second time.
var ErrDoubleJoin = errors.New("fork: handle already joined")

// Session owns one Transport's worth of multiplexed sub-channels: the Mux that frames traffic
// onto it, the Format every Endpoint encodes with, and a CGroup tracking every task a Fork spawns
// so that cancelling the session tears down every outstanding fork (spec §5 "Cancellation").
type Session struct {
	mux    *channel.Mux
	format format.Format
	cg     lifecycle.CGroup

	mu   sync.Mutex
	done map[channel.SubID]future.Future[error]
}

// NewSession builds a Session over tr. The session's background work runs until ctx is cancelled.
func NewSession(ctx context.Context, tr transport.Transport, f format.Format) *Session {
	reg := channel.NewRegistry()
	mux := channel.NewMux(tr, f, reg)

	cg := lifecycle.NewCGroup()
	cg.Add(ctx)
	cg.Start()

	return &Session{mux: mux, format: f, cg: cg, done: map[channel.SubID]future.Future[error]{}}
}

// Join returns a Future that resolves with the outcome of the fork task addressed by h, for a
// caller that fired off a fork and wants to know when its Unravel finished without reconstructing
// its value via GetFork. ok is false if h was never produced by this Session's Fork.
func (s *Session) Join(h Handle) (f future.Future[error], ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok = s.done[channel.SubID(h)]
	return
}

// Mux returns the session's Mux, for the Director to drive the root protocol value through.
func (s *Session) Mux() *channel.Mux { return s.mux }

// Root claims the reserved root sub-channel (SubID 0) and returns its typed Endpoint, used by
// Director to carry the top-level protocol value directly, with no Fork/GetFork Handle
// indirection (spec §4.7).
func Root[I any](ctx context.Context, s *Session) (*Endpoint[I], error) {
	raw, ok := s.mux.Claim(ctx, channel.RootSubID)
	if !ok {
		return nil, ErrDoubleJoin
	}
	return newEndpoint[I](raw, s.format), nil
}

// Wait blocks until the session's context is done or a forked Unravel returns an error, returning
// that error (nil for plain cancellation). It does not wait for forks that are still running.
func (s *Session) Wait() error { return s.cg.Wait() }

// Fork allocates a sub-channel bound to value, spawns the background task that drives its
// decomposition, and returns the Handle the peer needs to reconstruct it (spec §4.5 unravel side).
// The sub-channel is fully spliced into the Mux before Fork returns, so the returned Handle is
// always safe to send: the peer can never receive a Handle it cannot route.
func Fork[V any, I any](ctx context.Context, s *Session, p Protocol[V, I], value V) (Handle, error) {
	id, raw := s.mux.Allocate(ctx)
	ep := newEndpoint[I](raw, s.format)

	done, resolve := future.New[error]()
	s.mu.Lock()
	s.done[id] = done
	s.mu.Unlock()

	ok := s.cg.Go(func(taskCtx context.Context) error {
		err := p.Unravel(ep.Context(), value, ep)
		s.mux.Registry().Deregister(id, err)
		_ = s.mux.SendStop(id, err)
		resolve(err, nil)
		return err
	})
	if !ok {
		err := context.Cause(ctx)
		if err == nil {
			err = context.Cause(s.cg.Start())
		}
		s.mux.Registry().Deregister(id, context.Canceled)
		resolve(nil, err)
		return 0, err
	}
	return Handle(id), nil
}

// GetFork reserves the sub-channel named by h and runs p's coalesce half against it, producing a
// V (spec §4.5 coalesce side). Calling GetFork twice with the same Handle fails with
// ErrDoubleJoin.
func GetFork[V any, I any](ctx context.Context, s *Session, p Protocol[V, I], h Handle) (V, error) {
	var zero V

	id := channel.SubID(h)
	raw, ok := s.mux.Claim(ctx, id)
	if !ok {
		return zero, ErrDoubleJoin
	}
	ep := newEndpoint[I](raw, s.format)

	v, err := p.Coalesce(ep.Context(), ep)
	s.mux.Registry().Deregister(id, err)
	_ = s.mux.SendStop(id, err)
	return v, err
}
