// Package lifecycle provides the cancellation and readiness plumbing fork.Session and channel.Mux
// build on: CGroup tracks every task a Fork spawns so the whole tree tears down together, and
// Worker reports a data consumer's Ready/Idle/Done lifecycle.
package lifecycle

import (
	"context"
	"sync"
)

// CGroup provides a [context.Context] that stays live for as long as any context it was given is
// still live, and cancels once the last one is done. fork.Session adds its own session context to
// one and runs every Fork's Unravel task through Go, so no new fork starts once the session
// context is done or a forked Unravel has failed.
type CGroup interface {
	// Add registers one more live context with this group, so the group's own context stays alive
	// as long as at least one added context is live — fork.Session calls this once, with the
	// context it was built with.
	// Returns true if the underlying context is not yet done and this context was added to the active set, even briefly.
	Add(c context.Context) (ok bool)

	// Start returns this group's own [context.Context], creating it on first call — fork.Session
	// calls this once, up front, to obtain the context it hands to every Fork it spawns.
	// This will be already canceled if no contexts were added.
	Start() (ctx context.Context)

	// Wait ensures this group has started, and then blocks until the session's forks have all
	// finished and its [context.Context] is completed, returning its cause if not the default
	// [context.Canceled].
	Wait() (err error)

	// Go runs the given method as part of this group — fork.Session.Fork uses this to spawn the
	// background task that drives one forked value's Unravel.
	// It will only start after Start() has been called with valid contexts.
	// Any returned error will cancel the group's [context.Context] directly, rather than with any provided cause.
	// Returns true if the method has a chance of running.
	Go(fn func(c context.Context) (err error)) (ok bool)

	// Halt runs the given method when the last of this group's added contexts is done and the
	// group may be about to shut down — teardown bookkeeping (tearing down a Registry row,
	// say) belongs here rather than in Go, so it only runs once the group is actually quiescent.
	//
	// It is passed a channel which is closed if the group restarts, i.e. a new context is added
	// before shutdown completes.
	// The method passed here should prevent further Add() calls in your code before doing teardown work.
	// Otherwise, you risk a resume race.
	//
	// The passed method will only run after a successful Start() and then a potential shutdown.
	// Any returned error will cancel the group's [context.Context] directly, rather than with any provided cause.
	// Returns true if the method has a chance of running.
	Halt(fn func(c context.Context, resume <-chan struct{}) (err error)) (ok bool)
}

// NewCGroup creates a new CGroup, which simply provides a [context.Context] while any passed context is active.
// The new context is not derived from anything.
func NewCGroup() (cg CGroup) {
	return NewCGroupCause(nil)
}

// NewCGroupCause creates a new CGroup that will eventually cancel with the specified cause — a
// session that tears down because its Transport failed passes that error here so every forked
// value's context carries it forward.
func NewCGroupCause(cause error) (cg CGroup) {
	return &cgroup{cause: cause}
}

type haltFunc func(c context.Context, resume <-chan struct{}) error

type cgroup struct {
	cause  error
	lock   sync.Mutex
	ctx    context.Context
	cancel context.CancelCauseFunc
	active int
	tasks  []func(context.Context) error
	halts  []haltFunc

	resumeCh    chan struct{}
	resumeStart func(haltFunc)
}

func (cg *cgroup) Add(c context.Context) (ok bool) {
	if IsDone(c) {
		return
	}

	cg.lock.Lock()
	defer cg.lock.Unlock()

	if cg.ctx != nil && IsDone(cg.ctx) {
		return // don't include, already done
	}
	cg.active++

	context.AfterFunc(c, func() {
		cg.lock.Lock()
		defer cg.lock.Unlock()

		cg.active--
		if cg.active < 0 {
			panic("got -ve active in CGroup")
		} else if cg.active > 0 {
			return
		}

		if cg.ctx == nil {
			// if all contexts run and die before Start(), we can still get a valid context if another one is added later :shrug:
			return
		}

		if cg.resumeStart != nil || cg.resumeCh != nil {
			panic("shutdown with resumeStart already set")
		}

		resumeCh := make(chan struct{})
		resumeGroup := &sync.WaitGroup{}

		resumeStart := func(hf haltFunc) {
			resumeGroup.Add(1)
			go func() {
				defer resumeGroup.Done()
				err := hf(cg.ctx, resumeCh)
				if err != nil {
					cg.cancel(err)
				}
			}()
		}
		cg.resumeStart = resumeStart
		cg.resumeCh = resumeCh

		for _, halt := range cg.halts {
			resumeStart(halt)
		}

		go func() {
			resumeGroup.Wait()

			cg.lock.Lock()
			defer cg.lock.Unlock()

			if cg.resumeCh == resumeCh {
				cg.cancel(cg.cause)
			}
		}()
	})

	if cg.ctx == nil {
		return true
	}

	if cg.resumeCh != nil {
		close(cg.resumeCh)
		cg.resumeCh = nil
		cg.resumeStart = nil
	}

	return true
}

func (cg *cgroup) Start() context.Context {
	cg.lock.Lock()
	defer cg.lock.Unlock()

	if cg.ctx != nil {
		return cg.ctx
	}

	cg.ctx, cg.cancel = context.WithCancelCause(context.Background())
	if cg.active == 0 {
		cg.cancel(cg.cause)
	} else {
		for _, fn := range cg.tasks {
			go cg.start(fn)
		}
	}

	cg.tasks = nil
	return cg.ctx
}

func (cg *cgroup) Wait() (err error) {
	ctx := cg.Start()
	<-ctx.Done()
	err = context.Cause(ctx)
	if err == context.Canceled {
		err = nil
	}
	return
}

func (cg *cgroup) Go(fn func(context.Context) error) bool {
	cg.lock.Lock()
	defer cg.lock.Unlock()

	if cg.ctx == nil {
		cg.tasks = append(cg.tasks, fn)
		return true
	}

	if IsDone(cg.ctx) {
		return false
	}
	go cg.start(fn)
	return true
}

func (cg *cgroup) Halt(fn func(context.Context, <-chan struct{}) error) bool {
	cg.lock.Lock()
	defer cg.lock.Unlock()

	if cg.ctx != nil {
		if IsDone(cg.ctx) {
			return false
		}

		// start immediately, we're in shutdown phase
		if cg.resumeStart != nil {
			cg.resumeStart(fn)
		}
	}

	// push into stack for later
	cg.halts = append(cg.halts, fn)
	return true
}

func (cg *cgroup) start(fn func(context.Context) error) {
	err := fn(cg.ctx)
	if err != nil {
		cg.cancel(err)
	}
}
