package transport

import (
	"context"
	"encoding/json"
)

// NewPair constructs two Transport interfaces that are connected to each other with a large buffer.
// Used by cmd/relay-sink and by every in-process test in this repo: a lossless, in-order pipe with no network.
func NewPair(ctx context.Context) (Transport, Transport) {
	return NewBufferPair(ctx, 1024)
}

// NewBufferPair is like NewPair but lets the caller pick the buffer size of each direction.
// Writes block once the buffer is full, surfacing backpressure the way a real Transport adapter would (spec §4.1).
func NewBufferPair(ctx context.Context, buffer int) (Transport, Transport) {
	ab := make(chan json.RawMessage, buffer)
	ba := make(chan json.RawMessage, buffer)

	l := &testTransport{ctx: ctx, out: ab, in: ba}
	r := &testTransport{ctx: ctx, out: ba, in: ab}
	return l, r
}

type testTransport struct {
	ctx context.Context
	out chan<- json.RawMessage
	in  <-chan json.RawMessage
}

func (t *testTransport) Context() context.Context {
	return t.ctx
}

func (t *testTransport) ReadJSON(v any) error {
	select {
	case raw, ok := <-t.in:
		if !ok {
			return context.Cause(t.ctx)
		}
		return json.Unmarshal(raw, v)
	case <-t.ctx.Done():
		return context.Cause(t.ctx)
	}
}

func (t *testTransport) WriteJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case t.out <- b:
		return nil
	case <-t.ctx.Done():
		return context.Cause(t.ctx)
	}
}
