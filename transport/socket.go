package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	gotime "time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/time/rate"

	"github.com/samthor/relay/time"
)

const (
	// DefaultMaxPacketSize is the maximum size of a JSON packet we accept.
	DefaultMaxPacketSize = 262144 // 256k, 2^18

	// DefaultInMessageBuffer allows for this many packets to be pending before we close the connection.
	DefaultInMessageBuffer = 128

	// DefaultRateLimit is the number of messages per second we allow.
	DefaultRateLimit = 32

	// DefaultRateBurst is the maximum burst of messages we allow.
	DefaultRateBurst = 128
)

// HandshakeResponse is the response sent to the client after a successful hello.
type HandshakeResponse struct {
	Ok            bool `json:"ok"`
	MaxPacketSize int  `json:"max_packet_size"`
	RateLimit     int  `json:"rate_limit"`
	RateBurst     int  `json:"rate_burst"`
}

// SocketOpts configures the WebSocket handler.
type SocketOpts struct {
	// MaxPacketSize is the maximum size of a JSON packet we accept.
	// Defaults to DefaultMaxPacketSize if zero.
	MaxPacketSize int

	// InMessageBuffer allows for this many packets to be pending before we close the connection.
	// Defaults to DefaultInMessageBuffer if zero.
	InMessageBuffer int

	// RateLimit is the number of messages per second we allow.
	// This is how much the 'bucket' refills per second.
	// Defaults to DefaultRateLimit if zero.
	RateLimit int

	// RateBurst is the maximum burst of messages we allow.
	// This is the total capacity of the 'bucket'.
	// Defaults to DefaultRateBurst if zero.
	RateBurst int

	// PingEvery sends a ping every ~duration, +/- a small random variability.
	PingEvery gotime.Duration

	// SubProto, if set, must be provided by the client for this socket to connect properly.
	SubProto string
}

func (o *SocketOpts) setDefaults() {
	if o.MaxPacketSize == 0 {
		o.MaxPacketSize = DefaultMaxPacketSize
	}
	if o.InMessageBuffer == 0 {
		o.InMessageBuffer = DefaultInMessageBuffer
	}
	if o.RateLimit == 0 {
		o.RateLimit = DefaultRateLimit
	}
	if o.RateBurst == 0 {
		o.RateBurst = DefaultRateBurst
	}
}

// TransportError is returned by a Handler to terminate the connection with an application-level code and reason.
// It is carried over the wire as a fixed WebSocket close code (3000) whose reason encodes Code/Reason.
type TransportError struct {
	Code   int
	Reason string
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport error %d: %s", e.Code, e.Reason)
}

// Encode packs this TransportError into a WebSocket close reason string.
func (e TransportError) Encode() string {
	return fmt.Sprintf("%d/%s", e.Code, e.Reason)
}

// DecodeTransportError parses a close reason string produced by Encode.
func DecodeTransportError(s string) TransportError {
	code, reason, _ := strings.Cut(s, "/")
	c, _ := strconv.Atoi(code)
	return TransportError{Code: c, Reason: reason}
}

// NewWebSocketHandler returns an http.Handler that upgrades requests to WebSocket connections and wraps them in a Transport.
// This always sets InsecureSkipVerify, you should wrap this with something that checks the origin.
// The provided handle function is called for each established connection.
// When the handle function returns, the WebSocket connection is closed.
func NewWebSocketHandler(opts SocketOpts, transportHandler Handler) (h http.Handler) {
	opts.setDefaults()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return // websocket.Accept already writes an error response if it fails.
		}
		c.SetReadLimit(int64(opts.MaxPacketSize)) // set sane read limit

		// Define a primary readCtx that cancels after our "normal" shutdown.
		// Don't use the http.Request Context, see websocket.Accept comment.
		// Without this, the pending wsjson.Read call proactively shuts down the connection before we Close.
		readCtx, readCancel := context.WithCancel(context.Background())

		// Wrap the connection in our Transport implementation.
		ctx, cancel := context.WithCancelCause(readCtx)
		tr := &wsTransport{
			ctx:     ctx,
			cancel:  cancel,
			conn:    c,
			inCh:    make(chan []byte, opts.InMessageBuffer),
			limiter: rate.NewLimiter(rate.Limit(opts.RateLimit+1), opts.RateBurst+1), // +1 for hello msg and general safety
		}

		context.AfterFunc(ctx, func() {
			err := context.Cause(ctx)
			closeErr := websocket.CloseError{Code: websocket.StatusNormalClosure}

			var transportErr TransportError
			if errors.As(err, &transportErr) {
				closeErr.Code = 3000
				closeErr.Reason = transportErr.Encode()
			} else if errors.As(err, &closeErr) {
				// ok
			} else if err == nil || errors.Is(err, context.Canceled) {
				// ok
			} else {
				// don't emit internal errors
				closeErr.Code = websocket.StatusInternalError
			}

			c.Close(closeErr.Code, closeErr.Reason)
			readCancel() // only cancel readCtx after ctx
		})

		// ping if requested
		if opts.PingEvery > 0 {
			go func() {
				for {
					d := time.DurationRatio(opts.PingEvery, 0.25)
					select {
					case <-ctx.Done():
						return
					case <-gotime.After(d):
					}
					c.Ping(ctx)
				}
			}()
		}

		go func() {
			err := tr.runRead(readCtx)
			cancel(err)
		}()

		err = tr.run(opts, transportHandler)
		cancel(err)
	})
}

type wsTransport struct {
	ctx     context.Context
	cancel  context.CancelCauseFunc // only used for read/write JSON failure
	conn    *websocket.Conn
	inCh    chan []byte
	limiter *rate.Limiter
}

func (t *wsTransport) run(opts SocketOpts, transportHandler Handler) (err error) {
	// Handshake: Expect "hello" packet with version "1".
	// We only support version 1 for now and will error if any other version is seen.
	var hello struct {
		Type     string `json:"type"`
		Version  string `json:"version"`
		SubProto string `json:"subproto"`
	}
	if err = t.ReadJSON(&hello); err != nil {
		return websocket.CloseError{Code: websocket.StatusPolicyViolation, Reason: "failed to read hello"}
	}
	if hello.Type != "hello" || hello.Version != "1" {
		return websocket.CloseError{Code: websocket.StatusPolicyViolation, Reason: "invalid hello or version"}
	}
	if hello.SubProto != opts.SubProto {
		return websocket.CloseError{Code: websocket.StatusPolicyViolation, Reason: "invalid subproto"}
	}

	// Reply with hello response.
	resp := HandshakeResponse{
		Ok:            true,
		MaxPacketSize: opts.MaxPacketSize,
		RateLimit:     opts.RateLimit,
		RateBurst:     opts.RateBurst,
	}
	if err = t.WriteJSON(resp); err != nil {
		return
	}
	return transportHandler(t)
}

func (t *wsTransport) runRead(ctx context.Context) (err error) {
	for {
		typ, b, err := t.conn.Read(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if typ != websocket.MessageText {
			return websocket.CloseError{Code: websocket.StatusUnsupportedData, Reason: "unexpected message type"}
		}

		if !t.limiter.Allow() {
			return websocket.CloseError{Code: websocket.StatusPolicyViolation, Reason: "rate limit exceeded"}
		}

		select {
		case t.inCh <- b:
		default:
			// Channel full, slow consumer
			return websocket.CloseError{Code: websocket.StatusPolicyViolation, Reason: "input channel full"}
		}
	}
}

func (t *wsTransport) Context() (ctx context.Context) {
	return t.ctx
}

func (t *wsTransport) ReadJSON(v any) (err error) {
	defer func() {
		if err != nil {
			t.cancel(err)
		}
	}()

	var b []byte

	select {
	case b = <-t.inCh:
	case <-t.ctx.Done():
		return context.Cause(t.ctx)
	}

	err = json.Unmarshal(b, v)
	return
}

func (t *wsTransport) WriteJSON(v any) (err error) {
	defer func() {
		if err != nil {
			t.cancel(err)
		}
	}()

	err = wsjson.Write(t.ctx, t.conn, v)
	return
}
