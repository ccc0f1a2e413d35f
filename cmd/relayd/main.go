// Command relayd is a WebSocket server accepting one forking-channel session per connection,
// grounded on the teacher's transport/demo/main.go bootstrap. Each connection coalesces a
// protocol.Stream[string] from the client and logs every line it forks across.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/samthor/relay/call"
	"github.com/samthor/relay/director"
	"github.com/samthor/relay/fork"
	"github.com/samthor/relay/h2"
	"github.com/samthor/relay/protocol"
	"github.com/samthor/relay/shutdown"
	"github.com/samthor/relay/sock"
	"github.com/samthor/relay/transport"
	"github.com/samthor/relay/wrap"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	idle := flag.Duration("idle-timeout", 0, "exit after this long with no active connection (0 disables)")
	useH2C := flag.Bool("h2c", false, "also accept cleartext HTTP/2 (for providers that terminate TLS upstream)")
	flag.Parse()

	connIDs := call.NewConnIDs()

	newLineStream := func(*fork.Session) fork.Protocol[protocol.Stream[string], string] {
		return protocol.StreamProtocol[string]{}
	}
	var d director.Multiplexed[protocol.Stream[string], string]

	handler := func(tr transport.Transport) error {
		connID := <-connIDs
		log.Printf("relayd[%d]: connection established", connID)

		stream, err := d.Coalesce(tr.Context(), newLineStream, tr)
		if err != nil {
			return err
		}
		for line := range stream.Values {
			log.Printf("relayd[%d]: %s", connID, line)
		}
		return nil
	}

	opts := transport.SocketOpts{PingEvery: 30 * time.Second}
	wsHandler := transport.NewWebSocketHandler(opts, handler)

	mux := http.NewServeMux()
	mux.Handle("/sock", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sock.IsRequest(r) {
			http.Error(w, "expected websocket upgrade", http.StatusBadRequest)
			return
		}
		wsHandler.ServeHTTP(w, r)
	}))
	mux.HandleFunc("/healthz", wrap.Http(func(w http.ResponseWriter, r *http.Request) any {
		return "ok"
	}))

	var topHandler http.Handler = mux
	if *useH2C {
		topHandler = h2.Handler(mux)
	}

	if *idle <= 0 {
		log.Printf("relayd: listening on %s", *addr)
		log.Fatal(http.ListenAndServe(*addr, topHandler))
	}

	ls := shutdown.New(*idle)
	log.Printf("relayd: listening on %s, idle timeout %s", *addr, *idle)
	ls.Err(ls.Serve(*addr, ls.Wrap(topHandler)))
}
