// Package h2 lets relayd additionally accept cleartext HTTP/2, grounded on the teacher's
// h2/h2c.go and h2/help.go (which were identical; this keeps the one function relay needs rather
// than both copies).
package h2

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Handler wraps h so it also accepts unencrypted HTTP/2 (h2c) connections, falling back to h
// unchanged for ordinary HTTP/1.1 traffic — including the WebSocket upgrade relayd serves on
// /sock, which h2c.NewHandler passes straight through to the wrapped handler. This is for hosting
// providers that terminate TLS ahead of the process and forward plain HTTP/2.
func Handler(h http.Handler) http.Handler {
	if h == nil {
		// h2c requires this to be non-nil
		h = http.DefaultServeMux
	}
	return h2c.NewHandler(h, &http2.Server{})
}
