// Package sock provides small HTTP helpers for detecting WebSocket upgrade requests.
package sock

import (
	"net/http"
)

// IsRequest returns whether this is probably a WebSocket request.
func IsRequest(r *http.Request) bool {
	h := r.Header
	return h.Get("Upgrade") == "websocket"
}
