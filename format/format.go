// Package format defines the pluggable codec boundary between a typed payload and its wire representation (spec §4.2).
package format

import (
	"context"
)

// Representation is whatever the active Format produces on the wire for one Item payload.
// A byte-oriented Format (e.g. JSON) produces []byte; the Null format produces the value itself, untouched.
type Representation = any

// Format serializes a typed payload to a Representation and back. Both operations are fallible.
// For any T exchanged between peers, both sides must use an isomorphic Format.
type Format interface {
	// Serialize encodes value into a Representation.
	Serialize(ctx context.Context, value any) (Representation, error)

	// Deserialize decodes repr into target, which must be a non-nil pointer.
	Deserialize(ctx context.Context, repr Representation, target any) error
}
