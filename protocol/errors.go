// Package protocol implements the built-in Protocol bindings for primitive and compound Go types:
// the concrete per-type Unravel/Coalesce pairs that fork.Fork and fork.GetFork drive (spec C6).
package protocol

import "errors"

// ErrInsufficient is returned by Coalesce when its sub-channel closed before enough items arrived
// to reconstruct the value.
var ErrInsufficient = errors.New("protocol: insufficient items to coalesce value")
