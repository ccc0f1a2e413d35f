// Package fork implements the recursive forking mechanism: transporting a value by allocating a
// fresh sub-channel, spawning a background task to drive its decomposition, and shipping only a
// Handle to the peer, which requests the matching sub-channel back to reconstruct it (spec C5).
package fork

import "github.com/samthor/relay/channel"

// Handle is the wire-visible identifier for an active sub-channel, a newtype over channel.SubID.
// It uniquely identifies a sub-channel on the endpoint that created it; the peer stores it
// verbatim and echoes it back to address the same sub-channel.
type Handle channel.SubID
