// Package channel implements the sub-channel registry and multiplexer that let many forked
// protocol values share one Transport (spec C3/C4).
package channel

// SubID identifies one sub-channel multiplexed onto a session's single Transport.
// RootSubID is reserved for the top-level protocol value. It is also each Mux's initial sticky id,
// so root traffic carries no id field until another sub-channel has been addressed.
type SubID uint32

const RootSubID SubID = 0
