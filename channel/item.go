package channel

import "github.com/samthor/relay/format"

// Item is one payload addressed to a specific sub-channel. Mux does not use it on the wire: it
// frames packets with its own wireItem type.
type Item struct {
	Sub  SubID
	Repr format.Representation
}
