// Package call generates short-lived, non-sequential ids for correlating one relayd connection's
// log lines, grounded on the teacher's call/uniq.go id generator.
package call

import (
	"math/rand/v2"

	"github.com/taylorza/go-lfsr"
)

// NewConnIDs returns a channel yielding an endless stream of unique, non-monotonic connection
// correlation ids in the range (0, 2^31). Unlike a plain incrementing counter, an LFSR sequence
// doesn't reveal how many connections a relayd process has accepted so far just by reading one id
// off a log line.
func NewConnIDs() <-chan int {
	gen := lfsr.NewLfsr32(rand.Uint32())
	out := make(chan int)

	go func() {
		for {
			id, restarted := gen.Next()
			if restarted {
				panic("generated ~32 bits of ids")
			}

			if id == 0 || id&0x80000000 == 0x80000000 {
				continue // don't allow zero or anything with the top bit set
			}

			out <- int(id)
		}
	}()

	return out
}
