package lifecycle

import (
	"context"
)

// IsDone is a helper which checks <-ctx.Done(). CGroup uses it to tell whether a context
// already expired before it was ever Add()ed.
func IsDone(ctx context.Context) (done bool) {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
