package fork

import "context"

// Protocol binds a Go type V to how it flows over one sub-channel (spec C6, the Protocol
// contract). Unravel decomposes value onto ep; Coalesce reads ep and reconstructs a V.
// Implementations live in the protocol package and are supplied explicitly at each Fork/GetFork
// call site, since Go has no associated types to bind them implicitly to V.
type Protocol[V any, I any] interface {
	Unravel(ctx context.Context, value V, ep *Endpoint[I]) error
	Coalesce(ctx context.Context, ep *Endpoint[I]) (V, error)
}
