package format

import "context"

// Bottom is the uninhabited Format: it never actually runs, because director.Null never carries a payload.
// It exists purely so director.Null can be parameterized over a Format without special-casing the type system.
type Bottom struct{}

func (Bottom) Serialize(ctx context.Context, value any) (Representation, error) {
	panic("format: Bottom.Serialize called on an uninhabited format")
}

func (Bottom) Deserialize(ctx context.Context, repr Representation, target any) error {
	panic("format: Bottom.Deserialize called on an uninhabited format")
}
