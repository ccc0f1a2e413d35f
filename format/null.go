package format

import (
	"context"
	"fmt"
	"reflect"
)

// Null is the identity Format (spec §4.2): it acts as identity on any T, used by director.Trivial when the
// carrier already exchanges typed Go values in-process rather than bytes.
type Null struct{}

func (Null) Serialize(ctx context.Context, value any) (Representation, error) {
	return value, nil
}

func (Null) Deserialize(ctx context.Context, repr Representation, target any) error {
	tv := reflect.ValueOf(target)
	if tv.Kind() != reflect.Pointer || tv.IsNil() {
		return fmt.Errorf("format: null deserialize: target must be a non-nil pointer, got %T", target)
	}

	rv := reflect.ValueOf(repr)
	if !rv.IsValid() {
		tv.Elem().Set(reflect.Zero(tv.Elem().Type()))
		return nil
	}

	if !rv.Type().AssignableTo(tv.Elem().Type()) {
		return fmt.Errorf("format: null deserialize: cannot assign %T to %s", repr, tv.Elem().Type())
	}
	tv.Elem().Set(rv)
	return nil
}
