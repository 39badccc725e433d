package ffi

import (
	"fmt"
	"reflect"

	"github.com/wippyai/ffi-bindgen/errors"
)

// Generated bindings lift call results through the helpers below; each
// returns the value and an error so the generated bodies have one shape.

// Result lifts a scalar from the first result slot.
func Result[T any](lift func(uint64) T, results []uint64) (T, error) {
	if len(results) == 0 {
		var zero T
		return zero, errors.InvalidData(errors.PhaseLift, nil, "missing result slot")
	}
	return lift(results[0]), nil
}

// ResultBool lifts a bool from the first result slot.
func ResultBool(results []uint64) (bool, error) {
	if len(results) == 0 {
		return false, errors.InvalidData(errors.PhaseLift, nil, "missing result slot")
	}
	return LiftBool(results[0])
}

// ResultString lifts a string from a returned buffer and releases it.
func ResultString(n Native, results []uint64) (string, error) {
	b, err := BufferFromSlots(results)
	if err != nil {
		return "", err
	}
	return LiftString(n, b)
}

// ResultBuffer decodes a returned buffer with c and releases it.
func ResultBuffer[T any](n Native, c Codec[T], results []uint64) (T, error) {
	b, err := BufferFromSlots(results)
	if err != nil {
		var zero T
		return zero, err
	}
	return LiftFrom(n, c, b)
}

// ResultCallback resolves a returned callback handle.
func ResultCallback[T any](r *CallbackRegistry[T], results []uint64) (T, error) {
	if len(results) == 0 {
		var zero T
		return zero, errors.InvalidData(errors.PhaseLift, nil, "missing result slot")
	}
	return r.Lift(results[0])
}

// Discriminant checks a 1-based variant index received outside a buffer.
func Discriminant(typ string, d int32, count int) (int32, error) {
	if d < 1 || int(d) > count {
		return 0, errors.InvalidDiscriminant(nil, typ, d, count)
	}
	return d, nil
}

// UnknownVariant is returned when writing a value of typ that is none of
// its generated variants, such as a nil interface.
func UnknownVariant(typ string, v any) error {
	return errors.InvalidData(errors.PhaseWrite, nil, fmt.Sprintf("%T is not a variant of %s", v, typ))
}

// Some returns a pointer to v, for optional values built from constants.
func Some[T any](v T) *T { return &v }

// NotLoaded is returned by generated calls made before a library was bound.
func NotLoaded(namespace string) error {
	return errors.NotInitialized(errors.PhaseCall, fmt.Sprintf("%s bindings", namespace))
}

// Destroyer is implemented by generated objects and by records, enums and
// errors that hold objects.
type Destroyer interface {
	Destroy()
}

var destroyerType = reflect.TypeFor[Destroyer]()

// Destroy releases every object reachable from values: Destroyers directly,
// and the elements of pointers, slices and maps. Nil values are skipped.
func Destroy(values ...any) {
	for _, v := range values {
		destroyValue(reflect.ValueOf(v))
	}
}

func destroyValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	if v.Type().Implements(destroyerType) {
		v.Interface().(Destroyer).Destroy()
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		destroyValue(v.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			destroyValue(v.Index(i))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			destroyValue(iter.Value())
		}
	}
}
