package ffi

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/errors"
	"github.com/wippyai/ffi-bindgen/resource"
)

// CallbackFree is the method index native code uses to release a handle.
const CallbackFree int32 = 0

// CallbackMethod decodes the arguments of one callback interface method,
// calls impl and writes the result.
type CallbackMethod[T any] func(impl T, args *Reader, out *Writer) error

// CallbackRegistry stores the foreign implementations of one callback
// interface and dispatches native calls to them. Implementations cross the
// boundary as u64 handles.
type CallbackRegistry[T any] struct {
	table   *resource.Table[T]
	name    string
	methods []CallbackMethod[T]
}

// NewCallbackRegistry creates a registry whose method i+1 is methods[i].
func NewCallbackRegistry[T any](name string, methods ...CallbackMethod[T]) *CallbackRegistry[T] {
	r := &CallbackRegistry[T]{
		table:   resource.NewTable[T](),
		name:    name,
		methods: methods,
	}
	r.table.Subscribe(resource.ObserverFunc[T](func(e resource.Event[T]) {
		Logger().Debug("callback handle",
			zap.String("interface", name),
			zap.Uint64("handle", uint64(e.Handle)),
			zap.Stringer("event", e.Type))
	}))
	return r
}

// Lower stores impl and returns a new handle. Native code owns the handle
// and releases it through method 0.
func (r *CallbackRegistry[T]) Lower(impl T) (uint64, error) {
	h, err := r.table.Insert(impl)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseLower, errors.KindInvalidData, err, r.name)
	}
	return uint64(h), nil
}

// Lift returns the implementation behind handle.
func (r *CallbackRegistry[T]) Lift(handle uint64) (T, error) {
	impl, ok := r.table.Get(resource.Handle(handle))
	if !ok {
		var zero T
		return zero, errors.NotFound(errors.PhaseLift, r.name+" handle", fmt.Sprint(handle))
	}
	return impl, nil
}

func (r *CallbackRegistry[T]) Write(w *Writer, impl T) error {
	h, err := r.Lower(impl)
	if err != nil {
		return err
	}
	w.WriteU64(h)
	return nil
}

func (r *CallbackRegistry[T]) Read(rd *Reader) (T, error) {
	h, err := rd.ReadU64()
	if err != nil {
		var zero T
		return zero, err
	}
	return r.Lift(h)
}

// Invoke is the registry's ForeignCallback.
func (r *CallbackRegistry[T]) Invoke(handle uint64, method int32, args []byte) ([]byte, error) {
	h := resource.Handle(handle)
	if method == CallbackFree {
		if _, ok := r.table.Remove(h); !ok {
			return nil, errors.NotFound(errors.PhaseRuntime, r.name+" handle", fmt.Sprint(handle))
		}
		return nil, nil
	}
	if method < 1 || int(method) > len(r.methods) {
		return nil, errors.InvalidDiscriminant(nil, r.name, method, len(r.methods))
	}

	impl, ok := r.table.Borrow(h)
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, r.name+" handle", fmt.Sprint(handle))
	}
	defer r.table.Return(h)

	in := NewReader(args)
	out := NewWriter()
	defer out.Release()

	if err := r.methods[method-1](impl, in, out); err != nil {
		return nil, err
	}
	if err := in.Done(); err != nil {
		return nil, err
	}
	return append([]byte(nil), out.Bytes()...), nil
}

// Reset drops every handle. Bindings call it when they are bound to another
// library, which cannot know the handles issued to the previous one.
// Dispatches already running finish with their implementation.
func (r *CallbackRegistry[T]) Reset() {
	n := r.table.Len()
	r.table.Clear()
	Logger().Debug("callback registry reset",
		zap.String("interface", r.name),
		zap.Int("handles", n))
}

// Len returns the number of live handles.
func (r *CallbackRegistry[T]) Len() int { return r.table.Len() }
