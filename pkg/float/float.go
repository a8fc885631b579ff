// Package float provides a single-value container whose value can be
// temporarily moved out for the duration of a callback.
//
// A Float always holds a value, except while a callback passed to
// [Float.Float] or [With] is running. If that callback never returns
// normally (it panics), the Float stays empty and every later access fails
// with [ErrPoisoned].
//
// The run pass uses this to hand exclusive ownership of the shared
// application state down through nested components, for example to combine
// it with a component's private local state into a single value:
//
//	err := model.Float(func(m Model) Model {
//	    pair := float.New(Scoped{Outer: m, Local: local})
//	    inner.Run(&pair)
//	    p, _ := pair.Take()
//	    return p.Outer
//	})
package float

import "errors"

// ErrPoisoned is returned when a Float is accessed after a callback that had
// floated its value terminated abnormally.
var ErrPoisoned = errors.New("poisoned float: callback terminated while value was floated")

// Float is a container that always holds a value outside of a floating
// callback. The zero value is empty (poisoned); use [New].
type Float[T any] struct {
	value T
	ok    bool
}

// New returns a Float holding value.
func New[T any](value T) Float[T] {
	return Float[T]{value: value, ok: true}
}

// Get returns a copy of the held value.
func (f *Float[T]) Get() (T, error) {
	if !f.ok {
		var zero T
		return zero, ErrPoisoned
	}
	return f.value, nil
}

// Ptr returns a pointer to the held value. The pointer must not be retained
// past the caller's current pass.
func (f *Float[T]) Ptr() (*T, error) {
	if !f.ok {
		return nil, ErrPoisoned
	}
	return &f.value, nil
}

// Take consumes the Float, returning its value and leaving it empty.
func (f *Float[T]) Take() (T, error) {
	v, err := f.Get()
	if err != nil {
		return v, err
	}
	var zero T
	f.value, f.ok = zero, false
	return v, nil
}

// Poisoned reports whether the Float is empty.
func (f *Float[T]) Poisoned() bool {
	return !f.ok
}

// Float moves the held value into fn and stores whatever fn returns.
// While fn runs the Float is empty; if fn panics it stays that way.
func (f *Float[T]) Float(fn func(T) T) error {
	_, err := With(f, func(v T) (T, struct{}) {
		return fn(v), struct{}{}
	})
	return err
}

// With is like [Float.Float], but fn also produces an extra result which is
// returned to the caller.
func With[T, R any](f *Float[T], fn func(T) (T, R)) (R, error) {
	v, err := f.Take()
	if err != nil {
		var zero R
		return zero, err
	}
	next, result := fn(v)
	f.value, f.ok = next, true
	return result, nil
}
