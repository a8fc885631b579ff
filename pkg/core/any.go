package core

import (
	"reflect"

	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/float"
)

// AnyView wraps a view so that its slot may hold a different kind of view
// on every cycle.
type AnyView[O any] struct {
	view View[O]
}

// Any erases the shape of v. Rebuilding an Any state with a view of the
// same type and shape delegates to that view's Rebuild. When the type or
// shape differs, everything between the Any's markers is cleared and the
// new view is built from scratch; no partial reconciliation is attempted
// across shape changes.
func Any[O any](v View[O]) AnyView[O] {
	return AnyView[O]{view: v}
}

// Build implements View.
func (a AnyView[O]) Build(cx BuildCx) (State[O], error) {
	const op = "core.Any.Build"
	start, end, inner, err := bracket(cx, op)
	if err != nil {
		return nil, err
	}
	state, err := a.view.Build(inner)
	if err != nil {
		unbracket(cx.Backend, cx.Parent, start, end)
		return nil, err
	}
	return &AnyState[O]{inner: state, kind: reflect.TypeOf(a.view), start: start, end: end}, nil
}

// Rebuild implements View.
func (a AnyView[O]) Rebuild(cx RebuildCx, state State[O]) error {
	const op = "core.Any.Rebuild"
	s, err := StateAs[*AnyState[O]](op, state)
	if err != nil {
		return err
	}

	if reflect.TypeOf(a.view) == s.kind {
		err := a.view.Rebuild(cx, s.inner)
		if err == nil || !IsShape(err) {
			return err
		}
	}

	s.inner.Dispose()
	if err := cx.Clear(op, s.start, s.end); err != nil {
		return err
	}
	inner, err := a.view.Build(cx.At(s.end).InRegion(op))
	if err != nil {
		return err
	}
	s.inner, s.kind = inner, reflect.TypeOf(a.view)
	s.replaced++
	return nil
}

// AnyState is the state of an Any.
type AnyState[O any] struct {
	inner    State[O]
	kind     reflect.Type
	start    dom.Node
	end      dom.Node
	replaced int
}

// Inner returns the current concrete state.
func (s *AnyState[O]) Inner() State[O] {
	return s.inner
}

// Replaced returns how many times the inner state was rebuilt from scratch.
func (s *AnyState[O]) Replaced() int {
	return s.replaced
}

// Run implements State.
func (s *AnyState[O]) Run(out *float.Float[O]) error {
	return s.inner.Run(out)
}

// Dispose implements State.
func (s *AnyState[O]) Dispose() {
	s.inner.Dispose()
}
