package core

import (
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// Marker data for regions bracketed by Option and Any.
const (
	startMarker = "{"
	endMarker   = "}"
)

// OptionView mounts its child only while present.
type OptionView[O any] struct {
	view View[O]
}

// Option returns a view that is present when v is non-nil and absent when
// v is nil. Its content is bracketed by two markers, so toggling leaves the
// surrounding siblings untouched.
func Option[O any](v View[O]) OptionView[O] {
	return OptionView[O]{view: v}
}

// When returns Option(f()) if cond holds and an absent Option otherwise.
// f is only called when cond is true.
func When[O any](cond bool, f func() View[O]) OptionView[O] {
	if !cond {
		return OptionView[O]{}
	}
	return OptionView[O]{view: f()}
}

// Build implements View.
func (o OptionView[O]) Build(cx BuildCx) (State[O], error) {
	const op = "core.Option.Build"
	start, end, inner, err := bracket(cx, op)
	if err != nil {
		return nil, err
	}
	s := &OptionState[O]{start: start, end: end}
	if o.view != nil {
		if s.child, err = o.view.Build(inner); err != nil {
			unbracket(cx.Backend, cx.Parent, start, end)
			return nil, err
		}
	}
	return s, nil
}

// Rebuild implements View.
func (o OptionView[O]) Rebuild(cx RebuildCx, state State[O]) error {
	const op = "core.Option.Rebuild"
	s, err := StateAs[*OptionState[O]](op, state)
	if err != nil {
		return err
	}

	switch {
	case o.view == nil && s.child == nil:
		return nil
	case o.view == nil:
		s.child.Dispose()
		s.child = nil
		return cx.Clear(op, s.start, s.end)
	case s.child == nil:
		child, err := o.view.Build(cx.At(s.end).InRegion(op))
		if err != nil {
			return err
		}
		s.child = child
		return nil
	default:
		return o.view.Rebuild(cx, s.child)
	}
}

// bracket inserts a start and an end marker at cx and returns a context for
// building content between them, inside a region owned by op.
func bracket(cx BuildCx, op string) (start, end dom.Node, inner BuildCx, err error) {
	if start, err = cx.InsertMarker(startMarker); err != nil {
		return nil, nil, cx, errors.Backend(op, err)
	}
	if end, err = cx.InsertMarker(endMarker); err != nil {
		cx.Backend.RemoveChild(cx.Parent, start)
		return nil, nil, cx, errors.Backend(op, err)
	}
	inner = BuildCx{
		Position: dom.Position{Backend: cx.Backend, Parent: cx.Parent, Before: end},
		Waker:    cx.Waker,
		Region:   op,
	}
	return start, end, inner, nil
}

// unbracket removes both markers and everything between them. It is used
// to undo a failed build, so its own errors are dropped in favour of the
// build error.
func unbracket(b dom.Backend, parent, start, end dom.Node) {
	if dom.ClearThrough(b, parent, start, end) == nil {
		b.RemoveChild(parent, end)
	}
}

// OptionState is the state of an Option.
type OptionState[O any] struct {
	child State[O]
	start dom.Node
	end   dom.Node
}

// Present reports whether the child is mounted.
func (s *OptionState[O]) Present() bool {
	return s.child != nil
}

// Child returns the mounted child state, or nil.
func (s *OptionState[O]) Child() State[O] {
	return s.child
}

// Run implements State. It does nothing while absent.
func (s *OptionState[O]) Run(out *float.Float[O]) error {
	if s.child == nil {
		return nil
	}
	return s.child.Run(out)
}

// Dispose implements State.
func (s *OptionState[O]) Dispose() {
	if s.child != nil {
		s.child.Dispose()
		s.child = nil
	}
}
