package core

import (
	"fmt"

	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// GroupView composes a fixed sequence of views built as a unit, in order.
type GroupView[O any] struct {
	views []View[O]
}

// Group returns a view that builds each of views left to right. The order
// is also the sibling order of their nodes.
func Group[O any](views ...View[O]) GroupView[O] {
	return GroupView[O]{views: views}
}

// Children returns the member views.
func (g GroupView[O]) Children() []View[O] {
	return g.views
}

// Build implements View.
func (g GroupView[O]) Build(cx BuildCx) (State[O], error) {
	states := make([]State[O], 0, len(g.views))
	for _, v := range g.views {
		s, err := v.Build(cx)
		if err != nil {
			for _, built := range states {
				built.Dispose()
			}
			return nil, err
		}
		states = append(states, s)
	}
	return &GroupState[O]{states: states}, nil
}

// Rebuild implements View.
func (g GroupView[O]) Rebuild(cx RebuildCx, state State[O]) error {
	s, err := StateAs[*GroupState[O]]("core.Group.Rebuild", state)
	if err != nil {
		return err
	}
	if len(s.states) != len(g.views) {
		return &errors.ShapeError{
			Op:   "core.Group.Rebuild",
			Want: fmt.Sprintf("group of %d", len(s.states)),
			Got:  fmt.Sprintf("group of %d", len(g.views)),
		}
	}
	for i, v := range g.views {
		if err := v.Rebuild(cx, s.states[i]); err != nil {
			return err
		}
	}
	return nil
}

// GroupState is the state of a Group.
type GroupState[O any] struct {
	states []State[O]
}

// At returns the state of the i-th member.
func (s *GroupState[O]) At(i int) State[O] {
	return s.states[i]
}

// Run implements State, visiting members in declaration order.
func (s *GroupState[O]) Run(out *float.Float[O]) error {
	for _, st := range s.states {
		if err := st.Run(out); err != nil {
			return err
		}
	}
	return nil
}

// Dispose implements State.
func (s *GroupState[O]) Dispose() {
	for _, st := range s.states {
		st.Dispose()
	}
}
