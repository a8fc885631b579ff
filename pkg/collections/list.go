package collections

import (
	"iter"
	"slices"

	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// ListView reconciles a sequence by position.
type ListView[O, T any] struct {
	seq    iter.Seq2[int, T]
	render func(cx core.Cx[O], index int, item T) core.Token[O]
}

// Slice returns a view with one entry per element of items. Entries are
// matched by index: swapping two elements rebuilds both entries with each
// other's values rather than moving nodes.
func Slice[O, T any](items []T, render func(cx core.Cx[O], index int, item T) core.Token[O]) ListView[O, T] {
	return ListView[O, T]{seq: slices.All(items), render: render}
}

// Seq is like [Slice] for an iterator whose length is not known in advance.
// seq is consumed once per build or rebuild.
func Seq[O, T any](seq iter.Seq[T], render func(cx core.Cx[O], index int, item T) core.Token[O]) ListView[O, T] {
	indexed := func(yield func(int, T) bool) {
		i := 0
		for v := range seq {
			if !yield(i, v) {
				return
			}
			i++
		}
	}
	return ListView[O, T]{seq: indexed, render: render}
}

func (lv ListView[O, T]) item(index int, item T) core.WithView[O] {
	return core.With(func(cx core.Cx[O]) core.Token[O] {
		return lv.render(cx, index, item)
	})
}

func (lv ListView[O, T]) build(op string, cx core.BuildCx, index int, item T) (*listEntry[O], error) {
	header, err := cx.InsertMarker(marker)
	if err != nil {
		return nil, errors.Backend(op, err)
	}
	state, err := lv.item(index, item).Build(cx.InRegion(op))
	if err != nil {
		cx.Backend.RemoveChild(cx.Parent, header)
		return nil, err
	}
	return &listEntry[O]{header: header, state: state}, nil
}

// Build implements core.View.
func (lv ListView[O, T]) Build(cx core.BuildCx) (core.State[O], error) {
	const op = "collections.List.Build"
	footer, err := cx.InsertMarker(marker)
	if err != nil {
		return nil, errors.Backend(op, err)
	}
	s := &ListState[O]{footer: footer}
	at := cx
	at.Before = footer
	for i, v := range lv.seq {
		e, err := lv.build(op, at, i, v)
		if err != nil {
			s.Dispose()
			var first dom.Node
			if len(s.entries) > 0 {
				first = s.entries[0].header
			}
			discard(cx, first, footer)
			return nil, err
		}
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// Rebuild implements core.View.
func (lv ListView[O, T]) Rebuild(cx core.RebuildCx, state core.State[O]) error {
	const op = "collections.List.Rebuild"
	s, err := core.StateAs[*ListState[O]](op, state)
	if err != nil {
		return err
	}

	n := 0
	for i, v := range lv.seq {
		n = i + 1
		if i < len(s.entries) {
			if err := lv.item(i, v).Rebuild(cx, s.entries[i].state); err != nil {
				return err
			}
			continue
		}
		e, err := lv.build(op, cx.At(s.footer), i, v)
		if err != nil {
			return err
		}
		s.entries = append(s.entries, e)
	}

	if n >= len(s.entries) {
		return nil
	}
	surplus := s.entries[n:]
	s.entries = s.entries[:n:n]
	for _, e := range surplus {
		e.state.Dispose()
	}
	if err := dom.ClearThrough(cx.Backend, cx.Parent, surplus[0].header, s.footer); err != nil {
		return errors.Backend(op, err)
	}
	return nil
}

type listEntry[O any] struct {
	header dom.Node
	state  core.State[O]
}

// ListState is the state of a Slice or Seq view.
type ListState[O any] struct {
	entries []*listEntry[O]
	footer  dom.Node
}

// Len returns the number of entries.
func (s *ListState[O]) Len() int {
	return len(s.entries)
}

// At returns the state of the i-th entry.
func (s *ListState[O]) At(i int) core.State[O] {
	return s.entries[i].state
}

// Run implements core.State, visiting entries in order.
func (s *ListState[O]) Run(out *float.Float[O]) error {
	for _, e := range s.entries {
		if err := e.state.Run(out); err != nil {
			return err
		}
	}
	return nil
}

// Dispose implements core.State.
func (s *ListState[O]) Dispose() {
	for _, e := range s.entries {
		e.state.Dispose()
	}
}
