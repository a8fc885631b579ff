// Package html builds HTML views on top of a [dom.Backend].
//
// Views are values: construct a fresh tree on every render and the
// reconciler applies only what changed since the previous cycle.
//
//	func render(cx core.Cx[Model], m Model) core.Token[Model] {
//	    return cx.Build(html.El[Model]("button",
//	        html.On_(html.Click, func(m *Model) { m.Count++ }),
//	        html.Textf[Model]("%d", m.Count),
//	    ))
//	}
//
// Element tags, attribute names and event names are checked against the
// embedded [Registry].
package html

import (
	"fmt"

	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// TextView is a text node.
type TextView[O any] struct {
	data string
}

// Text returns a text node view.
func Text[O any](data string) TextView[O] {
	return TextView[O]{data: data}
}

// Textf returns a text node view with formatted content.
func Textf[O any](format string, args ...any) TextView[O] {
	return TextView[O]{data: fmt.Sprintf(format, args...)}
}

// Build implements core.View.
func (t TextView[O]) Build(cx core.BuildCx) (core.State[O], error) {
	const op = "html.Text.Build"
	n, err := cx.Backend.CreateText(t.data)
	if err != nil {
		return nil, errors.Backend(op, err)
	}
	if err := cx.Insert(n); err != nil {
		return nil, errors.Backend(op, err)
	}
	return &TextState[O]{node: n, data: t.data}, nil
}

// Rebuild implements core.View. The node is only written when the text
// changed.
func (t TextView[O]) Rebuild(cx core.RebuildCx, state core.State[O]) error {
	const op = "html.Text.Rebuild"
	s, err := core.StateAs[*TextState[O]](op, state)
	if err != nil {
		return err
	}
	if s.data == t.data {
		return nil
	}
	if err := cx.Backend.SetData(s.node, t.data); err != nil {
		return errors.Backend(op, err)
	}
	s.data = t.data
	return nil
}

// TextState is the state of a Text.
type TextState[O any] struct {
	node dom.Node
	data string
}

// Node returns the text node.
func (s *TextState[O]) Node() dom.Node { return s.node }

// Run implements core.State.
func (s *TextState[O]) Run(*float.Float[O]) error { return nil }

// Dispose implements core.State.
func (s *TextState[O]) Dispose() {}
