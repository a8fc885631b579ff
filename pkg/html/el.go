package html

import (
	"fmt"

	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

func buildError(op, format string, args ...any) error {
	return &errors.RavelError{Op: op, Kind: errors.KindBuild, Err: fmt.Errorf(format, args...)}
}

// ElView is an element with a body of child views. The body may mix nodes
// (text, elements, dynamic regions) with properties of the element itself
// (attributes, listeners).
type ElView[O any] struct {
	tag  string
	body core.GroupView[O]
}

// El returns an element view. The tag is part of the view's shape: an
// element state cannot be rebuilt with a different tag.
func El[O any](tag string, body ...core.View[O]) ElView[O] {
	return ElView[O]{tag: tag, body: core.Group(body...)}
}

// Build implements core.View.
func (e ElView[O]) Build(cx core.BuildCx) (core.State[O], error) {
	const op = "html.El.Build"
	if !DefaultRegistry().IsElement(e.tag) {
		return nil, buildError(op, "unknown element <%s>", e.tag)
	}
	el, err := cx.Backend.CreateElement(e.tag)
	if err != nil {
		return nil, errors.Backend(op, err)
	}
	body, err := e.body.Build(cx.Into(el))
	if err != nil {
		return nil, err
	}
	if err := cx.Insert(el); err != nil {
		body.Dispose()
		return nil, errors.Backend(op, err)
	}
	return &ElState[O]{el: el, tag: e.tag, body: body}, nil
}

// Rebuild implements core.View.
func (e ElView[O]) Rebuild(cx core.RebuildCx, state core.State[O]) error {
	const op = "html.El.Rebuild"
	s, err := core.StateAs[*ElState[O]](op, state)
	if err != nil {
		return err
	}
	if s.tag != e.tag {
		return &errors.ShapeError{Op: op, Want: "<" + s.tag + ">", Got: "<" + e.tag + ">"}
	}
	return e.body.Rebuild(cx.Into(s.el), s.body)
}

// ElState is the state of an El.
type ElState[O any] struct {
	el   dom.Node
	tag  string
	body core.State[O]
}

// Node returns the element node.
func (s *ElState[O]) Node() dom.Node { return s.el }

// Body returns the state of the i-th body view.
func (s *ElState[O]) Body(i int) core.State[O] {
	return s.body.(*core.GroupState[O]).At(i)
}

// Run implements core.State.
func (s *ElState[O]) Run(out *float.Float[O]) error {
	return s.body.Run(out)
}

// Dispose implements core.State.
func (s *ElState[O]) Dispose() {
	s.body.Dispose()
}
