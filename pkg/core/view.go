package core

import (
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// View describes part of the UI for a single render cycle.
type View[O any] interface {
	// Build creates the state for this description at cx's position.
	Build(cx BuildCx) (State[O], error)
	// Rebuild updates state, previously produced by a view of the same
	// shape, to reflect this description.
	Rebuild(cx RebuildCx, state State[O]) error
}

// State is the live structure produced by building a View.
type State[O any] interface {
	// Run processes one frame: it applies any pending externally triggered
	// events to the shared state.
	Run(out *float.Float[O]) error
	// Dispose releases resources other than backend nodes (for example
	// listener registrations). Called once, when the owning combinator
	// drops the state.
	Dispose()
}

// BuildCx is the context for building a view.
type BuildCx struct {
	dom.Position
	Waker *dom.Waker
	// Region names the operation that owns the enclosing region when the
	// position lies in content removed by clearing between markers (an
	// [Option], an [Any] or a collection entry). It is empty directly
	// inside an element.
	Region string
}

// RebuildCx is the context for rebuilding a view.
type RebuildCx struct {
	Backend dom.Backend
	Parent  dom.Node
	Waker   *dom.Waker
}

// NewBuildCx returns a context that appends to parent.
func NewBuildCx(b dom.Backend, parent dom.Node, w *dom.Waker) BuildCx {
	return BuildCx{Position: dom.Position{Backend: b, Parent: parent}, Waker: w}
}

// NewRebuildCx returns a context for rebuilding children of parent.
func NewRebuildCx(b dom.Backend, parent dom.Node, w *dom.Waker) RebuildCx {
	return RebuildCx{Backend: b, Parent: parent, Waker: w}
}

// Into returns a context that appends to the children of el. The result
// is outside any region.
func (cx BuildCx) Into(el dom.Node) BuildCx {
	return NewBuildCx(cx.Backend, el, cx.Waker)
}

// InRegion returns cx marked as lying in a region owned by op.
func (cx BuildCx) InRegion(op string) BuildCx {
	cx.Region = op
	return cx
}

// CheckProperty is called by views that modify their parent element instead
// of creating nodes, such as attributes and listeners. Clearing a region
// would not undo such a modification, so inside a region it returns a
// ShapeError describing the view as got.
func (cx BuildCx) CheckProperty(got string) error {
	if cx.Region == "" {
		return nil
	}
	return &errors.ShapeError{Op: cx.Region, Want: "node-producing view", Got: got}
}

// Rebuilding returns the rebuild context for the same parent.
func (cx BuildCx) Rebuilding() RebuildCx {
	return NewRebuildCx(cx.Backend, cx.Parent, cx.Waker)
}

// Into returns a context for rebuilding the children of el.
func (cx RebuildCx) Into(el dom.Node) RebuildCx {
	return NewRebuildCx(cx.Backend, el, cx.Waker)
}

// At returns a context that builds new content before the given node.
func (cx RebuildCx) At(before dom.Node) BuildCx {
	return BuildCx{
		Position: dom.Position{Backend: cx.Backend, Parent: cx.Parent, Before: before},
		Waker:    cx.Waker,
	}
}

// Clear removes all nodes strictly between start and end.
func (cx RebuildCx) Clear(op string, start, end dom.Node) error {
	return errors.Backend(op, dom.Clear(cx.Backend, cx.Parent, start, end))
}

// StateAs asserts state to the concrete type T, reporting a ShapeError
// naming op when it does not match.
func StateAs[T State[O], O any](op string, state State[O]) (T, error) {
	s, ok := state.(T)
	if !ok {
		var want T
		return want, errors.Shape(op, want, state)
	}
	return s, nil
}

// IsShape reports whether err is, or wraps, a shape mismatch.
func IsShape(err error) bool {
	return errors.KindOf(err) == errors.KindShape
}
