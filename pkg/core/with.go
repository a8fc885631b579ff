package core

import (
	"fmt"

	"github.com/go-drift/ravel/pkg/errors"
)

// cxInner records the view a callback chose. The view is only built or
// rebuilt after the callback returned having called Build exactly once.
type cxInner[O any] struct {
	rebuilding bool
	chosen     View[O]
	calls      int
	closed     bool
}

// Cx is the context handed to a [With] callback. Its only operation is
// [Cx.Build], which must be called exactly once.
type Cx[O any] struct {
	inner *cxInner[O]
}

// Token is the proof, returned by [Cx.Build], that the callback completed
// its context.
type Token[O any] struct {
	issued bool
}

// Build consumes v and returns the Token the callback must return. v is
// built (or rebuilt into the existing state) once the callback returns.
//
// Calling Build after the callback has returned is a programming error and
// panics.
func (cx Cx[O]) Build(v View[O]) Token[O] {
	c := cx.inner
	if c == nil || c.closed {
		panic("core: Cx.Build called outside of its With callback")
	}
	c.calls++
	if c.calls == 1 {
		c.chosen = v
	}
	return Token[O]{issued: true}
}

// Rebuilding reports whether the callback is updating an existing state.
func (cx Cx[O]) Rebuilding() bool {
	return cx.inner != nil && cx.inner.rebuilding
}

// WithView is the View created by [With].
type WithView[O any] struct {
	f func(Cx[O]) Token[O]
}

// With creates a View from a callback that chooses, at build or rebuild
// time, exactly one concrete view and passes it to [Cx.Build]. The chosen
// view's type does not appear in the callback's type, so different branches
// may select different views; wrap them in [Any] when their shapes differ
// across cycles.
//
// A callback that does not call Build, or calls it more than once, fails
// with errors.ErrTokenMisuse before anything is built.
func With[O any](f func(cx Cx[O]) Token[O]) WithView[O] {
	return WithView[O]{f: f}
}

// Build implements View.
func (w WithView[O]) Build(cx BuildCx) (State[O], error) {
	v, err := w.choose("core.With.Build", false)
	if err != nil {
		return nil, err
	}
	return v.Build(cx)
}

// Rebuild implements View.
func (w WithView[O]) Rebuild(cx RebuildCx, state State[O]) error {
	v, err := w.choose("core.With.Rebuild", true)
	if err != nil {
		return err
	}
	return v.Rebuild(cx, state)
}

func (w WithView[O]) choose(op string, rebuilding bool) (View[O], error) {
	c := &cxInner[O]{rebuilding: rebuilding}
	token := w.f(Cx[O]{inner: c})
	c.closed = true
	if !token.issued || c.calls != 1 {
		return nil, fmt.Errorf("%s: Build called %d times: %w", op, c.calls, errors.ErrTokenMisuse)
	}
	return c.chosen, nil
}
