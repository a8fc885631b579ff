package core

import (
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// Scoped is the state seen by handlers inside a [WithLocal]: the shared
// value and the component's private value together.
type Scoped[O, L any] struct {
	Outer O
	Local L
}

// LocalView is the View created by [WithLocal].
type LocalView[O, L any] struct {
	init func() L
	f    func(cx Cx[Scoped[O, L]], local L) Token[Scoped[O, L]]
}

// WithLocal gives a component private state of type L.
//
// init runs once, when the component is first built. f is called on build
// and on every rebuild with the current local value and, like [With], must
// call [Cx.Build] once. The local value is read-only there: handlers in the
// chosen view modify it through Scoped.Local during a run pass.
func WithLocal[O, L any](init func() L, f func(cx Cx[Scoped[O, L]], local L) Token[Scoped[O, L]]) LocalView[O, L] {
	return LocalView[O, L]{init: init, f: f}
}

// Build implements View.
func (w LocalView[O, L]) Build(cx BuildCx) (State[O], error) {
	local := w.init()
	inner, err := With(func(c Cx[Scoped[O, L]]) Token[Scoped[O, L]] {
		return w.f(c, local)
	}).Build(cx)
	if err != nil {
		return nil, err
	}
	return &LocalState[O, L]{local: float.New(local), inner: inner}, nil
}

// Rebuild implements View.
func (w LocalView[O, L]) Rebuild(cx RebuildCx, state State[O]) error {
	const op = "core.WithLocal.Rebuild"
	s, err := StateAs[*LocalState[O, L]](op, state)
	if err != nil {
		return err
	}
	local, err := s.local.Get()
	if err != nil {
		return errors.Poison(op, err)
	}
	return With(func(c Cx[Scoped[O, L]]) Token[Scoped[O, L]] {
		return w.f(c, local)
	}).Rebuild(cx, s.inner)
}

// LocalState is the state of a WithLocal.
type LocalState[O, L any] struct {
	local float.Float[L]
	inner State[Scoped[O, L]]
}

// Local returns the current local value.
func (s *LocalState[O, L]) Local() (L, error) {
	return s.local.Get()
}

// Run implements State. The shared and local values are floated into a
// Scoped pair for the inner run and written back afterwards.
func (s *LocalState[O, L]) Run(out *float.Float[O]) error {
	const op = "core.WithLocal.Run"
	var runErr error
	err := out.Float(func(o O) O {
		lerr := s.local.Float(func(l L) L {
			pair := float.New(Scoped[O, L]{Outer: o, Local: l})
			runErr = s.inner.Run(&pair)
			p, err := pair.Take()
			if err != nil {
				panic(errors.Poison(op, err))
			}
			o = p.Outer
			return p.Local
		})
		if lerr != nil {
			runErr = errors.Poison(op, lerr)
		}
		return o
	})
	if err != nil {
		return errors.Poison(op, err)
	}
	return runErr
}

// Dispose implements State.
func (s *LocalState[O, L]) Dispose() {
	s.inner.Dispose()
}
