package core

import (
	"fmt"

	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// Thunk is a pending run of an inner state. An adapter callback must call
// [Thunk.Run] exactly once, with the inner view's state type.
type Thunk[I any] struct {
	state State[I]
	err   *error
	ran   *bool
}

// ThunkResult is returned by [Thunk.Run] as proof the inner state ran.
type ThunkResult[I any] struct {
	ran bool
}

// Run runs the inner state against in. Changes the inner state's handlers
// make are written back through the pointer.
func (t Thunk[I]) Run(in *I) ThunkResult[I] {
	if *t.ran {
		*t.err = fmt.Errorf("core.Thunk.Run: called twice: %w", errors.ErrTokenMisuse)
		return ThunkResult[I]{ran: true}
	}
	*t.ran = true

	fl := float.New(*in)
	if err := t.state.Run(&fl); err != nil {
		*t.err = err
	}
	v, err := fl.Take()
	if err != nil {
		*t.err = errors.Poison("core.Thunk.Run", err)
		return ThunkResult[I]{ran: true}
	}
	*in = v
	return ThunkResult[I]{ran: true}
}

// AdaptView converts a View[I] into a View[O].
type AdaptView[O, I any] struct {
	view View[I]
	f    func(t Thunk[I], out *O) ThunkResult[I]
}

// Adapt lets a component written against state type I be used where the
// surrounding state is O. Build and rebuild pass straight through; during a
// run pass f receives the outer value and must call [Thunk.Run] with an I
// derived from it.
func Adapt[O, I any](v View[I], f func(t Thunk[I], out *O) ThunkResult[I]) AdaptView[O, I] {
	return AdaptView[O, I]{view: v, f: f}
}

// AdaptRef is the common case of [Adapt] where the inner value lives inside
// the outer one and can be addressed by pointer.
func AdaptRef[O, I any](v View[I], f func(out *O) *I) AdaptView[O, I] {
	return Adapt(v, func(t Thunk[I], out *O) ThunkResult[I] {
		return t.Run(f(out))
	})
}

// Build implements View.
func (a AdaptView[O, I]) Build(cx BuildCx) (State[O], error) {
	inner, err := a.view.Build(cx)
	if err != nil {
		return nil, err
	}
	return &AdaptState[O, I]{inner: inner, f: a.f}, nil
}

// Rebuild implements View.
func (a AdaptView[O, I]) Rebuild(cx RebuildCx, state State[O]) error {
	s, err := StateAs[*AdaptState[O, I]]("core.Adapt.Rebuild", state)
	if err != nil {
		return err
	}
	s.f = a.f
	return a.view.Rebuild(cx, s.inner)
}

// AdaptState is the state of an Adapt.
type AdaptState[O, I any] struct {
	inner State[I]
	f     func(t Thunk[I], out *O) ThunkResult[I]
}

// Inner returns the adapted state.
func (s *AdaptState[O, I]) Inner() State[I] {
	return s.inner
}

// Run implements State.
func (s *AdaptState[O, I]) Run(out *float.Float[O]) error {
	p, err := out.Ptr()
	if err != nil {
		return errors.Poison("core.Adapt.Run", err)
	}
	var (
		runErr error
		ran    bool
	)
	res := s.f(Thunk[I]{state: s.inner, err: &runErr, ran: &ran}, p)
	if runErr != nil {
		return runErr
	}
	if !res.ran || !ran {
		return fmt.Errorf("core.Adapt.Run: inner state not run: %w", errors.ErrTokenMisuse)
	}
	return nil
}

// Dispose implements State.
func (s *AdaptState[O, I]) Dispose() {
	s.inner.Dispose()
}
