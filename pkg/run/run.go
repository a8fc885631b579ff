// Package run drives a view tree: it owns the application model, builds the
// tree once and then repeats run, sync and rebuild each time an event
// listener wakes it.
package run

import (
	"context"
	"time"

	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// RenderFunc describes the view for a model. It must call cx.Build exactly
// once and return its token.
type RenderFunc[D any] func(cx core.Cx[D], model D) core.Token[D]

// SyncFunc is called after every run pass with the model. Returning true
// ends the loop, and Run returns the accompanying result.
type SyncFunc[D, R any] func(model *D) (R, bool)

type loop[D, R any] struct {
	cfg     *config
	backend dom.Backend
	parent  dom.Node
	model   *float.Float[D]
	sync    SyncFunc[D, R]
	render  RenderFunc[D]
	waker   *dom.Waker
	state   core.State[D]
}

// Run builds render's view into parent and loops until sync returns true,
// ctx is done or a pass fails. Each cycle waits for a listener to wake the
// loop, delivers recorded events to their handlers, calls sync and rebuilds
// the tree from the updated model.
//
// Events are delivered in tree order during the run pass, never from the
// listener itself, so handlers and sync never run concurrently with a
// rebuild. A panic in render, a handler or sync stops the loop with an
// *errors.PanicError; if it happened during the run pass the model is left
// poisoned. The tree's listeners are cancelled before Run returns; its nodes
// stay in place.
func Run[D, R any](
	ctx context.Context,
	backend dom.Backend,
	parent dom.Node,
	model *float.Float[D],
	sync SyncFunc[D, R],
	render RenderFunc[D],
	opts ...Option,
) (R, error) {
	l := &loop[D, R]{
		cfg:     newConfig(opts),
		backend: backend,
		parent:  parent,
		model:   model,
		sync:    sync,
		render:  render,
		waker:   dom.NewWaker(),
	}
	result, err := l.loop(ctx)
	if l.cfg.hooks.Stopped != nil {
		l.cfg.hooks.Stopped(err)
	}
	return result, err
}

// Spawn runs a loop that never ends on its own in a new goroutine. sync may
// be nil. The returned channel receives the loop's error (ctx.Err() after
// cancellation) and is then closed.
func Spawn[D any](
	ctx context.Context,
	backend dom.Backend,
	parent dom.Node,
	model D,
	sync func(*D),
	render RenderFunc[D],
	opts ...Option,
) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		f := float.New(model)
		_, err := Run(ctx, backend, parent, &f, func(d *D) (struct{}, bool) {
			if sync != nil {
				sync(d)
			}
			return struct{}{}, false
		}, render, opts...)
		errc <- err
	}()
	return errc
}

func (l *loop[D, R]) loop(ctx context.Context) (result R, err error) {
	log := l.cfg.logger

	start := time.Now()
	if err := l.build(); err != nil {
		return result, l.fail("run.build", err)
	}
	defer l.state.Dispose()
	l.cfg.metrics.RecordBuild(time.Since(start))
	l.cfg.metrics.RecordMounted()
	defer l.cfg.metrics.RecordStopped()
	log.Debug().Dur("took", time.Since(start)).Msg("view mounted")
	if l.cfg.hooks.Mounted != nil {
		l.cfg.hooks.Mounted()
	}

	var cycle uint64
	for {
		select {
		case <-ctx.Done():
			log.Debug().Uint64("cycles", cycle).Err(ctx.Err()).Msg("loop cancelled")
			return result, ctx.Err()
		case <-l.waker.C():
		}

		cycle++
		sample := CycleSample{Cycle: cycle, Timestamp: time.Now()}

		if err := l.runPass(); err != nil {
			return result, l.fail("run.run", err)
		}
		sample.Events = l.waker.TakeDelivered()
		sample.Phases.Run = time.Since(sample.Timestamp)

		mark := time.Now()
		r, done, err := l.syncPass()
		if err != nil {
			return result, l.fail("run.sync", err)
		}
		sample.Phases.Sync = time.Since(mark)
		if done {
			sample.Done = true
			l.cfg.cycle(sample)
			log.Debug().Uint64("cycles", cycle).Msg("loop finished")
			return r, nil
		}

		mark = time.Now()
		if err := l.rebuild(); err != nil {
			return result, l.fail("run.rebuild", err)
		}
		sample.Phases.Rebuild = time.Since(mark)
		l.cfg.cycle(sample)

		log.Debug().
			Uint64("cycle", cycle).
			Uint64("events", sample.Events).
			Dur("took", sample.Phases.Total()).
			Msg("cycle complete")
	}
}

func (l *loop[D, R]) view() (core.View[D], error) {
	m, err := l.model.Get()
	if err != nil {
		return nil, errors.Poison("run.render", err)
	}
	return core.With(func(cx core.Cx[D]) core.Token[D] {
		return l.render(cx, m)
	}), nil
}

func (l *loop[D, R]) build() (err error) {
	defer errors.RecoverInto("run.build", &err)
	v, err := l.view()
	if err != nil {
		return err
	}
	state, err := v.Build(core.NewBuildCx(l.backend, l.parent, l.waker))
	if err != nil {
		return err
	}
	l.state = state
	return nil
}

// runPass floats the model through the tree so that a panicking handler
// leaves it poisoned.
func (l *loop[D, R]) runPass() (err error) {
	defer errors.RecoverInto("run.run", &err)
	var runErr error
	floatErr := l.model.Float(func(d D) D {
		pass := float.New(d)
		runErr = l.state.Run(&pass)
		next, err := pass.Take()
		if err != nil {
			panic(errors.Poison("run.run", err))
		}
		return next
	})
	if floatErr != nil {
		return errors.Poison("run.run", floatErr)
	}
	return runErr
}

func (l *loop[D, R]) syncPass() (result R, done bool, err error) {
	defer errors.RecoverInto("run.sync", &err)
	p, err := l.model.Ptr()
	if err != nil {
		return result, false, errors.Poison("run.sync", err)
	}
	result, done = l.sync(p)
	return result, done, nil
}

func (l *loop[D, R]) rebuild() (err error) {
	defer errors.RecoverInto("run.rebuild", &err)
	v, err := l.view()
	if err != nil {
		return err
	}
	return v.Rebuild(core.NewRebuildCx(l.backend, l.parent, l.waker), l.state)
}

// fail records err and reports it to the global handler. Panics were
// already reported when they were recovered.
func (l *loop[D, R]) fail(op string, err error) error {
	kind := errors.KindOf(err)
	l.cfg.metrics.RecordError(err)
	l.cfg.logger.Error().Str("op", op).Stringer("kind", kind).Err(err).Msg("run loop stopped")

	var pe *errors.PanicError
	if errors.As(err, &pe) {
		return err
	}
	var re *errors.RavelError
	if !errors.As(err, &re) {
		re = &errors.RavelError{Op: op, Kind: kind, Err: err}
	}
	errors.Report(re)
	return err
}
