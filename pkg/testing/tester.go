package testing

import (
	"testing"

	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// ErrNotMounted is returned by operations that need a mounted tree.
var ErrNotMounted = errors.New("tester: tree not mounted")

// RenderFunc renders the model into a view.
type RenderFunc[O any] func(cx core.Cx[O], model O) core.Token[O]

// Tester drives a view tree without a run loop. It performs the same build,
// run and rebuild steps as the run loop, one at a time, against an
// in-memory document.
type Tester[O any] struct {
	doc    *memdom.Document
	waker  *dom.Waker
	model  float.Float[O]
	render RenderFunc[O]
	state  core.State[O]
}

// NewTester creates a tester with an initial model. Call Cleanup when done,
// or use NewTesterWithT instead.
func NewTester[O any](model O, render RenderFunc[O]) *Tester[O] {
	return &Tester[O]{
		doc:    memdom.New(),
		waker:  dom.NewWaker(),
		model:  float.New(model),
		render: render,
	}
}

// NewTesterWithT creates a tester that is cleaned up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT[O any](t *testing.T, model O, render RenderFunc[O]) *Tester[O] {
	tester := NewTester(model, render)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup disposes the mounted state, cancelling its listeners.
func (t *Tester[O]) Cleanup() {
	if t.state != nil {
		t.state.Dispose()
		t.state = nil
	}
}

func (t *Tester[O]) view() (core.View[O], error) {
	m, err := t.model.Get()
	if err != nil {
		return nil, err
	}
	return core.With(func(cx core.Cx[O]) core.Token[O] {
		return t.render(cx, m)
	}), nil
}

// Mount builds the tree for the current model into the document body,
// replacing any tree mounted before.
func (t *Tester[O]) Mount() error {
	if t.state != nil {
		t.state.Dispose()
		t.state = nil
		t.doc = memdom.New()
	}
	v, err := t.view()
	if err != nil {
		return err
	}
	state, err := v.Build(core.NewBuildCx(t.doc, t.doc.Body(), t.waker))
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

// Run performs a run pass: handlers of recorded events are applied to the
// model. As in the run loop, the model is floated through the tree, so a
// handler that panics leaves it poisoned and Run returns the recovered
// *errors.PanicError.
func (t *Tester[O]) Run() (err error) {
	if t.state == nil {
		return ErrNotMounted
	}
	t.waker.Pending()
	defer errors.RecoverInto("testing.Run", &err)
	var runErr error
	floatErr := t.model.Float(func(m O) O {
		pass := float.New(m)
		runErr = t.state.Run(&pass)
		next, err := pass.Take()
		if err != nil {
			panic(errors.Poison("testing.Run", err))
		}
		return next
	})
	if floatErr != nil {
		return errors.Poison("testing.Run", floatErr)
	}
	return runErr
}

// Rebuild renders the current model and reconciles the mounted tree.
func (t *Tester[O]) Rebuild() error {
	if t.state == nil {
		return ErrNotMounted
	}
	v, err := t.view()
	if err != nil {
		return err
	}
	return v.Rebuild(core.NewRebuildCx(t.doc, t.doc.Body(), t.waker), t.state)
}

// Pump runs one cycle: a run pass followed by a rebuild.
func (t *Tester[O]) Pump() error {
	if err := t.Run(); err != nil {
		return err
	}
	return t.Rebuild()
}

// Model returns the current model.
func (t *Tester[O]) Model() (O, error) {
	return t.model.Get()
}

// SetModel replaces the model. The tree is updated on the next Rebuild.
func (t *Tester[O]) SetModel(model O) {
	t.model = float.New(model)
}

// Update applies fn to the model, as a sync callback would.
func (t *Tester[O]) Update(fn func(*O)) error {
	p, err := t.model.Ptr()
	if err != nil {
		return err
	}
	fn(p)
	return nil
}

// State returns the root state, or nil before Mount.
func (t *Tester[O]) State() core.State[O] {
	return t.state
}

// Document returns the in-memory document.
func (t *Tester[O]) Document() *memdom.Document {
	return t.doc
}

// Body returns the mount point.
func (t *Tester[O]) Body() *memdom.Node {
	return t.doc.Body()
}

// HTML serialises the mounted tree without position markers.
func (t *Tester[O]) HTML() string {
	return t.doc.Body().CleanHTML()
}

// Stats returns the backend call counters.
func (t *Tester[O]) Stats() memdom.Stats {
	return t.doc.Stats()
}

// ResetStats zeroes the backend call counters.
func (t *Tester[O]) ResetStats() {
	t.doc.ResetStats()
}

// Woken reports whether a listener has signalled since the last run pass.
// It does not consume the signal.
func (t *Tester[O]) Woken() bool {
	if t.waker.Pending() {
		t.waker.Wake()
		return true
	}
	return false
}

// Find evaluates a finder against the document body.
func (t *Tester[O]) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.doc.Body()),
		finder: finder,
	}
}
