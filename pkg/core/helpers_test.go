package core

import (
	"testing"

	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/float"
)

// leaf is a text node view whose state optionally touches the shared value
// during a run pass.
type leaf[O any] struct {
	data  string
	onRun func(*O)
}

func text[O any](data string) leaf[O] {
	return leaf[O]{data: data}
}

func (l leaf[O]) Build(cx BuildCx) (State[O], error) {
	n, err := cx.Backend.CreateText(l.data)
	if err != nil {
		return nil, err
	}
	if err := cx.Insert(n); err != nil {
		return nil, err
	}
	return &leafState[O]{node: n, data: l.data, onRun: l.onRun}, nil
}

func (l leaf[O]) Rebuild(cx RebuildCx, state State[O]) error {
	s, err := StateAs[*leafState[O]]("leaf.Rebuild", state)
	if err != nil {
		return err
	}
	s.onRun = l.onRun
	if s.data == l.data {
		return nil
	}
	s.data = l.data
	return cx.Backend.SetData(s.node, l.data)
}

type leafState[O any] struct {
	node     dom.Node
	data     string
	onRun    func(*O)
	runs     int
	disposed bool
}

func (s *leafState[O]) Run(out *float.Float[O]) error {
	s.runs++
	if s.onRun == nil {
		return nil
	}
	p, err := out.Ptr()
	if err != nil {
		return err
	}
	s.onRun(p)
	return nil
}

func (s *leafState[O]) Dispose() {
	s.disposed = true
}

// prop behaves like an attribute of the parent element but touches
// nothing.
type prop[O any] struct{}

func (prop[O]) Build(cx BuildCx) (State[O], error) {
	if err := cx.CheckProperty("prop"); err != nil {
		return nil, err
	}
	return &leafState[O]{}, nil
}

func (prop[O]) Rebuild(RebuildCx, State[O]) error { return nil }

type harness[O any] struct {
	t     *testing.T
	doc   *memdom.Document
	waker *dom.Waker
	state State[O]
}

func mount[O any](t *testing.T, v View[O]) *harness[O] {
	t.Helper()
	h := &harness[O]{t: t, doc: memdom.New(), waker: dom.NewWaker()}
	state, err := v.Build(NewBuildCx(h.doc, h.doc.Body(), h.waker))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	h.state = state
	return h
}

func (h *harness[O]) rebuild(v View[O]) error {
	return v.Rebuild(NewRebuildCx(h.doc, h.doc.Body(), h.waker), h.state)
}

func (h *harness[O]) mustRebuild(v View[O]) {
	h.t.Helper()
	if err := h.rebuild(v); err != nil {
		h.t.Fatalf("Rebuild: %v", err)
	}
}

func (h *harness[O]) html() string {
	return h.doc.Body().HTML()
}
