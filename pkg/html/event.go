package html

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// EventKind names an event and whether its listener is active.
type EventKind struct {
	Name string
	// Active listeners may call dom.Event.PreventDefault. Listeners are
	// passive by default.
	Active bool
}

// Common events.
var (
	Click    = EventKind{Name: "click"}
	DblClick = EventKind{Name: "dblclick"}
	Input    = EventKind{Name: "input"}
	Change   = EventKind{Name: "change"}
	Submit   = EventKind{Name: "submit"}
	KeyDown  = EventKind{Name: "keydown"}
	Blur     = EventKind{Name: "blur"}
)

// Event returns the passive kind for a named event.
func Event(name string) EventKind {
	return EventKind{Name: name}
}

// Active returns k with an active listener.
func Active(k EventKind) EventKind {
	k.Active = true
	return k
}

// OnView subscribes a handler to events on the enclosing element.
type OnView[O any] struct {
	kind    EventKind
	handler func(out *O, ev dom.Event)
}

// On calls handler with the shared state during the run pass that follows
// an event of the given kind.
func On[O any](kind EventKind, handler func(out *O, ev dom.Event)) OnView[O] {
	return OnView[O]{kind: kind, handler: handler}
}

// On_ is [On] for handlers that do not need the event.
func On_[O any](kind EventKind, handler func(out *O)) OnView[O] {
	return On(kind, func(out *O, _ dom.Event) { handler(out) })
}

// Build implements core.View. The listener only records the event and
// wakes the run loop.
func (o OnView[O]) Build(cx core.BuildCx) (core.State[O], error) {
	const op = "html.On.Build"
	if err := cx.CheckProperty("listener for " + o.kind.Name); err != nil {
		return nil, err
	}
	if !DefaultRegistry().IsEvent(o.kind.Name) {
		return nil, buildError(op, "unknown event %q", o.kind.Name)
	}
	s := &OnState[O]{kind: o.kind, handler: o.handler, waker: cx.Waker}
	l, err := cx.Backend.Listen(cx.Parent, o.kind.Name, dom.ListenOptions{Active: o.kind.Active}, func(ev dom.Event) {
		s.cell.put(o.kind.Name, ev)
		cx.Waker.Wake()
	})
	if err != nil {
		return nil, errors.Backend(op, err)
	}
	s.listener = l
	return s, nil
}

// Rebuild implements core.View. Only the handler is replaced; the listener
// stays registered.
func (o OnView[O]) Rebuild(_ core.RebuildCx, state core.State[O]) error {
	const op = "html.On.Rebuild"
	s, err := core.StateAs[*OnState[O]](op, state)
	if err != nil {
		return err
	}
	if s.kind != o.kind {
		return &errors.ShapeError{Op: op, Want: "listener for " + s.kind.Name, Got: "listener for " + o.kind.Name}
	}
	s.handler = o.handler
	return nil
}

// OnState is the state of an event listener.
type OnState[O any] struct {
	kind     EventKind
	handler  func(out *O, ev dom.Event)
	cell     eventCell
	listener dom.Listener
	waker    *dom.Waker
}

// Run implements core.State. A pending event is handed to the handler.
func (s *OnState[O]) Run(out *float.Float[O]) error {
	ev := s.cell.take()
	if ev == nil {
		return nil
	}
	p, err := out.Ptr()
	if err != nil {
		return errors.Poison("html.On.Run", err)
	}
	s.handler(p, ev)
	s.waker.Delivered()
	return nil
}

// Dispose implements core.State, removing the listener.
func (s *OnState[O]) Dispose() {
	if s.listener != nil {
		s.listener.Cancel()
	}
}

// eventCell holds at most one undelivered event.
type eventCell struct {
	mu sync.Mutex
	ev dom.Event
}

func (c *eventCell) put(name string, ev dom.Event) {
	c.mu.Lock()
	replaced := c.ev != nil
	c.ev = ev
	c.mu.Unlock()
	if replaced {
		log.Debug().Str("event", name).Msg("undelivered event replaced")
	}
}

func (c *eventCell) take() dom.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev := c.ev
	c.ev = nil
	return ev
}
