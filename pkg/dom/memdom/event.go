package memdom

import (
	"sync/atomic"

	"github.com/go-drift/ravel/pkg/dom"
)

// Event is a synthetic event dispatched through a Document.
type Event struct {
	Name string
	// Val is reported by Value. When empty, the target's "value" attribute
	// is used instead.
	Val string

	target    *Node
	prevented atomic.Bool
}

// NewEvent creates an event named name.
func NewEvent(name string) *Event {
	return &Event{Name: name}
}

// Type implements dom.Event.
func (e *Event) Type() string { return e.Name }

// Target implements dom.Event.
func (e *Event) Target() dom.Node { return e.target }

// Value implements dom.Event.
func (e *Event) Value() string {
	if e.Val != "" || e.target == nil {
		return e.Val
	}
	v, _ := e.target.Attr("value")
	return v
}

// PreventDefault implements dom.Event.
func (e *Event) PreventDefault() { e.prevented.Store(true) }

// DefaultPrevented reports whether an active listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented.Load() }

// Dispatch delivers ev to target and then bubbles it to each ancestor,
// invoking matching listeners. Passive listeners cannot prevent the default
// action. It returns the number of listeners invoked.
//
// Dispatch may be called from any goroutine.
func (d *Document) Dispatch(target *Node, ev *Event) int {
	ev.target = target

	d.mu.Lock()
	var matched []*listener
	for n := target; n != nil; n = n.parent {
		for _, l := range n.listeners {
			if l.event == ev.Name {
				matched = append(matched, l)
			}
		}
	}
	d.mu.Unlock()

	for _, l := range matched {
		if l.opts.Active {
			l.fn(ev)
		} else {
			l.fn(passiveEvent{ev})
		}
	}
	return len(matched)
}

// passiveEvent drops PreventDefault calls.
type passiveEvent struct {
	*Event
}

func (passiveEvent) PreventDefault() {}
