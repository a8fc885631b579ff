package testing

import (
	"fmt"

	"github.com/go-drift/ravel/pkg/dom/memdom"
)

// Tap dispatches a click on the first node matched by finder.
func (t *Tester[O]) Tap(finder Finder) error {
	return t.Fire(finder, memdom.NewEvent("click"))
}

// EnterText dispatches an input event carrying text to the first node
// matched by finder. The value attribute is left untouched.
func (t *Tester[O]) EnterText(finder Finder, text string) error {
	ev := memdom.NewEvent("input")
	ev.Val = text
	return t.Fire(finder, ev)
}

// Submit dispatches a submit event on the first node matched by finder.
func (t *Tester[O]) Submit(finder Finder) error {
	return t.Fire(finder, memdom.NewEvent("submit"))
}

// Fire dispatches ev on the first node matched by finder. It fails when
// nothing matched or no listener received the event.
func (t *Tester[O]) Fire(finder Finder, ev *memdom.Event) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Fire(%s): finder matched no nodes: %s", ev.Name, finder.Description())
	}
	if n := t.doc.Dispatch(result.First(), ev); n == 0 {
		return fmt.Errorf("Fire(%s): no listener on %s", ev.Name, finder.Description())
	}
	return nil
}
