// Package dom defines the capability surface a rendering backend must
// provide to the Ravel reconciler.
//
// The reconciler never talks to a concrete document. It creates nodes,
// inserts and removes them, writes text data and attributes, and subscribes
// to events exclusively through [Backend]. Node handles are opaque to the
// core; a browser backend would use its own element references, while
// package memdom provides an in-memory tree for tests and tooling.
package dom

// Node is an opaque handle to a backend node (element, text or marker).
// Handles must be comparable.
type Node any

// ListenOptions configures an event subscription.
type ListenOptions struct {
	// Active listeners may call Event.PreventDefault. Passive listeners
	// (the default) promise not to, which lets hosts optimise scrolling and
	// touch handling.
	Active bool
}

// Event is a native event delivered to a listener.
type Event interface {
	// Type returns the event name, e.g. "click".
	Type() string
	// Target returns the node the event was dispatched to.
	Target() Node
	// Value returns the current value of the target for form controls
	// ("" when not applicable).
	Value() string
	// PreventDefault suppresses the host's default action. Only effective
	// for active listeners.
	PreventDefault()
}

// Listener is a live event subscription.
type Listener interface {
	// Cancel removes the subscription. It is safe to call more than once.
	Cancel()
}

// Backend is the set of primitive operations the reconciler requires.
//
// All methods are called from the single task driving a UI instance. The
// callback given to Listen may be invoked from any goroutine; it only
// records the event and wakes that task.
type Backend interface {
	// CreateElement creates a detached element node with the given tag.
	CreateElement(tag string) (Node, error)
	// CreateText creates a detached text node.
	CreateText(data string) (Node, error)
	// CreateMarker creates a detached, inert marker node (a comment in
	// HTML) used to bracket dynamic regions.
	CreateMarker(data string) (Node, error)

	// InsertBefore inserts node under parent before ref. A nil ref appends.
	InsertBefore(parent, node, ref Node) error
	// RemoveChild removes child from parent.
	RemoveChild(parent, child Node) error
	// NextSibling returns the node following n, or nil.
	NextSibling(n Node) Node

	// SetData replaces the data of a text node.
	SetData(text Node, data string) error
	// SetAttribute sets a named attribute on an element.
	SetAttribute(el Node, name, value string) error
	// RemoveAttribute removes a named attribute from an element.
	RemoveAttribute(el Node, name string) error

	// Listen subscribes fn to events named event on target.
	Listen(target Node, event string, opts ListenOptions, fn func(Event)) (Listener, error)
}
