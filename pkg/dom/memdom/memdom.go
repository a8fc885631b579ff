// Package memdom implements dom.Backend as an in-memory node tree.
//
// It counts every mutation, which makes it suitable for verifying that
// rebuilds perform minimal work, and it can serialise the tree to HTML and
// dispatch synthetic events. The CLI and the testing harness render through
// it.
package memdom

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-drift/ravel/pkg/dom"
)

// Kind identifies the type of a Node.
type Kind int

const (
	// ElementNode is an element with a tag, attributes and children.
	ElementNode Kind = iota
	// TextNode holds character data.
	TextNode
	// MarkerNode is an inert comment used as a position marker.
	MarkerNode
)

func (k Kind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case MarkerNode:
		return "marker"
	default:
		return "unknown"
	}
}

// ErrForeignNode is returned when an operation receives a node handle that
// was not created by the same Document.
var ErrForeignNode = errors.New("memdom: node does not belong to this document")

// Stats counts backend calls since the last Reset.
type Stats struct {
	Creates          int
	Inserts          int
	Removes          int
	SetData          int
	SetAttributes    int
	RemoveAttributes int
	Listens          int
	Cancels          int
}

// Mutations returns the number of calls that changed the tree.
func (s Stats) Mutations() int {
	return s.Creates + s.Inserts + s.Removes + s.SetData + s.SetAttributes + s.RemoveAttributes
}

// Document is an in-memory dom.Backend.
type Document struct {
	mu    sync.Mutex
	body  *Node
	stats Stats

	// FailOn, if set, is consulted before every mutating call with the
	// operation name ("InsertBefore", "SetAttribute", ...). A non-nil
	// result is returned instead of performing the call.
	FailOn func(op string) error
}

// Node is a node of a Document.
type Node struct {
	doc       *Document
	kind      Kind
	tag       string
	data      string
	attrs     []attr
	parent    *Node
	children  []*Node
	listeners []*listener
}

type attr struct {
	name, value string
}

type listener struct {
	node      *Node
	event     string
	opts      dom.ListenOptions
	fn        func(dom.Event)
	cancelled bool
}

// New creates a Document with an empty <body> element.
func New() *Document {
	d := &Document{}
	d.body = &Node{doc: d, kind: ElementNode, tag: "body"}
	return d
}

// Body returns the document's root element.
func (d *Document) Body() *Node {
	return d.body
}

// Stats returns the counters accumulated since the last Reset.
func (d *Document) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// ResetStats zeroes the counters.
func (d *Document) ResetStats() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = Stats{}
}

func (d *Document) fail(op string) error {
	if d.FailOn == nil {
		return nil
	}
	return d.FailOn(op)
}

func (d *Document) node(n dom.Node) (*Node, error) {
	node, ok := n.(*Node)
	if !ok || node == nil || node.doc != d {
		return nil, fmt.Errorf("%w: %T", ErrForeignNode, n)
	}
	return node, nil
}

// CreateElement implements dom.Backend.
func (d *Document) CreateElement(tag string) (dom.Node, error) {
	return d.create("CreateElement", ElementNode, tag, "")
}

// CreateText implements dom.Backend.
func (d *Document) CreateText(data string) (dom.Node, error) {
	return d.create("CreateText", TextNode, "", data)
}

// CreateMarker implements dom.Backend.
func (d *Document) CreateMarker(data string) (dom.Node, error) {
	return d.create("CreateMarker", MarkerNode, "", data)
}

func (d *Document) create(op string, kind Kind, tag, data string) (dom.Node, error) {
	if err := d.fail(op); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Creates++
	return &Node{doc: d, kind: kind, tag: tag, data: data}, nil
}

// InsertBefore implements dom.Backend.
func (d *Document) InsertBefore(parent, node, ref dom.Node) error {
	if err := d.fail("InsertBefore"); err != nil {
		return err
	}
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	n, err := d.node(node)
	if err != nil {
		return err
	}
	var r *Node
	if ref != nil {
		if r, err = d.node(ref); err != nil {
			return err
		}
	}
	if p.kind != ElementNode {
		return fmt.Errorf("memdom: cannot insert into %s node", p.kind)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if n.parent != nil {
		n.parent.detach(n)
	}
	idx := len(p.children)
	if r != nil {
		idx = slices.Index(p.children, r)
		if idx < 0 {
			return fmt.Errorf("memdom: reference node is not a child of parent")
		}
	}
	p.children = slices.Insert(p.children, idx, n)
	n.parent = p
	d.stats.Inserts++
	return nil
}

// RemoveChild implements dom.Backend.
func (d *Document) RemoveChild(parent, child dom.Node) error {
	if err := d.fail("RemoveChild"); err != nil {
		return err
	}
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if c.parent != p {
		return fmt.Errorf("memdom: node is not a child of parent")
	}
	p.detach(c)
	d.stats.Removes++
	return nil
}

func (n *Node) detach(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	child.parent = nil
}

// NextSibling implements dom.Backend.
func (d *Document) NextSibling(n dom.Node) dom.Node {
	node, err := d.node(n)
	if err != nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if node.parent == nil {
		return nil
	}
	siblings := node.parent.children
	i := slices.Index(siblings, node)
	if i < 0 || i+1 >= len(siblings) {
		return nil
	}
	return siblings[i+1]
}

// SetData implements dom.Backend.
func (d *Document) SetData(text dom.Node, data string) error {
	if err := d.fail("SetData"); err != nil {
		return err
	}
	n, err := d.node(text)
	if err != nil {
		return err
	}
	if n.kind == ElementNode {
		return fmt.Errorf("memdom: cannot set data of element node")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	n.data = data
	d.stats.SetData++
	return nil
}

// SetAttribute implements dom.Backend.
func (d *Document) SetAttribute(el dom.Node, name, value string) error {
	if err := d.fail("SetAttribute"); err != nil {
		return err
	}
	n, err := d.element(el)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.SetAttributes++
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return nil
		}
	}
	n.attrs = append(n.attrs, attr{name: name, value: value})
	return nil
}

// RemoveAttribute implements dom.Backend.
func (d *Document) RemoveAttribute(el dom.Node, name string) error {
	if err := d.fail("RemoveAttribute"); err != nil {
		return err
	}
	n, err := d.element(el)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.RemoveAttributes++
	n.attrs = slices.DeleteFunc(n.attrs, func(a attr) bool { return a.name == name })
	return nil
}

func (d *Document) element(el dom.Node) (*Node, error) {
	n, err := d.node(el)
	if err != nil {
		return nil, err
	}
	if n.kind != ElementNode {
		return nil, fmt.Errorf("memdom: %s node has no attributes", n.kind)
	}
	return n, nil
}

// Listen implements dom.Backend.
func (d *Document) Listen(target dom.Node, event string, opts dom.ListenOptions, fn func(dom.Event)) (dom.Listener, error) {
	if err := d.fail("Listen"); err != nil {
		return nil, err
	}
	n, err := d.node(target)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	l := &listener{node: n, event: event, opts: opts, fn: fn}
	n.listeners = append(n.listeners, l)
	d.stats.Listens++
	return l, nil
}

// Cancel implements dom.Listener.
func (l *listener) Cancel() {
	d := l.node.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if l.cancelled {
		return
	}
	l.cancelled = true
	l.node.listeners = slices.DeleteFunc(l.node.listeners, func(x *listener) bool { return x == l })
	d.stats.Cancels++
}

var _ dom.Backend = (*Document)(nil)
