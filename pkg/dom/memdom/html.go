package memdom

import (
	"html"
	"strings"
)

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element tag ("" for text and marker nodes).
func (n *Node) Tag() string { return n.tag }

// Data returns the data of a text or marker node.
func (n *Node) Data() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.data
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// Attribute is a name/value pair of an element.
type Attribute struct {
	Name  string
	Value string
}

// Attrs returns the element's attributes in the order they were first set.
func (n *Node) Attrs() []Attribute {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	out := make([]Attribute, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = Attribute{Name: a.name, Value: a.value}
	}
	return out
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.parent
}

// Children returns a snapshot of the node's children.
func (n *Node) Children() []*Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return append([]*Node(nil), n.children...)
}

// Listeners returns the number of live listeners for event on this node.
func (n *Node) Listeners(event string) int {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	count := 0
	for _, l := range n.listeners {
		if l.event == event {
			count++
		}
	}
	return count
}

// Walk visits n and its descendants in document order until visit returns
// false.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.Children() {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// Count returns the number of descendants of n (excluding n).
func (n *Node) Count() int {
	count := -1
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// TextContent concatenates the data of all descendant text nodes.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.kind == TextNode {
			sb.WriteString(c.Data())
		}
		return true
	})
	return sb.String()
}

// HTML serialises the children of n. Markers are rendered as comments.
func (n *Node) HTML() string {
	var sb strings.Builder
	for _, c := range n.Children() {
		c.write(&sb, true)
	}
	return sb.String()
}

// CleanHTML serialises the children of n without position markers.
func (n *Node) CleanHTML() string {
	var sb strings.Builder
	for _, c := range n.Children() {
		c.write(&sb, false)
	}
	return sb.String()
}

// OuterHTML serialises n itself, including markers.
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	n.write(&sb, true)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, markers bool) {
	switch n.kind {
	case TextNode:
		sb.WriteString(html.EscapeString(n.Data()))
	case MarkerNode:
		if markers {
			sb.WriteString("<!--")
			sb.WriteString(n.Data())
			sb.WriteString("-->")
		}
	case ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.tag)
		n.doc.mu.Lock()
		attrs := append([]attr(nil), n.attrs...)
		n.doc.mu.Unlock()
		for _, a := range attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.name)
			if a.value != "" {
				sb.WriteString(`="`)
				sb.WriteString(html.EscapeString(a.value))
				sb.WriteByte('"')
			}
		}
		sb.WriteByte('>')
		for _, c := range n.Children() {
			c.write(sb, markers)
		}
		sb.WriteString("</")
		sb.WriteString(n.tag)
		sb.WriteByte('>')
	}
}
