package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/ravel/pkg/dom/memdom"
)

// Finder locates nodes in the document.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first
	// pre-order, root excluded).
	Evaluate(root *memdom.Node) []*memdom.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*memdom.Node
	finder Finder
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *memdom.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *memdom.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *memdom.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in document order.
func (r FinderResult) All() []*memdom.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Texts returns the text content of every match.
func (r FinderResult) Texts() []string {
	out := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = n.TextContent()
	}
	return out
}

// --- Concrete finders ---

type predicateFinder struct {
	fn   func(*memdom.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *memdom.Node) []*memdom.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn:   func(n *memdom.Node) bool { return n.Kind() == memdom.ElementNode && n.Tag() == tag },
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByText returns a finder that matches elements whose own text children
// concatenate to exactly text.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(n *memdom.Node) bool { return n.Kind() == memdom.ElementNode && ownText(n) == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches elements whose own text
// contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: func(n *memdom.Node) bool {
			return n.Kind() == memdom.ElementNode && strings.Contains(ownText(n), substring)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByAttr returns a finder that matches elements whose attribute name
// equals value.
func ByAttr(name, value string) Finder {
	return &predicateFinder{
		fn: func(n *memdom.Node) bool {
			v, ok := n.Attr(name)
			return ok && v == value
		},
		desc: fmt.Sprintf("ByAttr(%s=%q)", name, value),
	}
}

// ByClass returns a finder that matches elements with class name among
// their classes.
func ByClass(name string) Finder {
	return &predicateFinder{
		fn: func(n *memdom.Node) bool {
			v, ok := n.Attr("class")
			if !ok {
				return false
			}
			for _, c := range strings.Fields(v) {
				if c == name {
					return true
				}
			}
			return false
		},
		desc: fmt.Sprintf("ByClass(%q)", name),
	}
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*memdom.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' that are descendants
// of nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *memdom.Node) []*memdom.Node {
	var results []*memdom.Node
	seen := make(map[*memdom.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, match := range f.matching.Evaluate(ancestor) {
			if !seen[match] {
				seen[match] = true
				results = append(results, match)
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' that are ancestors of
// nodes matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *memdom.Node) []*memdom.Node {
	candidates := make(map[*memdom.Node]bool)
	for _, n := range f.matching.Evaluate(root) {
		candidates[n] = true
	}
	var results []*memdom.Node
	seen := make(map[*memdom.Node]bool)
	for _, desc := range f.of.Evaluate(root) {
		for p := desc.Parent(); p != nil && p != root; p = p.Parent() {
			if candidates[p] && !seen[p] {
				seen[p] = true
				results = append(results, p)
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches nodes satisfying 'matching' that
// are ancestors of nodes matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func ownText(n *memdom.Node) string {
	var sb strings.Builder
	for _, c := range n.Children() {
		if c.Kind() == memdom.TextNode {
			sb.WriteString(c.Data())
		}
	}
	return sb.String()
}

// collectMatches performs a depth-first pre-order traversal below root,
// collecting nodes that satisfy the predicate.
func collectMatches(root *memdom.Node, predicate func(*memdom.Node) bool) []*memdom.Node {
	var results []*memdom.Node
	for _, c := range root.Children() {
		c.Walk(func(n *memdom.Node) bool {
			if predicate(n) {
				results = append(results, n)
			}
			return true
		})
	}
	return results
}
