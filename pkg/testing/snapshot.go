package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/ravel/pkg/dom/memdom"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the structure of the mounted document.
type Snapshot struct {
	Tree []*DOMNode `json:"tree"`
	HTML string     `json:"html"`
}

// DOMNode represents a node in the serialized document.
type DOMNode struct {
	Type     string            `json:"type"`
	Tag      string            `json:"tag,omitempty"`
	Data     string            `json:"data,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*DOMNode        `json:"children,omitempty"`
}

// CaptureSnapshot captures the current document, position markers
// included.
func (t *Tester[O]) CaptureSnapshot() *Snapshot {
	return CaptureDocument(t.doc)
}

// CaptureDocument captures the body of doc, position markers included.
func CaptureDocument(doc *memdom.Document) *Snapshot {
	body := doc.Body()
	snap := &Snapshot{HTML: body.HTML()}
	for _, c := range body.Children() {
		snap.Tree = append(snap.Tree, captureNode(c))
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// RAVEL_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("RAVEL_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: RAVEL_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got)\n%s\n\nTo update: RAVEL_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a diff between other (expected) and this snapshot (actual).
// Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

// --- Internal ---

func captureNode(n *memdom.Node) *DOMNode {
	node := &DOMNode{Type: n.Kind().String()}
	switch n.Kind() {
	case memdom.ElementNode:
		node.Tag = n.Tag()
		if attrs := n.Attrs(); len(attrs) > 0 {
			node.Attrs = make(map[string]string, len(attrs))
			for _, a := range attrs {
				node.Attrs[a.Name] = a.Value
			}
		}
		for _, c := range n.Children() {
			node.Children = append(node.Children, captureNode(c))
		}
	default:
		node.Data = n.Data()
	}
	return node
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
