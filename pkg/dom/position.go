package dom

import "fmt"

// Position is an insertion point: new nodes go under Parent, before Before
// (or at the end when Before is nil).
type Position struct {
	Backend Backend
	Parent  Node
	Before  Node
}

// Insert places node at the position.
func (p Position) Insert(node Node) error {
	return p.Backend.InsertBefore(p.Parent, node, p.Before)
}

// InsertMarker creates a marker with the given data and inserts it.
func (p Position) InsertMarker(data string) (Node, error) {
	m, err := p.Backend.CreateMarker(data)
	if err != nil {
		return nil, err
	}
	if err := p.Insert(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Clear removes every child of parent strictly between start and end.
// start and end themselves stay in place.
func Clear(b Backend, parent, start, end Node) error {
	for {
		next := b.NextSibling(start)
		if next == nil {
			return fmt.Errorf("end marker not found after start marker")
		}
		if next == end {
			return nil
		}
		if err := b.RemoveChild(parent, next); err != nil {
			return err
		}
	}
}

// ClearThrough removes every child of parent from start up to, but not
// including, end. Unlike Clear, start is removed as well.
func ClearThrough(b Backend, parent, start, end Node) error {
	if err := Clear(b, parent, start, end); err != nil {
		return err
	}
	return b.RemoveChild(parent, start)
}
