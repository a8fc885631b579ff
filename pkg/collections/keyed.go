// Package collections provides reconcilers for dynamic lists of views.
//
// [Keyed] and [Map] match entries by key, so a surviving key keeps its
// state across cycles no matter what is inserted or removed around it.
// [Slice] and [Seq] match entries by position only.
//
// Every entry is preceded by a header marker and the region is closed by a
// footer marker. Entries are removed by position, so an entry must build
// nodes: an attribute or listener in an entry fails with a shape error.
package collections

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

const marker = "|"

// discard undoes a failed build: it removes the entries from first (nil
// when none was built) together with the footer.
func discard(cx core.BuildCx, first, footer dom.Node) {
	if first != nil {
		if dom.ClearThrough(cx.Backend, cx.Parent, first, footer) != nil {
			return
		}
	}
	cx.Backend.RemoveChild(cx.Parent, footer)
}

// KeyedView reconciles an ordered key/value sequence.
type KeyedView[O, K, V any] struct {
	seq     iter.Seq2[K, V]
	compare func(a, b K) int
	render  func(cx core.Cx[O], key K, value V) core.Token[O]
}

// Keyed returns a view with one entry per pair of seq. seq must yield keys
// in strictly ascending order according to compare; render is called once
// per entry on every build and rebuild and must call [core.Cx.Build].
func Keyed[O, K, V any](
	seq iter.Seq2[K, V],
	compare func(a, b K) int,
	render func(cx core.Cx[O], key K, value V) core.Token[O],
) KeyedView[O, K, V] {
	return KeyedView[O, K, V]{seq: seq, compare: compare, render: render}
}

// Map is [Keyed] over a Go map, visiting keys in ascending order.
func Map[O any, K cmp.Ordered, V any](
	m map[K]V,
	render func(cx core.Cx[O], key K, value V) core.Token[O],
) KeyedView[O, K, V] {
	keys := slices.Sorted(maps.Keys(m))
	var seq iter.Seq2[K, V] = func(yield func(K, V) bool) {
		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
	return Keyed(seq, cmp.Compare[K], render)
}

func (kv KeyedView[O, K, V]) item(key K, value V) core.WithView[O] {
	return core.With(func(cx core.Cx[O]) core.Token[O] {
		return kv.render(cx, key, value)
	})
}

func (kv KeyedView[O, K, V]) checkOrder(op string, prev K, hasPrev bool, key K) error {
	if hasPrev && kv.compare(prev, key) >= 0 {
		return &errors.ShapeError{
			Op:   op,
			Want: fmt.Sprintf("key after %v", prev),
			Got:  fmt.Sprintf("%v", key),
		}
	}
	return nil
}

// Build implements core.View.
func (kv KeyedView[O, K, V]) Build(cx core.BuildCx) (core.State[O], error) {
	const op = "collections.Keyed.Build"
	footer, err := cx.InsertMarker(marker)
	if err != nil {
		return nil, errors.Backend(op, err)
	}
	s := &KeyedState[O, K]{footer: footer}
	fail := func(err error) (core.State[O], error) {
		s.Dispose()
		var first dom.Node
		if len(s.entries) > 0 {
			first = s.entries[0].header
		}
		discard(cx, first, footer)
		return nil, err
	}

	at := cx
	at.Before = footer
	var (
		prev    K
		hasPrev bool
	)
	for key, value := range kv.seq {
		if err := kv.checkOrder(op, prev, hasPrev, key); err != nil {
			return fail(err)
		}
		prev, hasPrev = key, true

		e, err := kv.build(op, at, key, value)
		if err != nil {
			return fail(err)
		}
		s.entries = append(s.entries, e)
	}
	return s, nil
}

func (kv KeyedView[O, K, V]) build(op string, cx core.BuildCx, key K, value V) (*keyedEntry[O, K], error) {
	header, err := cx.InsertMarker(marker)
	if err != nil {
		return nil, errors.Backend(op, err)
	}
	state, err := kv.item(key, value).Build(cx.InRegion(op))
	if err != nil {
		cx.Backend.RemoveChild(cx.Parent, header)
		return nil, err
	}
	return &keyedEntry[O, K]{key: key, header: header, state: state}, nil
}

// Rebuild implements core.View.
//
// Existing entries and the new source are merged in a single pass:
//   - equal keys are rebuilt in place;
//   - a source key smaller than the next existing key is new, and is
//     inserted just before that entry's header;
//   - an existing key smaller than the next source key, or left over once
//     the source is exhausted, is removed together with its nodes;
//   - source keys left over once existing entries run out are appended
//     before the footer.
func (kv KeyedView[O, K, V]) Rebuild(cx core.RebuildCx, state core.State[O]) error {
	const op = "collections.Keyed.Rebuild"
	s, err := core.StateAs[*KeyedState[O, K]](op, state)
	if err != nil {
		return err
	}

	next, stop := iter.Pull2(kv.seq)
	defer stop()

	old := s.entries
	merged := make([]*keyedEntry[O, K], 0, len(old))
	i := 0
	// Whatever happens, the state keeps every entry still in the tree.
	defer func() {
		s.entries = append(merged, old[i:]...)
	}()

	var (
		prev    K
		hasPrev bool
	)
	key, value, ok := next()
	for ok || i < len(old) {
		if ok {
			if err := kv.checkOrder(op, prev, hasPrev, key); err != nil {
				return err
			}
		}

		var c int
		switch {
		case !ok:
			c = 1
		case i == len(old):
			c = -1
		default:
			c = kv.compare(key, old[i].key)
		}

		switch {
		case c == 0:
			if err := kv.item(key, value).Rebuild(cx, old[i].state); err != nil {
				return err
			}
			merged = append(merged, old[i])
			i++
		case c < 0:
			before := s.footer
			if i < len(old) {
				before = old[i].header
			}
			e, err := kv.build(op, cx.At(before), key, value)
			if err != nil {
				return err
			}
			merged = append(merged, e)
		default:
			end := s.footer
			if i+1 < len(old) {
				end = old[i+1].header
			}
			e := old[i]
			i++
			e.state.Dispose()
			if err := dom.ClearThrough(cx.Backend, cx.Parent, e.header, end); err != nil {
				return errors.Backend(op, err)
			}
			continue
		}

		prev, hasPrev = key, true
		key, value, ok = next()
	}
	return nil
}

type keyedEntry[O, K any] struct {
	key    K
	header dom.Node
	state  core.State[O]
}

// KeyedState is the state of a Keyed or Map view.
type KeyedState[O, K any] struct {
	entries []*keyedEntry[O, K]
	footer  dom.Node
}

// Len returns the number of entries.
func (s *KeyedState[O, K]) Len() int {
	return len(s.entries)
}

// Keys returns the entry keys in order.
func (s *KeyedState[O, K]) Keys() []K {
	keys := make([]K, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

// At returns the key and state of the i-th entry.
func (s *KeyedState[O, K]) At(i int) (K, core.State[O]) {
	e := s.entries[i]
	return e.key, e.state
}

// Run implements core.State, visiting entries in key order.
func (s *KeyedState[O, K]) Run(out *float.Float[O]) error {
	for _, e := range s.entries {
		if err := e.state.Run(out); err != nil {
			return err
		}
	}
	return nil
}

// Dispose implements core.State.
func (s *KeyedState[O, K]) Dispose() {
	for _, e := range s.entries {
		e.state.Dispose()
	}
}
