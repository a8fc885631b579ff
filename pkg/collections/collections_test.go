package collections_test

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-drift/ravel/pkg/collections"
	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
	"github.com/go-drift/ravel/pkg/html"
)

type harness struct {
	t     *testing.T
	doc   *memdom.Document
	state core.State[int]
}

func mount(t *testing.T, v core.View[int]) *harness {
	t.Helper()
	doc := memdom.New()
	state, err := v.Build(core.NewBuildCx(doc, doc.Body(), dom.NewWaker()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return &harness{t: t, doc: doc, state: state}
}

func (h *harness) rebuild(v core.View[int]) error {
	return v.Rebuild(core.NewRebuildCx(h.doc, h.doc.Body(), nil), h.state)
}

func (h *harness) mustRebuild(v core.View[int]) {
	h.t.Helper()
	if err := h.rebuild(v); err != nil {
		h.t.Fatalf("Rebuild: %v", err)
	}
}

// layout describes the body as a compact string: markers as "|", text as
// its data.
func (h *harness) layout() string {
	var sb strings.Builder
	for _, c := range h.doc.Body().Children() {
		switch c.Kind() {
		case memdom.MarkerNode:
			sb.WriteString("|")
		default:
			sb.WriteString(c.TextContent())
		}
	}
	return sb.String()
}

func items(m map[int]string) collections.KeyedView[int, int, string] {
	return collections.Map(m, func(cx core.Cx[int], key int, value string) core.Token[int] {
		return cx.Build(html.Text[int](value))
	})
}

func keyedStates(t *testing.T, s core.State[int]) map[int]core.State[int] {
	t.Helper()
	ks := s.(*collections.KeyedState[int, int])
	out := make(map[int]core.State[int], ks.Len())
	for i := range ks.Len() {
		k, st := ks.At(i)
		out[k] = st
	}
	return out
}

func TestMap_BuildOrder(t *testing.T) {
	h := mount(t, items(map[int]string{3: "c", 1: "a", 2: "b"}))
	if got, want := h.layout(), "|a|b|c|"; got != want {
		t.Errorf("layout = %q, want %q", got, want)
	}
}

func TestMap_IdentityAcrossEdits(t *testing.T) {
	steps := []map[int]string{
		{1: "a", 3: "c", 5: "e"},
		// Insert in the middle.
		{1: "a", 2: "b", 3: "c", 5: "e"},
		// Mixed insert, remove and update.
		{0: "z", 2: "b", 3: "C", 6: "f"},
		// Remove both ends.
		{3: "C"},
		// Grow around a survivor.
		{1: "a", 2: "b", 3: "C", 4: "d"},
		{},
		{7: "g"},
	}

	h := mount(t, items(steps[0]))
	for i, step := range steps[1:] {
		before := keyedStates(t, h.state)
		h.mustRebuild(items(step))
		after := keyedStates(t, h.state)

		for k, st := range after {
			if old, ok := before[k]; ok && old != st {
				t.Errorf("step %d: key %d lost its state", i+1, k)
			}
		}
		if diff := gocmp.Diff(slices.Sorted(maps.Keys(step)), h.state.(*collections.KeyedState[int, int]).Keys(), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("step %d: keys (-want +got):\n%s", i+1, diff)
		}

		var want strings.Builder
		want.WriteString("|")
		for _, k := range slices.Sorted(maps.Keys(step)) {
			want.WriteString(step[k])
			want.WriteString("|")
		}
		if got := h.layout(); got != want.String() {
			t.Errorf("step %d: layout = %q, want %q", i+1, got, want.String())
		}
	}
}

func TestMap_MiddleInsertPlacement(t *testing.T) {
	h := mount(t, items(map[int]string{1: "a", 3: "c"}))
	h.doc.ResetStats()
	h.mustRebuild(items(map[int]string{1: "a", 2: "b", 3: "c"}))

	if got, want := h.layout(), "|a|b|c|"; got != want {
		t.Errorf("layout = %q, want %q", got, want)
	}
	// One header marker and one text node.
	if stats := h.doc.Stats(); stats.Creates != 2 || stats.Inserts != 2 || stats.Removes != 0 {
		t.Errorf("stats = %+v, want 2 creates, 2 inserts", stats)
	}
}

func TestMap_KeyedListScenario(t *testing.T) {
	h := mount(t, items(map[int]string{0: "a", 1: "b"}))
	survivor := keyedStates(t, h.state)[1]

	h.doc.ResetStats()
	h.mustRebuild(items(map[int]string{1: "b"}))

	if got := keyedStates(t, h.state); len(got) != 1 || got[1] != survivor {
		t.Errorf("states = %v, want only key 1 with unchanged identity", got)
	}
	if got, want := h.layout(), "|b|"; got != want {
		t.Errorf("layout = %q, want %q", got, want)
	}
	// Key 0's header and its text node.
	if stats := h.doc.Stats(); stats.Removes != 2 || stats.Creates != 0 {
		t.Errorf("stats = %+v, want exactly 2 removes", stats)
	}
}

func TestKeyed_NonAscendingSource(t *testing.T) {
	unsorted := func(yield func(int, string) bool) {
		_ = yield(2, "b") && yield(1, "a")
	}
	v := collections.Keyed(unsorted, cmp.Compare[int], func(cx core.Cx[int], _ int, value string) core.Token[int] {
		return cx.Build(html.Text[int](value))
	})

	doc := memdom.New()
	if _, err := v.Build(core.NewBuildCx(doc, doc.Body(), nil)); errors.KindOf(err) != errors.KindShape {
		t.Errorf("Build err = %v, want shape error", err)
	}

	h := mount(t, items(map[int]string{1: "a"}))
	if err := h.rebuild(v); errors.KindOf(err) != errors.KindShape {
		t.Errorf("Rebuild err = %v, want shape error", err)
	}
}

func TestKeyed_DuplicateKey(t *testing.T) {
	dup := func(yield func(string, int) bool) {
		_ = yield("a", 1) && yield("a", 2)
	}
	v := collections.Keyed(dup, strings.Compare, func(cx core.Cx[int], key string, _ int) core.Token[int] {
		return cx.Build(html.Text[int](key))
	})
	doc := memdom.New()
	if _, err := v.Build(core.NewBuildCx(doc, doc.Body(), nil)); errors.KindOf(err) != errors.KindShape {
		t.Errorf("err = %v, want shape error", err)
	}
}

func TestKeyed_RejectsProperty(t *testing.T) {
	v := collections.Map(map[int]string{1: "a"}, func(cx core.Cx[int], _ int, value string) core.Token[int] {
		return cx.Build(html.Class[int](value))
	})
	doc := memdom.New()
	if _, err := v.Build(core.NewBuildCx(doc, doc.Body(), nil)); errors.KindOf(err) != errors.KindShape {
		t.Errorf("err = %v, want shape error", err)
	}
}

func TestSlice_RejectsWrappedProperty(t *testing.T) {
	v := collections.Slice([]string{"a", "b"}, func(cx core.Cx[int], i int, value string) core.Token[int] {
		if i == 0 {
			return cx.Build(html.Text[int](value))
		}
		return cx.Build(core.With(func(cx core.Cx[int]) core.Token[int] {
			return cx.Build(html.Attr[int]("title", value))
		}))
	})
	doc := memdom.New()
	if _, err := v.Build(core.NewBuildCx(doc, doc.Body(), nil)); errors.KindOf(err) != errors.KindShape {
		t.Errorf("err = %v, want shape error", err)
	}
	if got := doc.Body().HTML(); got != "" {
		t.Errorf("html = %q, want empty", got)
	}
}

func TestKeyed_RunOrder(t *testing.T) {
	var order []int
	v := collections.Map(map[int]string{2: "b", 1: "a", 3: "c"}, func(cx core.Cx[int], key int, _ string) core.Token[int] {
		return cx.Build(runRecorder{key: key, order: &order})
	})
	h := mount(t, v)
	out := float.New(0)
	if err := h.state.Run(&out); err != nil {
		t.Fatal(err)
	}
	if diff := gocmp.Diff([]int{1, 2, 3}, order); diff != "" {
		t.Errorf("run order (-want +got):\n%s", diff)
	}
}

func list(values ...string) collections.ListView[int, string] {
	return collections.Slice(values, func(cx core.Cx[int], _ int, value string) core.Token[int] {
		return cx.Build(html.Text[int](value))
	})
}

func TestSlice_GrowShrink(t *testing.T) {
	h := mount(t, list("a", "b"))
	first := h.state.(*collections.ListState[int]).At(0)

	h.mustRebuild(list("a", "b", "c", "d"))
	if got, want := h.layout(), "|a|b|c|d|"; got != want {
		t.Errorf("grow layout = %q, want %q", got, want)
	}

	h.mustRebuild(list("x"))
	if got, want := h.layout(), "|x|"; got != want {
		t.Errorf("shrink layout = %q, want %q", got, want)
	}
	s := h.state.(*collections.ListState[int])
	if s.Len() != 1 || s.At(0) != first {
		t.Errorf("Len = %d, first state preserved = %v", s.Len(), s.At(0) == first)
	}

	h.mustRebuild(list())
	if got, want := h.layout(), "|"; got != want {
		t.Errorf("empty layout = %q, want %q", got, want)
	}
}

func TestSlice_SwapRebuildsInPlace(t *testing.T) {
	h := mount(t, list("a", "b"))
	h.doc.ResetStats()
	h.mustRebuild(list("b", "a"))
	if stats := h.doc.Stats(); stats.SetData != 2 || stats.Creates != 0 || stats.Removes != 0 {
		t.Errorf("stats = %+v, want two SetData and no structural change", stats)
	}
}

func TestSlice_ShrinkCancelsListeners(t *testing.T) {
	buttons := func(n int) core.View[int] {
		return collections.Slice(make([]struct{}, n), func(cx core.Cx[int], _ int, _ struct{}) core.Token[int] {
			return cx.Build(html.El[int]("button", html.On_(html.Click, func(n *int) { *n++ })))
		})
	}
	h := mount(t, buttons(3))
	h.mustRebuild(buttons(1))
	if stats := h.doc.Stats(); stats.Cancels != 2 {
		t.Errorf("Cancels = %d, want 2", stats.Cancels)
	}
}

func TestSeq(t *testing.T) {
	seq := func(values ...string) core.View[int] {
		return collections.Seq(slices.Values(values), func(cx core.Cx[int], i int, value string) core.Token[int] {
			return cx.Build(html.Textf[int]("%d:%s", i, value))
		})
	}
	h := mount(t, seq("a", "b", "c"))
	h.mustRebuild(seq("x", "y"))
	if got, want := h.layout(), "|0:x|1:y|"; got != want {
		t.Errorf("layout = %q, want %q", got, want)
	}
}

type runRecorder struct {
	key   int
	order *[]int
}

func (p runRecorder) Build(cx core.BuildCx) (core.State[int], error) {
	if _, err := cx.InsertMarker("rec"); err != nil {
		return nil, err
	}
	return &recorderState{p}, nil
}

func (p runRecorder) Rebuild(core.RebuildCx, core.State[int]) error { return nil }

type recorderState struct{ p runRecorder }

func (s *recorderState) Run(*float.Float[int]) error {
	*s.p.order = append(*s.p.order, s.p.key)
	return nil
}

func (s *recorderState) Dispose() {}
