package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/ravel/pkg/dom/memdom"
)

func TestGroup_OrderAndRun(t *testing.T) {
	var order []string
	record := func(name string) leaf[int] {
		return leaf[int]{data: name, onRun: func(*int) { order = append(order, name) }}
	}
	h := mount[int](t, Group[int](record("a"), record("b"), record("c")))
	if got := h.html(); got != "abc" {
		t.Fatalf("html = %q, want %q", got, "abc")
	}

	out := newOut(0)
	if err := h.state.Run(&out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, order); diff != "" {
		t.Errorf("run order (-want +got):\n%s", diff)
	}
}

func TestGroup_LengthMismatch(t *testing.T) {
	h := mount[int](t, Group[int](text[int]("a"), text[int]("b")))
	if err := h.rebuild(Group[int](text[int]("a"))); !IsShape(err) {
		t.Fatalf("err = %v, want shape error", err)
	}
}

func TestGroup_BuildFailureDisposesBuiltMembers(t *testing.T) {
	first := &leafState[int]{}
	v := Group[int](
		recorder{state: first},
		Option[int](prop[int]{}),
	)
	h := mount[int](t, text[int]("x"))
	_, err := v.Build(NewBuildCx(h.doc, h.doc.Body(), nil))
	if !IsShape(err) {
		t.Fatalf("err = %v, want shape error", err)
	}
	if !first.disposed {
		t.Error("first member not disposed after later failure")
	}
}

func TestOption_ToggleRoundTrip(t *testing.T) {
	show := func(on bool) View[int] {
		return Group[int](
			text[int]("before"),
			When(on, func() View[int] { return text[int]("child") }),
			text[int]("after"),
		)
	}

	h := mount(t, show(true))
	initial := h.html()
	if want := "before<!--{-->child<!--}-->after"; initial != want {
		t.Fatalf("html = %q, want %q", initial, want)
	}

	h.mustRebuild(show(false))
	if got, want := h.html(), "before<!--{--><!--}-->after"; got != want {
		t.Fatalf("after hide html = %q, want %q", got, want)
	}

	h.mustRebuild(show(true))
	if diff := cmp.Diff(initial, h.html()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestOption_AbsentRebuildIsNoop(t *testing.T) {
	h := mount[int](t, Option[int](nil))
	h.doc.ResetStats()
	h.mustRebuild(Option[int](nil))
	if got := h.doc.Stats().Mutations(); got != 0 {
		t.Errorf("mutations = %d, want 0", got)
	}
}

func TestOption_DisposesChildOnHide(t *testing.T) {
	child := &leafState[int]{}
	h := mount[int](t, Option[int](recorder{state: child}))
	h.mustRebuild(Option[int](nil))
	if !child.disposed {
		t.Error("child not disposed")
	}
	s := h.state.(*OptionState[int])
	if s.Present() {
		t.Error("Present() = true after hide")
	}
	out := newOut(0)
	if err := s.Run(&out); err != nil {
		t.Errorf("Run while absent: %v", err)
	}
}

func TestRegion_RejectsProperty(t *testing.T) {
	viaWith := func(v View[int]) View[int] {
		return With(func(cx Cx[int]) Token[int] { return cx.Build(v) })
	}
	viaLocal := WithLocal(func() int { return 0 }, func(cx Cx[Scoped[int, int]], _ int) Token[Scoped[int, int]] {
		return cx.Build(prop[Scoped[int, int]]{})
	})
	viaAdapt := AdaptRef[int, int](prop[int]{}, func(out *int) *int { return out })

	tests := []struct {
		name string
		view View[int]
	}{
		{"option", Option[int](prop[int]{})},
		{"option group", Option[int](Group[int](text[int]("a"), prop[int]{}))},
		{"option with", Option[int](viaWith(prop[int]{}))},
		{"option nested with", When(true, func() View[int] { return viaWith(viaWith(prop[int]{})) })},
		{"option with local", Option[int](viaLocal)},
		{"option adapt", Option[int](viaAdapt)},
		{"any", Any[int](prop[int]{})},
		{"any with", Any[int](viaWith(Group[int](prop[int]{})))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mount[int](t, text[int]("x"))
			cx := NewBuildCx(h.doc, h.doc.Body(), h.waker)
			if _, err := tt.view.Build(cx); !IsShape(err) {
				t.Fatalf("err = %v, want shape error", err)
			}
			if got := h.html(); got != "x" {
				t.Errorf("html after failed build = %q, want %q", got, "x")
			}
		})
	}
}

func TestRegion_PropertyOutsideRegion(t *testing.T) {
	doc := memdom.New()
	cx := NewBuildCx(doc, doc.Body(), nil)
	if _, err := With(func(cx Cx[int]) Token[int] { return cx.Build(prop[int]{}) }).Build(cx); err != nil {
		t.Errorf("With(property) directly in element: %v", err)
	}
}

func TestOption_ShowRejectsWrappedProperty(t *testing.T) {
	h := mount[int](t, Option[int](nil))
	err := h.rebuild(When(true, func() View[int] {
		return With(func(cx Cx[int]) Token[int] { return cx.Build(prop[int]{}) })
	}))
	if !IsShape(err) {
		t.Fatalf("err = %v, want shape error", err)
	}
	if s := h.state.(*OptionState[int]); s.Present() {
		t.Error("Present() = true after failed show")
	}
}

func TestOption_FailedChildLeavesNoMarkers(t *testing.T) {
	h := mount[int](t, Group[int](text[int]("a")))
	cx := NewBuildCx(h.doc, h.doc.Body(), h.waker)
	_, err := Option[int](Group[int](text[int]("b"), text[int]("c"), prop[int]{})).Build(cx)
	if !IsShape(err) {
		t.Fatalf("err = %v, want shape error", err)
	}
	if got := h.html(); got != "a" {
		t.Errorf("html = %q, want %q", got, "a")
	}
}

func TestAny_SameTypeRebuildsInPlace(t *testing.T) {
	h := mount[int](t, Any[int](text[int]("a")))
	h.doc.ResetStats()
	h.mustRebuild(Any[int](text[int]("b")))

	s := h.state.(*AnyState[int])
	if s.Replaced() != 0 {
		t.Errorf("Replaced() = %d, want 0", s.Replaced())
	}
	if got := h.doc.Stats(); got.Creates != 0 || got.SetData != 1 {
		t.Errorf("stats = %+v, want a single SetData", got)
	}
	if got := h.doc.Body().CleanHTML(); got != "b" {
		t.Errorf("html = %q, want %q", got, "b")
	}
}

func TestAny_TypeChangeReplaces(t *testing.T) {
	h := mount[int](t, Group[int](
		text[int]("["),
		Any[int](text[int]("a")),
		text[int]("]"),
	))
	old := h.state.(*GroupState[int]).At(1).(*AnyState[int]).Inner().(*leafState[int])

	h.mustRebuild(Group[int](
		text[int]("["),
		Any[int](Group[int](text[int]("x"), text[int]("y"))),
		text[int]("]"),
	))
	if !old.disposed {
		t.Error("old inner state not disposed")
	}
	if got, want := h.doc.Body().CleanHTML(), "[xy]"; got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
}

func TestAny_ShapeMismatchReplaces(t *testing.T) {
	h := mount[int](t, Any[int](Group[int](text[int]("a"))))
	h.mustRebuild(Any[int](Group[int](text[int]("a"), text[int]("b"))))

	s := h.state.(*AnyState[int])
	if s.Replaced() != 1 {
		t.Errorf("Replaced() = %d, want 1", s.Replaced())
	}
	if got, want := h.html(), "<!--{-->ab<!--}-->"; got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
}

// recorder builds into a fixed state so tests can observe it.
type recorder struct {
	state *leafState[int]
}

func (r recorder) Build(cx BuildCx) (State[int], error) {
	n, err := cx.Backend.CreateText("r")
	if err != nil {
		return nil, err
	}
	r.state.node = n
	return r.state, cx.Insert(n)
}

func (r recorder) Rebuild(RebuildCx, State[int]) error { return nil }
