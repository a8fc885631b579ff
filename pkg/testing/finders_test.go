package testing

import (
	"testing"

	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/testing/internal/testbed"
)

func mountList(t *testing.T) *Tester[testbed.List] {
	t.Helper()
	tester := NewTesterWithT(t, testbed.List{Items: map[int]string{1: "one", 2: "two", 3: "three"}}, testbed.RenderList)
	if err := tester.Mount(); err != nil {
		t.Fatal(err)
	}
	return tester
}

func TestFinders(t *testing.T) {
	tester := mountList(t)

	tests := []struct {
		name   string
		finder Finder
		want   int
	}{
		{"ByTag", ByTag("li"), 3},
		{"ByTag missing", ByTag("table"), 0},
		{"ByText", ByText("two"), 1},
		{"ByTextContaining", ByTextContaining("t"), 2},
		{"ByPredicate", ByPredicate(func(n *memdom.Node) bool { return n.Tag() == "ul" }), 1},
		{"Descendant", Descendant(ByTag("ul"), ByTag("li")), 3},
		{"Ancestor", Ancestor(ByText("one"), ByTag("ul")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tester.Find(tt.finder).Count(); got != tt.want {
				t.Errorf("%s: Count() = %d, want %d", tt.finder.Description(), got, tt.want)
			}
		})
	}
}

func TestFinderResult_FirstPanics(t *testing.T) {
	tester := mountList(t)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected First to panic on empty result")
		}
	}()
	tester.Find(ByTag("table")).First()
}

func TestFinderResult_At(t *testing.T) {
	tester := mountList(t)
	result := tester.Find(ByTag("li"))
	if got := result.At(2).TextContent(); got != "three" {
		t.Errorf("At(2) = %q, want %q", got, "three")
	}
	if result.FirstOrNil() == nil {
		t.Error("FirstOrNil returned nil")
	}
	if tester.Find(ByTag("table")).FirstOrNil() != nil {
		t.Error("FirstOrNil on empty result returned a node")
	}
}
