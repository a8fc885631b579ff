package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-drift/ravel/pkg/collections"
	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/html"
	"github.com/go-drift/ravel/pkg/run"
	raveltest "github.com/go-drift/ravel/pkg/testing"
)

func init() {
	register(&App{
		Name:   "todo",
		Short:  "A todo list with filters and inline editing",
		Script: todoScript,
		Run: func(ctx context.Context, doc *memdom.Document, steps []Step, opts ...run.Option) (Result, error) {
			m, cycles, err := drive(ctx, doc, NewTodos(), RenderTodos, steps, opts...)
			return Result{
				HTML:   doc.Body().CleanHTML(),
				Cycles: cycles,
				Model:  m.String(),
			}, err
		},
	})
}

// Todo is a single entry.
type Todo struct {
	Title string
	Done  bool
}

// Todos is the todo app's model.
type Todos struct {
	Items  map[int]Todo
	NextID int
	Draft  string
	Filter string
}

var filters = []string{"all", "active", "completed"}

// NewTodos returns an empty list showing all entries.
func NewTodos() Todos {
	return Todos{Items: map[int]Todo{}, NextID: 1, Filter: "all"}
}

func (m *Todos) add() {
	title := strings.TrimSpace(m.Draft)
	m.Draft = ""
	if title == "" {
		return
	}
	m.Items[m.NextID] = Todo{Title: title}
	m.NextID++
}

func (m Todos) visible() map[int]Todo {
	out := make(map[int]Todo, len(m.Items))
	for id, t := range m.Items {
		switch {
		case m.Filter == "active" && t.Done:
		case m.Filter == "completed" && !t.Done:
		default:
			out[id] = t
		}
	}
	return out
}

func (m Todos) remaining() int {
	n := 0
	for _, t := range m.Items {
		if !t.Done {
			n++
		}
	}
	return n
}

func (m Todos) String() string {
	return fmt.Sprintf("%d items, %d remaining, filter %s", len(m.Items), m.remaining(), m.Filter)
}

// item is the state seen by an entry's handlers: the list plus whether the
// entry is being edited.
type item = core.Scoped[Todos, bool]

// RenderTodos renders the todo page.
func RenderTodos(cx core.Cx[Todos], m Todos) core.Token[Todos] {
	var h html.Kit[Todos]
	left := m.remaining()
	return cx.Build(h.Section(
		h.Class("todoapp"),
		h.Header(
			h.H1(h.Text("todos")),
			h.Form(
				h.On(html.Active(html.Submit), func(m *Todos, ev dom.Event) {
					ev.PreventDefault()
					m.add()
				}),
				h.Input(
					h.Class("new-todo"),
					h.Attr("placeholder", "What needs to be done?"),
					h.Attr("value", m.Draft),
					h.On(html.Input, func(m *Todos, ev dom.Event) { m.Draft = ev.Value() }),
				),
			),
		),
		h.Ul(h.Class("todo-list"), collections.Map(m.visible(), renderItem)),
		h.Footer(
			h.Class("footer"),
			h.Span(
				h.Class("todo-count"),
				h.Strong(h.Textf("%d", left)),
				h.Text(plural(left, " item left", " items left")),
			),
			h.Ul(
				h.Class("filters"),
				collections.Slice(filters, func(cx core.Cx[Todos], _ int, name string) core.Token[Todos] {
					return cx.Build(h.Li(h.Any(filterLink(name, m.Filter))))
				}),
			),
		),
	))
}

// filterLink renders the selected filter as plain text and the others as
// links; switching filters replaces one with the other.
func filterLink(name, selected string) core.View[Todos] {
	var h html.Kit[Todos]
	if name == selected {
		return h.Strong(h.Text(name))
	}
	return h.A(
		h.Attr("href", "#/"+name),
		h.On_(html.Click, func(m *Todos) { m.Filter = name }),
		h.Text(name),
	)
}

func renderItem(cx core.Cx[Todos], id int, t Todo) core.Token[Todos] {
	return cx.Build(core.WithLocal(
		func() bool { return false },
		func(cx core.Cx[item], editing bool) core.Token[item] {
			var h html.Kit[item]
			return cx.Build(h.Li(
				h.Class(flag(t.Done, "completed"), flag(editing, "editing")),
				h.Div(
					h.Class("view"),
					h.Input(
						h.Class("toggle"),
						h.Attr("type", "checkbox"),
						h.Bool("checked", t.Done),
						h.On_(html.Change, func(s *item) {
							cur := s.Outer.Items[id]
							cur.Done = !cur.Done
							s.Outer.Items[id] = cur
						}),
					),
					h.Label(
						h.On_(html.DblClick, func(s *item) { s.Local = true }),
						h.Text(t.Title),
					),
					h.Button(
						h.Class("destroy"),
						h.On_(html.Click, func(s *item) { delete(s.Outer.Items, id) }),
					),
				),
				h.When(editing, func() core.View[item] {
					return h.Input(
						h.Class("edit"),
						h.Attr("value", t.Title),
						h.On(html.Input, func(s *item, ev dom.Event) {
							cur := s.Outer.Items[id]
							cur.Title = ev.Value()
							s.Outer.Items[id] = cur
						}),
						h.On_(html.Blur, func(s *item) { s.Local = false }),
					)
				}),
			))
		},
	))
}

func flag(on bool, name string) string {
	if on {
		return name
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func todoScript(n int) []Step {
	var steps []Step
	for i := range n {
		steps = append(steps,
			Step{Target: raveltest.ByClass("new-todo"), Event: "input", Value: fmt.Sprintf("Task %d", i+1)},
			Step{Target: raveltest.ByTag("form"), Event: "submit"},
		)
	}
	if n >= 1 {
		steps = append(steps,
			Step{Target: raveltest.ByClass("toggle"), Event: "change"},
			Step{Target: raveltest.ByTag("label"), Event: "dblclick"},
			Step{Target: raveltest.ByClass("edit"), Event: "input", Value: "Renamed"},
			Step{Target: raveltest.ByClass("edit"), Event: "blur"},
		)
	}
	if n >= 2 {
		steps = append(steps,
			Step{Target: raveltest.ByText("active"), Event: "click"},
			Step{Target: raveltest.ByClass("destroy"), Event: "click"},
		)
	}
	return steps
}
