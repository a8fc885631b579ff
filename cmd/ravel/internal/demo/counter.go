package demo

import (
	"context"
	"fmt"

	"github.com/go-drift/ravel/pkg/collections"
	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/html"
	"github.com/go-drift/ravel/pkg/run"
	raveltest "github.com/go-drift/ravel/pkg/testing"
)

func init() {
	register(&App{
		Name:  "counter",
		Short: "A counter with a selectable step",
		Script: func(n int) []Step {
			steps := []Step{{Target: raveltest.ByText("5"), Event: "click"}}
			for range n {
				steps = append(steps, Step{Target: raveltest.ByClass("inc"), Event: "click"})
			}
			return steps
		},
		Run: func(ctx context.Context, doc *memdom.Document, steps []Step, opts ...run.Option) (Result, error) {
			m, cycles, err := drive(ctx, doc, Counter{Step: 1}, RenderCounter, steps, opts...)
			return Result{
				HTML:   doc.Body().CleanHTML(),
				Cycles: cycles,
				Model:  fmt.Sprintf("%+v", m),
			}, err
		},
	})
}

// Counter is the counter app's model.
type Counter struct {
	Count int
	Step  int
}

var stepSizes = []int{1, 5, 10}

// RenderCounter renders the counter page.
func RenderCounter(cx core.Cx[Counter], m Counter) core.Token[Counter] {
	var h html.Kit[Counter]
	return cx.Build(h.Div(
		h.Class("counter"),
		h.H1(h.Text("Counter")),
		h.P(h.Span(h.Class("count"), h.Textf("%d", m.Count))),
		h.Button(
			h.Class("inc"),
			h.On_(html.Click, func(m *Counter) { m.Count += m.Step }),
			h.Text("+"),
		),
		h.Button(
			h.Class("dec"),
			h.On_(html.Click, func(m *Counter) { m.Count -= m.Step }),
			h.Text("-"),
		),
		h.When(m.Count != 0, func() core.View[Counter] {
			return h.Button(
				h.Class("reset"),
				h.On_(html.Click, func(m *Counter) { m.Count = 0 }),
				h.Text("Reset"),
			)
		}),
		core.AdaptRef(stepPicker(m.Step), func(m *Counter) *int { return &m.Step }),
	))
}

// stepPicker only knows about the step, not the whole model.
func stepPicker(current int) core.View[int] {
	var h html.Kit[int]
	return h.Div(
		h.Class("steps"),
		collections.Slice(stepSizes, func(cx core.Cx[int], _ int, step int) core.Token[int] {
			return cx.Build(h.Button(
				h.Class("step"),
				h.Bool("disabled", step == current),
				h.On_(html.Click, func(s *int) { *s = step }),
				h.Textf("%d", step),
			))
		}),
	)
}
