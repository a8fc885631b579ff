// Package testbed provides internal test views for the testing framework.
package testbed

import (
	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/html"
)

// Counter is a model with a single count.
type Counter struct {
	Count int
	// Step is added on every tap; zero means one.
	Step int
}

// RenderCounter displays the count and a button that increments it.
func RenderCounter(cx core.Cx[Counter], m Counter) core.Token[Counter] {
	var h html.Kit[Counter]
	return cx.Build(h.Div(
		h.Class("counter"),
		h.Span(h.Attr("id", "count"), h.Textf("%d", m.Count)),
		h.Button(
			h.On_(html.Click, func(m *Counter) {
				if m.Step == 0 {
					m.Step = 1
				}
				m.Count += m.Step
			}),
			h.Text("+"),
		),
	))
}
