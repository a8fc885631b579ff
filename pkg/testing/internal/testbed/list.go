package testbed

import (
	"github.com/go-drift/ravel/pkg/collections"
	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/html"
)

// List is a model of keyed labels.
type List struct {
	Items map[int]string
}

// RenderList renders one list item per entry, in key order. Clicking an item
// removes it.
func RenderList(cx core.Cx[List], m List) core.Token[List] {
	var h html.Kit[List]
	return cx.Build(h.Ul(
		collections.Map(m.Items, func(cx core.Cx[List], key int, label string) core.Token[List] {
			return cx.Build(h.Li(
				h.On_(html.Click, func(m *List) { delete(m.Items, key) }),
				h.Text(label),
			))
		}),
	))
}
