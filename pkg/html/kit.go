package html

import (
	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
)

// Kit binds the package's constructors to one shared state type, so that
// view code does not repeat the type argument:
//
//	var h html.Kit[Model]
//	h.Div(h.Class("row"), h.Text("hello"))
type Kit[O any] struct{}

func (Kit[O]) Text(data string) TextView[O] { return Text[O](data) }
func (Kit[O]) Textf(format string, args ...any) TextView[O] { return Textf[O](format, args...) }
func (Kit[O]) El(tag string, body ...core.View[O]) ElView[O] { return El(tag, body...) }
func (Kit[O]) Attr(name, value string) AttrView[O] { return Attr[O](name, value) }
func (Kit[O]) OptAttr(name string, value *string) AttrView[O] { return OptAttr[O](name, value) }
func (Kit[O]) Bool(name string, on bool) AttrView[O] { return Bool[O](name, on) }
func (Kit[O]) Class(names ...string) AttrView[O] { return Class[O](names...) }
func (Kit[O]) Style(decls ...string) AttrView[O] { return Style[O](decls...) }
func (Kit[O]) Group(views ...core.View[O]) core.GroupView[O] { return core.Group(views...) }
func (Kit[O]) Option(v core.View[O]) core.OptionView[O] { return core.Option(v) }
func (Kit[O]) Any(v core.View[O]) core.AnyView[O] { return core.Any(v) }
func (Kit[O]) With(f func(core.Cx[O]) core.Token[O]) core.WithView[O] { return core.With(f) }

func (Kit[O]) When(cond bool, f func() core.View[O]) core.OptionView[O] {
	return core.When(cond, f)
}

func (Kit[O]) On(kind EventKind, handler func(out *O, ev dom.Event)) OnView[O] {
	return On(kind, handler)
}

func (Kit[O]) On_(kind EventKind, handler func(out *O)) OnView[O] {
	return On_(kind, handler)
}

// Element shorthands.

func (k Kit[O]) A(body ...core.View[O]) ElView[O] { return El("a", body...) }
func (k Kit[O]) Button(body ...core.View[O]) ElView[O] { return El("button", body...) }
func (k Kit[O]) Div(body ...core.View[O]) ElView[O] { return El("div", body...) }
func (k Kit[O]) Footer(body ...core.View[O]) ElView[O] { return El("footer", body...) }
func (k Kit[O]) Form(body ...core.View[O]) ElView[O] { return El("form", body...) }
func (k Kit[O]) H1(body ...core.View[O]) ElView[O] { return El("h1", body...) }
func (k Kit[O]) Header(body ...core.View[O]) ElView[O] { return El("header", body...) }
func (k Kit[O]) Input(body ...core.View[O]) ElView[O] { return El("input", body...) }
func (k Kit[O]) Label(body ...core.View[O]) ElView[O] { return El("label", body...) }
func (k Kit[O]) Li(body ...core.View[O]) ElView[O] { return El("li", body...) }
func (k Kit[O]) P(body ...core.View[O]) ElView[O] { return El("p", body...) }
func (k Kit[O]) Section(body ...core.View[O]) ElView[O] { return El("section", body...) }
func (k Kit[O]) Span(body ...core.View[O]) ElView[O] { return El("span", body...) }
func (k Kit[O]) Strong(body ...core.View[O]) ElView[O] { return El("strong", body...) }
func (k Kit[O]) Ul(body ...core.View[O]) ElView[O] { return El("ul", body...) }
