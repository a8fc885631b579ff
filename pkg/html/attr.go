package html

import (
	"strings"

	"github.com/go-drift/ravel/pkg/core"
	"github.com/go-drift/ravel/pkg/dom"
	"github.com/go-drift/ravel/pkg/errors"
	"github.com/go-drift/ravel/pkg/float"
)

// attrValue is an attribute value; an absent value removes the attribute.
type attrValue struct {
	value   string
	present bool
}

// AttrView sets an attribute on the enclosing element.
type AttrView[O any] struct {
	name  string
	kind  AttrKind
	value attrValue
}

// Attr sets the string attribute name to value. Boolean, class and style
// attributes have their own constructors.
func Attr[O any](name, value string) AttrView[O] {
	return AttrView[O]{name: name, kind: KindString, value: attrValue{value: value, present: true}}
}

// OptAttr sets attribute name to *value, or removes it when value is nil.
func OptAttr[O any](name string, value *string) AttrView[O] {
	if value == nil {
		return AttrView[O]{name: name, kind: KindString}
	}
	return Attr[O](name, *value)
}

// Bool makes a boolean attribute such as "disabled" present or absent.
func Bool[O any](name string, on bool) AttrView[O] {
	return AttrView[O]{name: name, kind: KindBool, value: attrValue{present: on}}
}

// Class sets the class attribute to the non-empty names, space separated.
// With no non-empty names the attribute is removed.
func Class[O any](names ...string) AttrView[O] {
	return AttrView[O]{name: "class", kind: KindClass, value: joined(names, " ")}
}

// Style sets the style attribute from CSS declarations such as
// "color: red". With no non-empty declarations the attribute is removed.
func Style[O any](decls ...string) AttrView[O] {
	return AttrView[O]{name: "style", kind: KindStyle, value: joined(decls, "; ")}
}

func joined(parts []string, sep string) attrValue {
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(p)
	}
	return attrValue{value: sb.String(), present: sb.Len() > 0}
}

func write(b dom.Backend, el dom.Node, name string, v attrValue) error {
	if v.present {
		return b.SetAttribute(el, name, v.value)
	}
	return b.RemoveAttribute(el, name)
}

// Build implements core.View. The attribute must be known to the default
// registry with the kind of the constructor that made the view.
func (a AttrView[O]) Build(cx core.BuildCx) (core.State[O], error) {
	const op = "html.Attr.Build"
	if err := cx.CheckProperty("attribute " + a.name); err != nil {
		return nil, err
	}
	kind, ok := DefaultRegistry().Attribute(a.name)
	if !ok {
		return nil, buildError(op, "unknown attribute %q", a.name)
	}
	if kind != a.kind {
		return nil, buildError(op, "attribute %q is %s, set as %s", a.name, kind, a.kind)
	}
	if a.value.present {
		if err := cx.Backend.SetAttribute(cx.Parent, a.name, a.value.value); err != nil {
			return nil, errors.Backend(op, err)
		}
	}
	return &AttrState[O]{name: a.name, saved: a.value}, nil
}

// Rebuild implements core.View. The backend is only called when the value
// changed.
func (a AttrView[O]) Rebuild(cx core.RebuildCx, state core.State[O]) error {
	const op = "html.Attr.Rebuild"
	s, err := core.StateAs[*AttrState[O]](op, state)
	if err != nil {
		return err
	}
	if s.name != a.name {
		return &errors.ShapeError{Op: op, Want: "attribute " + s.name, Got: "attribute " + a.name}
	}
	if s.saved == a.value {
		return nil
	}
	if err := write(cx.Backend, cx.Parent, a.name, a.value); err != nil {
		return errors.Backend(op, err)
	}
	s.saved = a.value
	return nil
}

// AttrState is the state of an attribute view.
type AttrState[O any] struct {
	name  string
	saved attrValue
}

// Value returns the last written value and whether the attribute is set.
func (s *AttrState[O]) Value() (string, bool) {
	return s.saved.value, s.saved.present
}

// Run implements core.State.
func (s *AttrState[O]) Run(*float.Float[O]) error { return nil }

// Dispose implements core.State.
func (s *AttrState[O]) Dispose() {}
