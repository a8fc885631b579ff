package html

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var registryYAML []byte

// AttrKind is the value kind of a known attribute.
type AttrKind string

// Attribute value kinds.
const (
	KindString AttrKind = "string"
	KindBool   AttrKind = "bool"
	KindClass  AttrKind = "class"
	KindStyle  AttrKind = "style"
)

// Registry lists the elements, attributes and events the html package
// accepts.
type Registry struct {
	Elements   []string            `yaml:"elements"`
	Attributes map[string]AttrKind `yaml:"attributes"`
	Events     []string            `yaml:"events"`

	elements map[string]bool
	events   map[string]bool
}

// ParseRegistry decodes a registry from YAML.
func ParseRegistry(data []byte) (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	for name, kind := range r.Attributes {
		switch kind {
		case KindString, KindBool, KindClass, KindStyle:
		default:
			return nil, fmt.Errorf("parse registry: attribute %q has unknown kind %q", name, kind)
		}
	}
	r.elements = make(map[string]bool, len(r.Elements))
	for _, e := range r.Elements {
		r.elements[e] = true
	}
	r.events = make(map[string]bool, len(r.Events))
	for _, e := range r.Events {
		r.events[e] = true
	}
	return &r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := ParseRegistry(registryYAML)
	if err != nil {
		panic(err)
	}
	return r
})

// DefaultRegistry returns the registry embedded in the package.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// IsElement reports whether tag names a known or custom element.
func (r *Registry) IsElement(tag string) bool {
	return r.elements[tag] || strings.Contains(tag, "-")
}

// Attribute returns the kind of a known attribute. data- and aria-
// attributes are accepted as strings.
func (r *Registry) Attribute(name string) (AttrKind, bool) {
	if kind, ok := r.Attributes[name]; ok {
		return kind, true
	}
	if strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-") {
		return KindString, true
	}
	return "", false
}

// IsEvent reports whether name is a known or custom event.
func (r *Registry) IsEvent(name string) bool {
	return r.events[name] || strings.ContainsAny(name, "-:")
}

// AttributeNames returns the known attribute names, sorted.
func (r *Registry) AttributeNames() []string {
	return slices.Sorted(maps.Keys(r.Attributes))
}
