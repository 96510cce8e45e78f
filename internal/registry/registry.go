package registry

import (
	"fmt"
	"log/slog"
)

// Module is the interface that every package contributing node kinds implements.
type Module interface {
	Register(r *Registry)
}

// Registry holds the node kinds available to one application instance.
type Registry struct {
	kinds map[string]*Kind
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// NewWithModules creates a registry populated by the given modules.
func NewWithModules(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a kind. Registering the same name twice is a programming
// error and panics.
func (r *Registry) Register(k *Kind) {
	if k == nil || k.Name == "" {
		panic("registry: cannot register a kind without a name")
	}
	if _, exists := r.kinds[k.Name]; exists {
		panic(fmt.Sprintf("node kind '%s' already registered", k.Name))
	}
	slog.Debug("Registering node kind.", "name", k.Name, "category", k.Category.String())
	r.kinds[k.Name] = k
	r.order = append(r.order, k.Name)
}

// Lookup resolves a kind by machine name, falling back to its nice name
// the way the editor accepts either when a node is dropped on the canvas.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	if k, ok := r.kinds[name]; ok {
		return k, true
	}
	for _, n := range r.order {
		if r.kinds[n].NiceName == name {
			return r.kinds[n], true
		}
	}
	return nil, false
}

// Kinds returns all kinds in registration order.
func (r *Registry) Kinds() []*Kind {
	out := make([]*Kind, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.kinds[n])
	}
	return out
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	return len(r.order)
}

// CategoryGroup is one heading of the catalog listing.
type CategoryGroup struct {
	Category Category
	Kinds    []*Kind
}

// ByCategory groups kinds under their category, in order of first appearance.
func (r *Registry) ByCategory() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[Category]int)
	for _, k := range r.Kinds() {
		i, ok := index[k.Category]
		if !ok {
			i = len(groups)
			index[k.Category] = i
			groups = append(groups, CategoryGroup{Category: k.Category})
		}
		groups[i].Kinds = append(groups[i].Kinds, k)
	}
	return groups
}
