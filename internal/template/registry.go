package template

import (
	"fmt"
	"slices"
	"sync"

	"github.com/fyrsmithlabs/remedy/internal/faults"
)

// Registry holds templates in insertion order with category and code
// indices. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order []string
	items map[string]*FixTemplate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: map[string]*FixTemplate{}}
}

// Register validates t, compiles its condition and stores a copy. A template
// with an existing name replaces the earlier one and keeps its position.
func (r *Registry) Register(t FixTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	stored := t.clone()
	stored.cond = nil
	if t.When != "" {
		cond, err := compileCondition(t.When)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, t.Name, err)
		}
		stored.cond = cond
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.items[t.Name] = stored
	return nil
}

// MustRegister panics if Register fails. Use it for built-in catalogs.
func (r *Registry) MustRegister(templates ...FixTemplate) *Registry {
	for _, t := range templates {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (*FixTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[name]
	return t, ok
}

// ForCategory returns templates applicable to c in insertion order.
func (r *Registry) ForCategory(c faults.Category) []*FixTemplate {
	return r.filter(func(t *FixTemplate) bool { return t.AppliesToCategory(c) })
}

// ForCode returns templates targeting code in insertion order.
func (r *Registry) ForCode(code string) []*FixTemplate {
	return r.filter(func(t *FixTemplate) bool { return t.AppliesToCode(code) })
}

// All returns every template in insertion order.
func (r *Registry) All() []*FixTemplate {
	return r.filter(func(*FixTemplate) bool { return true })
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Names returns template names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

func (r *Registry) filter(keep func(*FixTemplate) bool) []*FixTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*FixTemplate
	for _, name := range r.order {
		if t := r.items[name]; keep(t) {
			out = append(out, t)
		}
	}
	return out
}
