package adapter

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps adapter names to adapters. It is filled once at startup and
// frozen; after Freeze it is read-only and safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Adapter
	order  []*Adapter
	frozen bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Adapter)}
}

// Register adds an adapter. Names must be lowercase and unique.
func (r *Registry) Register(a *Adapter) error {
	if err := validate(a); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %q", ErrRegistryFrozen, a.Name)
	}
	key := strings.ToLower(a.Name)
	if _, ok := r.byName[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAdapter, a.Name)
	}
	r.byName[key] = a
	r.order = append(r.order, a)
	return nil
}

// MustRegister registers adapters and panics on any error. A bad adapter
// table is a startup configuration bug.
func (r *Registry) MustRegister(adapters ...*Adapter) {
	for _, a := range adapters {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
}

// Freeze stops further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Get looks an adapter up by name, case-insensitively.
func (r *Registry) Get(name string) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// All returns adapters in registration order.
func (r *Registry) All() []*Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Adapter(nil), r.order...)
}

// AllWithCapability returns adapters providing c, in registration order.
func (r *Registry) AllWithCapability(c Capability) []*Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Adapter
	for _, a := range r.order {
		if a.Has(c) {
			out = append(out, a)
		}
	}
	return out
}

// Names returns adapter names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	for i, a := range r.order {
		names[i] = a.Name
	}
	return names
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func validate(a *Adapter) error {
	if a == nil {
		return fmt.Errorf("%w: nil adapter", ErrInvalidAdapter)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAdapter)
	}
	if a.Name != strings.ToLower(a.Name) || strings.ContainsAny(a.Name, " \t/") {
		return fmt.Errorf("%w: name %q must be lowercase without spaces", ErrInvalidAdapter, a.Name)
	}
	if !a.Category.IsValid() {
		return fmt.Errorf("%w: %s has unknown category %q", ErrInvalidAdapter, a.Name, a.Category)
	}
	return nil
}
