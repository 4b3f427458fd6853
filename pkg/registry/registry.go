package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
)

// Registry holds the robot implementations that can be selected at startup.
type Registry struct {
	mu       sync.RWMutex
	patterns map[string]ports.Pattern
}

// NewRegistry creates a registry with the given patterns.
func NewRegistry(patterns ...ports.Pattern) *Registry {
	r := &Registry{
		patterns: make(map[string]ports.Pattern),
	}
	for _, p := range patterns {
		r.Register(p)
	}
	return r
}

// Register adds a pattern under its Name.
// If a pattern with the same name exists, it is overwritten.
func (r *Registry) Register(p ports.Pattern) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns[p.Name()] = p
}

// Lookup returns the pattern registered under name.
// Returns an error wrapping domain.ErrUnknownPattern if there is none.
func (r *Registry) Lookup(name string) (ports.Pattern, error) {
	r.mu.RLock()
	p, ok := r.patterns[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", domain.ErrUnknownPattern, name, r.Names())
	}
	return p, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered patterns sorted by name.
func (r *Registry) All() []ports.Pattern {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]ports.Pattern, 0, len(names))
	for _, name := range names {
		all = append(all, r.patterns[name])
	}
	return all
}
