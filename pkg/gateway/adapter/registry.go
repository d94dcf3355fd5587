package adapter

import (
	"fmt"
	"sync"

	"github.com/polystoreio/polystore/pkg/paradigm"
)

// ErrAdapterNotFound is returned when no adapter is registered for a paradigm.
var ErrAdapterNotFound = fmt.Errorf("adapter not found")

// Registry manages the registration and retrieval of storage adapters.
type Registry struct {
	adapters map[paradigm.Paradigm]StoreAdapter
	mu       sync.RWMutex
}

// NewRegistry creates a new adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[paradigm.Paradigm]StoreAdapter),
	}
}

// Register registers a storage adapter. An adapter already registered for the
// same paradigm is replaced.
func (r *Registry) Register(a StoreAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.adapters[a.Paradigm()] = a
}

// Get retrieves a registered adapter by paradigm.
// Returns ErrAdapterNotFound if the adapter is not registered.
func (r *Registry) Get(p paradigm.Paradigm) (StoreAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.adapters[p]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAdapterNotFound, p)
	}

	return a, nil
}

// GetByName retrieves a registered adapter by paradigm name or alias.
func (r *Registry) GetByName(name string) (StoreAdapter, error) {
	p, ok := paradigm.Parse(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown paradigm '%s'", ErrAdapterNotFound, name)
	}

	return r.Get(p)
}

// IsRegistered checks if an adapter is registered for the given paradigm.
func (r *Registry) IsRegistered(p paradigm.Paradigm) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.adapters[p]
	return exists
}

// ListRegistered returns all registered paradigms.
func (r *Registry) ListRegistered() []paradigm.Paradigm {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]paradigm.Paradigm, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}

	return out
}

// globalRegistry is the default global adapter registry.
var globalRegistry = NewRegistry()

// Register registers an adapter in the global registry.
func Register(a StoreAdapter) {
	globalRegistry.Register(a)
}

// Get retrieves an adapter from the global registry.
func Get(p paradigm.Paradigm) (StoreAdapter, error) {
	return globalRegistry.Get(p)
}

// IsRegistered checks if an adapter is registered in the global registry.
func IsRegistered(p paradigm.Paradigm) bool {
	return globalRegistry.IsRegistered(p)
}

// GlobalRegistry returns the global adapter registry.
func GlobalRegistry() *Registry {
	return globalRegistry
}
