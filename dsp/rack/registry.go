package rack

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Factory builds one plugin instance.
type Factory func(ctx Context) (Plugin, error)

// Registry maps plugin type names to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var (
	// ErrUnknownType is returned for unregistered plugin types.
	ErrUnknownType = errors.New("rack: unknown plugin type")

	errDuplicateType = errors.New("rack: duplicate plugin type")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given plugin type.
func (r *Registry) Register(pluginType string, factory Factory) error {
	if pluginType == "" {
		return errors.New("rack: empty plugin type")
	}

	if factory == nil {
		return errors.New("rack: nil factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[pluginType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateType, pluginType)
	}

	r.factories[pluginType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(pluginType string, factory Factory) {
	if err := r.Register(pluginType, factory); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the factory for the given plugin type, or nil.
func (r *Registry) Lookup(pluginType string) Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[pluginType]
}

// New builds a plugin of the given type.
func (r *Registry) New(pluginType string, ctx Context) (Plugin, error) {
	factory := r.Lookup(pluginType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, pluginType)
	}

	p, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("rack: create %s: %w", pluginType, err)
	}

	return p, nil
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	slices.Sort(types)

	return types
}
