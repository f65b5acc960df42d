package hooks

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
)

// ErrHookAlreadyExists is returned when registering a duplicate hook name
var ErrHookAlreadyExists = errors.New("hook already exists")

// ExplorerQueryHook reshapes the page query an explorer listing runs.
// Hooks receive the parent page the explorer is browsing, the raw request
// parameters, and the query built so far; they return the query to use.
type ExplorerQueryHook func(parent *model.Page, params url.Values, qs query.PageQuery) query.PageQuery

type entry struct {
	name string
	fn   ExplorerQueryHook
}

// Registry holds named hooks and preserves registration order
type Registry struct {
	mu    sync.RWMutex
	hooks []entry
}

// NewRegistry creates an empty hook registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook under a unique name
func (r *Registry) Register(name string, fn ExplorerQueryHook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.hooks {
		if e.name == name {
			return fmt.Errorf("%w: %s", ErrHookAlreadyExists, name)
		}
	}

	r.hooks = append(r.hooks, entry{name: name, fn: fn})
	return nil
}

// ExplorerQueryHooks returns the hooks in registration order
func (r *Registry) ExplorerQueryHooks() []ExplorerQueryHook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fns := make([]ExplorerQueryHook, 0, len(r.hooks))
	for _, e := range r.hooks {
		fns = append(fns, e.fn)
	}
	return fns
}

// Names returns the registered hook names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.hooks))
	for _, e := range r.hooks {
		names = append(names, e.name)
	}
	return names
}

// Count returns the number of registered hooks
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.hooks)
}

// Clear removes all hooks from the registry
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hooks = nil
}

// Default process-wide registry
var defaultRegistry = NewRegistry()

// RegisterExplorerQueryHook adds a hook to the default registry
func RegisterExplorerQueryHook(name string, fn ExplorerQueryHook) error {
	return defaultRegistry.Register(name, fn)
}

// ExplorerQueryHooks returns the default registry's hooks in order
func ExplorerQueryHooks() []ExplorerQueryHook {
	return defaultRegistry.ExplorerQueryHooks()
}

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}
