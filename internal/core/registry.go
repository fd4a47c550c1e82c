package core

import (
	"fmt"
	"sort"
	"sync"
)

// HookFactory is a function that creates a Hook instance
type HookFactory func(ctx *HookContext) Hook

// Registry manages hook registration and creation
type Registry struct {
	mu        sync.RWMutex
	factories map[string]HookFactory
	context   *HookContext
}

// NewRegistry creates a new hook registry
func NewRegistry(ctx *HookContext) *Registry {
	if ctx == nil {
		ctx = DefaultHookContext()
	}
	return &Registry{
		factories: make(map[string]HookFactory),
		context:   ctx,
	}
}

// Register registers a hook factory with the given key
func (r *Registry) Register(key string, factory HookFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("hook with key '%s' already registered", key)
	}

	r.factories[key] = factory
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(key string, factory HookFactory) {
	if err := r.Register(key, factory); err != nil {
		panic(err)
	}
}

// RegisterBatch registers multiple hooks at once; nothing is registered if any key is taken
func (r *Registry) RegisterBatch(hooks map[string]HookFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range hooks {
		if _, exists := r.factories[key]; exists {
			return fmt.Errorf("hook with key '%s' already registered", key)
		}
	}

	for key, factory := range hooks {
		r.factories[key] = factory
	}
	return nil
}

// MustRegisterBatch is like RegisterBatch but panics on error
func (r *Registry) MustRegisterBatch(hooks map[string]HookFactory) {
	if err := r.RegisterBatch(hooks); err != nil {
		panic(err)
	}
}

// Create creates a hook instance by key
func (r *Registry) Create(key string) (Hook, error) {
	r.mu.RLock()
	factory, exists := r.factories[key]
	context := r.context
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("hook with key '%s' not found", key)
	}

	return factory(context), nil
}

// Keys returns all registered hook keys in sorted order
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hooks returns hook instances in key order
func (r *Registry) Hooks() []Hook {
	keys := r.Keys()
	hooks := make([]Hook, 0, len(keys))
	for _, k := range keys {
		if h, err := r.Create(k); err == nil {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// BuildDispatcher instantiates every registered hook and files the enabled ones into a
// dispatch table.
func (r *Registry) BuildDispatcher(metrics *Metrics) (*Dispatcher, error) {
	return NewDispatcher(r.Hooks(), metrics)
}

// Global registry instance
var globalRegistry = NewRegistry(nil)

// RegisterBuiltinHooks can be called by the hooks package to register all built-in hooks
func RegisterBuiltinHooks(hooks map[string]HookFactory) {
	globalRegistry.MustRegisterBatch(hooks)
}

// GetHookKeys returns all registered hook keys from the global registry
func GetHookKeys() []string {
	return globalRegistry.Keys()
}

// CreateHook creates a hook instance by key from the global registry
func CreateHook(key string) (Hook, error) {
	return globalRegistry.Create(key)
}

// BuiltinFactories returns a copy of the global registry's factories so a host can build its
// own registry around a custom context.
func BuiltinFactories() map[string]HookFactory {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	out := make(map[string]HookFactory, len(globalRegistry.factories))
	for k, v := range globalRegistry.factories {
		out[k] = v
	}
	return out
}

// NewBuiltinRegistry creates a registry bound to ctx holding every built-in hook.
func NewBuiltinRegistry(ctx *HookContext) *Registry {
	r := NewRegistry(ctx)
	r.MustRegisterBatch(BuiltinFactories())
	return r
}
