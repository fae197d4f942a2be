package cron

import (
	"sort"
	"sync"
)

// Registry maps task keys to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds handler to key, replacing an earlier binding.
func (r *Registry) Register(key string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[key] = handler
}

// Lookup returns the handler of key.
func (r *Registry) Lookup(key string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[key]
	return h, ok
}

// Keys lists the registered task keys in order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
