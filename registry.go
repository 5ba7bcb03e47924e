package funcall

import (
	"context"
	"sync"
)

// Registry owns the set of registered tools: it maps a stable name to the
// bound callable and its schema, and exposes the aggregated schema collection
// for inclusion in model requests. Registrations are immutable once stored;
// the registry is safe for concurrent use and may be shared read-only across
// conversations.
type Registry struct {
	mu          sync.RWMutex
	tools       map[string]Tool // wrapped with middlewares, used at dispatch
	rawTools    map[string]Tool // unwrapped, used by Use() to re-apply middlewares from scratch
	order       []string        // registration order of distinct names
	middlewares []Middleware
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]Tool),
		rawTools: make(map[string]Tool),
	}
}

// Register stores a tool and returns its schema. The last registration under
// a given name wins; there is no duplicate-name error. Stored middlewares
// (see Use) are applied before the tool becomes dispatchable.
func (r *Registry) Register(t Tool) ToolSchema {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.rawTools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.rawTools[name] = t
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		t = r.middlewares[i](t)
	}
	r.tools[name] = t
	return t.Schema()
}

// Register builds a tool from a typed handler and registers it in one step.
// It is the package-level twin of Registry.Register for the common case.
func Register[T, R any](
	r *Registry,
	name, description string,
	fn func(ctx context.Context, args T) (R, error),
	opts ...ToolOption,
) (ToolSchema, error) {
	t, err := NewTool(name, description, fn, opts...)
	if err != nil {
		return ToolSchema{}, err
	}
	return r.Register(t), nil
}

// Lookup returns the tool registered under name (with middlewares applied).
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Schemas returns a read-only snapshot of every registered contract, one
// entry per distinct name, in registration order. The snapshot reflects all
// registrations up to the call and is suitable for direct inclusion in a
// model request payload.
func (r *Registry) Schemas() []ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Schema())
	}
	return out
}

// Use stores the given middlewares and reapplies them from scratch to all
// registered tools (onion order: first middleware is outermost). Tools
// registered after Use also get the chain. Calling Use again replaces the
// chain and rewraps from the raw tools, avoiding double-wrapping.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawTools {
		t := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			t = middlewares[i](t)
		}
		r.tools[name] = t
	}
}
