package registry

import (
	"errors"
	"fmt"
)

// ErrDuplicateType is returned when a model type is registered twice.
var ErrDuplicateType = errors.New("model type already registered")

// Model maps a prompt to a generated response.
type Model interface {
	Name() string
	Generate(prompt string) (string, error)
}

type entry struct {
	kind  string
	model Model
}

// Registry holds the generation models in registration order.
// It is built once at startup and only read afterwards.
type Registry struct {
	entries []entry
	index   map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Default returns a registry with the built-in echo and reverse models.
func Default() *Registry {
	r := New()
	// Registering distinct built-in types cannot fail.
	_ = r.Register(EchoType, Echo{})
	_ = r.Register(ReverseType, Reverse{})
	return r
}

// Register adds a model under the given type.
func (r *Registry) Register(kind string, m Model) error {
	if kind == "" {
		return fmt.Errorf("model type is required")
	}
	if m == nil {
		return fmt.Errorf("model %q is nil", kind)
	}
	if _, ok := r.index[kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, kind)
	}
	r.index[kind] = len(r.entries)
	r.entries = append(r.entries, entry{kind: kind, model: m})
	return nil
}

// Models returns the registered models in registration order.
func (r *Registry) Models() []Model {
	out := make([]Model, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.model
	}
	return out
}

// Lookup returns the model registered under kind.
func (r *Registry) Lookup(kind string) (Model, bool) {
	i, ok := r.index[kind]
	if !ok {
		return nil, false
	}
	return r.entries[i].model, true
}

// Types returns the registered model types in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.kind
	}
	return out
}

// Len reports the number of registered models.
func (r *Registry) Len() int {
	return len(r.entries)
}
