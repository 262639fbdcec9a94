// Package registry manages category registration and conflict detection.
// The registry is populated once at start-up and is read-only while
// requests are served, so concurrent readers need no coordination beyond
// the registration-phase mutex.
package registry

import (
	"sync"

	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/domain/occierr"
)

// Registry is the process-wide table of category definitions, looked up
// by (scheme, term). Construct one explicitly and pass it by reference;
// tests build isolated instances.
type Registry struct {
	mu sync.RWMutex

	// definitions by scheme#term
	defs map[string]occi.Definition

	// registration order for capability discovery
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		defs: make(map[string]occi.Definition),
	}
}

// Register adds a definition. Re-registering an identical definition is
// idempotent; a different definition under the same (scheme, term) fails
// with CategoryConflict. A kind's parent must already be registered.
func (r *Registry) Register(def occi.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cat := def.Cat()
	id := cat.TypeID()

	if existing, ok := r.defs[id]; ok {
		if existing.Class() == def.Class() && existing.Cat().Equal(cat) {
			return nil
		}
		return occierr.CategoryConflict(cat.Scheme, cat.Term)
	}

	if k, ok := def.(*occi.Kind); ok && k.Parent != nil {
		parentID := k.Parent.TypeID()
		if _, ok := r.defs[parentID]; !ok {
			return occierr.CategoryNotFound(k.Parent.Scheme, k.Parent.Term)
		}
	}

	r.defs[id] = def
	r.order = append(r.order, id)
	return nil
}

// MustRegister registers a definition and panics on failure. Start-up
// taxonomy registration uses it; request paths never do.
func (r *Registry) MustRegister(defs ...occi.Definition) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the definition registered under (scheme, term).
func (r *Registry) Lookup(scheme, term string) (occi.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[scheme+term]
	if !ok {
		return nil, occierr.CategoryNotFound(scheme, term)
	}
	return def, nil
}

// LookupID returns the definition registered under a full type
// identifier ("scheme#term").
func (r *Registry) LookupID(id string) (occi.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[id]
	return def, ok
}

// LookupKind returns the kind registered under (scheme, term).
func (r *Registry) LookupKind(scheme, term string) (*occi.Kind, error) {
	def, err := r.Lookup(scheme, term)
	if err != nil {
		return nil, err
	}
	k, ok := def.(*occi.Kind)
	if !ok {
		return nil, occierr.CategoryNotFound(scheme, term)
	}
	return k, nil
}

// LookupMixin returns the mixin registered under (scheme, term).
func (r *Registry) LookupMixin(scheme, term string) (*occi.Mixin, error) {
	def, err := r.Lookup(scheme, term)
	if err != nil {
		return nil, err
	}
	m, ok := def.(*occi.Mixin)
	if !ok {
		return nil, occierr.CategoryNotFound(scheme, term)
	}
	return m, nil
}

// List returns every registered definition in registration order. Used
// for capability-discovery responses.
func (r *Registry) List() []occi.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]occi.Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Collection returns the registered definitions grouped by class, each
// group preserving registration order.
func (r *Registry) Collection() *occi.Collection {
	col := &occi.Collection{}
	for _, def := range r.List() {
		switch d := def.(type) {
		case *occi.Kind:
			col.Kinds = append(col.Kinds, d)
		case *occi.Mixin:
			col.Mixins = append(col.Mixins, d)
		case *occi.Action:
			col.Actions = append(col.Actions, d)
		}
	}
	return col
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
