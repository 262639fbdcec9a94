package occi

import "fmt"

// Resource is a request-scoped entity: exactly one Kind, a set of Mixins,
// typed attribute values, and the links it exclusively owns. Instances
// are created per request and discarded once the response is produced.
type Resource struct {
	ID      string
	Title   string
	Summary string
	Kind    *Kind
	Mixins  []*Mixin

	attrs map[string]AttributeValue
	order []string
	links []*Link
}

// NewResource builds a resource of the given kind with the given mixins
// attached. The occi.core identity attributes are populated from id and
// title when the kind declares them.
func NewResource(id, title string, kind *Kind, mixins []*Mixin) *Resource {
	r := &Resource{
		ID:     id,
		Title:  title,
		Kind:   kind,
		Mixins: mixins,
		attrs:  make(map[string]AttributeValue),
	}
	if _, ok := r.declared("occi.core.id"); ok && id != "" {
		_ = r.Set("occi.core.id", id)
	}
	if _, ok := r.declared("occi.core.title"); ok && title != "" {
		_ = r.Set("occi.core.title", title)
	}
	return r
}

// declared resolves an attribute definition from the kind chain and the
// attached mixins (including mixin dependencies).
func (r *Resource) declared(name string) (Attribute, bool) {
	for _, a := range r.DeclaredAttributes() {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// DeclaredAttributes returns the union of the attribute definitions
// declared by the kind chain and every attached mixin, in declaration
// order: kind first, then mixins in attachment order.
func (r *Resource) DeclaredAttributes() []Attribute {
	seen := make(map[string]bool)
	var out []Attribute
	if r.Kind != nil {
		for _, a := range r.Kind.DeclaredAttributes() {
			seen[a.Name] = true
			out = append(out, a)
		}
	}
	for _, m := range r.Mixins {
		for _, a := range m.DeclaredAttributes() {
			if !seen[a.Name] {
				seen[a.Name] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// Set stores an attribute value after coercing it to the declared type.
// Every attribute key present on a resource must be declared by the kind
// or one of the attached mixins.
func (r *Resource) Set(name string, value any) error {
	def, ok := r.declared(name)
	if !ok {
		return fmt.Errorf("attribute %q is not declared by kind %q or its mixins", name, r.Kind.Term)
	}
	v, err := def.Coerce(value)
	if err != nil {
		return err
	}
	if _, exists := r.attrs[name]; !exists {
		r.order = append(r.order, name)
	}
	r.attrs[name] = AttributeValue{Def: def, Value: v}
	return nil
}

// Get returns the stored value for name.
func (r *Resource) Get(name string) (AttributeValue, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// AttributeNames returns the names of the attributes present, declared
// definitions first in declaration order, then the rest in insertion
// order.
func (r *Resource) AttributeNames() []string {
	var out []string
	emitted := make(map[string]bool)
	for _, def := range r.DeclaredAttributes() {
		if _, ok := r.attrs[def.Name]; ok {
			out = append(out, def.Name)
			emitted[def.Name] = true
		}
	}
	for _, name := range r.order {
		if !emitted[name] {
			out = append(out, name)
		}
	}
	return out
}

// Actions returns the actions applicable to this resource: the union of
// the kind's actions and every attached mixin's actions, in declaration
// order without duplicates.
func (r *Resource) Actions() []*Action {
	seen := make(map[string]bool)
	var out []*Action
	add := func(acts []*Action) {
		for _, a := range acts {
			id := a.TypeID()
			if !seen[id] {
				seen[id] = true
				out = append(out, a)
			}
		}
	}
	if r.Kind != nil {
		add(r.Kind.Actions)
	}
	for _, m := range r.Mixins {
		add(m.Actions)
	}
	return out
}

// AddLink attaches a link owned exclusively by this resource. The link's
// source id is stamped from the resource.
func (r *Resource) AddLink(l *Link) {
	l.SourceID = r.ID
	if _, ok := l.declared("occi.core.source"); ok {
		_ = l.Set("occi.core.source", r.Location())
	}
	r.links = append(r.links, l)
}

// Links returns the links owned by the resource in attachment order.
func (r *Resource) Links() []*Link {
	out := make([]*Link, len(r.links))
	copy(out, r.links)
	return out
}

// Location returns the protocol location of the resource, derived from
// the kind's location and the resource id.
func (r *Resource) Location() string {
	if r.Kind == nil || r.Kind.Location == "" {
		return "/" + r.ID
	}
	return r.Kind.Location + r.ID
}
