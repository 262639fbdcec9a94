package occi

import "fmt"

// Link connects its owning source resource to a target. The source owns
// the link exclusively; the target is held as a non-owning identifier,
// never a back-reference, so resource graphs stay acyclic.
type Link struct {
	ID     string
	Title  string
	Kind   *Kind
	Mixins []*Mixin

	SourceID   string
	TargetID   string
	TargetKind *Kind

	attrs map[string]AttributeValue
	order []string
}

// NewLink builds a link of the given kind pointing at the target
// identifier. The occi.core.target attribute is populated when declared;
// occi.core.source is stamped by Resource.AddLink.
func NewLink(id string, kind *Kind, mixins []*Mixin, targetID string, targetKind *Kind) *Link {
	l := &Link{
		ID:         id,
		Kind:       kind,
		Mixins:     mixins,
		TargetID:   targetID,
		TargetKind: targetKind,
		attrs:      make(map[string]AttributeValue),
	}
	if _, ok := l.declared("occi.core.id"); ok && id != "" {
		_ = l.Set("occi.core.id", id)
	}
	if _, ok := l.declared("occi.core.target"); ok && targetID != "" {
		_ = l.Set("occi.core.target", l.TargetLocation())
	}
	return l
}

func (l *Link) declared(name string) (Attribute, bool) {
	for _, a := range l.DeclaredAttributes() {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// DeclaredAttributes returns the union of the attribute definitions
// declared by the link kind chain and the attached mixins.
func (l *Link) DeclaredAttributes() []Attribute {
	seen := make(map[string]bool)
	var out []Attribute
	if l.Kind != nil {
		for _, a := range l.Kind.DeclaredAttributes() {
			seen[a.Name] = true
			out = append(out, a)
		}
	}
	for _, m := range l.Mixins {
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
func (l *Link) Set(name string, value any) error {
	def, ok := l.declared(name)
	if !ok {
		return fmt.Errorf("attribute %q is not declared by link kind %q or its mixins", name, l.Kind.Term)
	}
	v, err := def.Coerce(value)
	if err != nil {
		return err
	}
	if _, exists := l.attrs[name]; !exists {
		l.order = append(l.order, name)
	}
	l.attrs[name] = AttributeValue{Def: def, Value: v}
	return nil
}

// Get returns the stored value for name.
func (l *Link) Get(name string) (AttributeValue, bool) {
	v, ok := l.attrs[name]
	return v, ok
}

// AttributeNames returns the present attribute names, declared order
// first, insertion order for the rest.
func (l *Link) AttributeNames() []string {
	var out []string
	emitted := make(map[string]bool)
	for _, def := range l.DeclaredAttributes() {
		if _, ok := l.attrs[def.Name]; ok {
			out = append(out, def.Name)
			emitted[def.Name] = true
		}
	}
	for _, name := range l.order {
		if !emitted[name] {
			out = append(out, name)
		}
	}
	return out
}

// Location returns the protocol location of the link.
func (l *Link) Location() string {
	if l.Kind == nil || l.Kind.Location == "" {
		return "/" + l.ID
	}
	return l.Kind.Location + l.ID
}

// TargetLocation returns the location of the target resource, resolved
// from the target kind's location and the target identifier.
func (l *Link) TargetLocation() string {
	if l.TargetKind == nil || l.TargetKind.Location == "" {
		return "/" + l.TargetID
	}
	return l.TargetKind.Location + l.TargetID
}
