// Package occi defines the OCCI core object model: categories, kinds,
// mixins, actions, attributes, resources, links and collections.
// Category identity is the (scheme, term) pair; titles and attribute sets
// never participate in identity.
package occi

// Class is the role tag of a category definition on the wire.
// Renderers and validators consult the class instead of inspecting
// concrete types.
type Class string

// Category classes.
const (
	ClassKind   Class = "kind"
	ClassMixin  Class = "mixin"
	ClassAction Class = "action"
)

// Category is a scheme-and-term-qualified type tag, the unit of identity
// in the model. Scheme includes the trailing "#" so that TypeID is a
// plain concatenation.
type Category struct {
	Scheme     string
	Term       string
	Title      string
	Attributes []Attribute
	Location   string
}

// TypeID returns the full type identifier, e.g.
// "http://schemas.ogf.org/occi/infrastructure#compute".
func (c *Category) TypeID() string {
	return c.Scheme + c.Term
}

// Cat returns the category itself. It exists so that Kind, Mixin and
// Action satisfy Definition through embedding.
func (c *Category) Cat() *Category {
	return c
}

// Attribute returns the declared attribute definition for name.
func (c *Category) Attribute(name string) (Attribute, bool) {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// SameIdentity reports whether two categories share the (scheme, term)
// identity pair.
func (c *Category) SameIdentity(other *Category) bool {
	return c.Scheme == other.Scheme && c.Term == other.Term
}

// Equal reports whether two categories are interchangeable definitions:
// same identity, title and declared attribute shape. Location is derived
// and does not participate.
func (c *Category) Equal(other *Category) bool {
	if !c.SameIdentity(other) || c.Title != other.Title {
		return false
	}
	if len(c.Attributes) != len(other.Attributes) {
		return false
	}
	for i, a := range c.Attributes {
		b := other.Attributes[i]
		if a.Name != b.Name || a.Type != b.Type || a.Required != b.Required || a.Mutable != b.Mutable {
			return false
		}
	}
	return true
}

// Definition is implemented by Kind, Mixin and Action. The registry and
// the renderers operate on definitions without caring which role they
// play beyond the Class tag.
type Definition interface {
	Cat() *Category
	Class() Class
}

// Kind defines a resource's primary type. Kinds form a tree through
// Parent; a parent must already be registered before its children.
type Kind struct {
	Category
	Parent  *Kind
	Actions []*Action
}

// Class returns ClassKind.
func (k *Kind) Class() Class { return ClassKind }

// DeclaredAttributes returns the attribute definitions declared by the
// kind and its ancestors, root first, deduplicated by name (the most
// derived declaration wins).
func (k *Kind) DeclaredAttributes() []Attribute {
	var chain []*Kind
	for cur := k; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	seen := make(map[string]bool)
	var out []Attribute
	for i := len(chain) - 1; i >= 0; i-- {
		for _, a := range chain[i].Attributes {
			if seen[a.Name] {
				for j := range out {
					if out[j].Name == a.Name {
						out[j] = a
					}
				}
				continue
			}
			seen[a.Name] = true
			out = append(out, a)
		}
	}
	return out
}

// Mixin extends a resource with optional capabilities, dynamically
// attachable. Applying a mixin implies its Depends must also be present.
// Applies names the kinds this mixin may attach to.
type Mixin struct {
	Category
	Depends []*Mixin
	Applies []*Kind
	Actions []*Action
}

// Class returns ClassMixin.
func (m *Mixin) Class() Class { return ClassMixin }

// DeclaredAttributes returns the attribute definitions declared by the
// mixin and its dependencies, dependencies first.
func (m *Mixin) DeclaredAttributes() []Attribute {
	seen := make(map[string]bool)
	var out []Attribute
	for _, dep := range m.Depends {
		for _, a := range dep.DeclaredAttributes() {
			if !seen[a.Name] {
				seen[a.Name] = true
				out = append(out, a)
			}
		}
	}
	for _, a := range m.Attributes {
		if !seen[a.Name] {
			seen[a.Name] = true
			out = append(out, a)
		}
	}
	return out
}

// Action names an invokable operation on a resource. Its category
// attributes are the action parameters.
type Action struct {
	Category
}

// Class returns ClassAction.
func (a *Action) Class() Class { return ClassAction }
