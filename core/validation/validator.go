// Package validation checks parsed representations against operation
// schemes. Validation is a pure function: deterministic, side-effect
// free, failing fast on the first violation in a fixed check order.
package validation

import (
	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/core/parser"
	"github.com/artpar/occigate/domain/occierr"
)

// Scheme describes what an operation expects of a representation: the
// required primary category, the mixins that must be declared, and the
// mixins that may be declared. Mixins match by scheme, so a concrete
// template mixin satisfies the template base that shares its scheme.
type Scheme struct {
	// Category is the required primary category (a kind for entity
	// operations, an action for invocations).
	Category occi.Definition

	// Mixins must all be present.
	Mixins []*occi.Mixin

	// OptionalMixins may be present.
	OptionalMixins []*occi.Mixin

	// AllowOptionalAttributes accepts attributes declared by an optional
	// mixin even when that mixin is absent from the representation.
	// Update paths set it; creation paths leave it unset.
	AllowOptionalAttributes bool
}

// Validate checks a representation against a scheme, in order:
// primary category, unexpected categories, missing categories, attribute
// names, required attributes, attribute value types. The first violation
// is returned; identical inputs always yield the identical result.
func Validate(rep *parser.Representation, s Scheme) error {
	want := s.Category.Cat().TypeID()
	if rep.Category != want {
		return occierr.InvalidCategory(want, rep.Category)
	}

	allowed := make(map[string]bool)
	for _, m := range s.Mixins {
		allowed[m.Scheme] = true
	}
	for _, m := range s.OptionalMixins {
		allowed[m.Scheme] = true
	}
	for _, id := range rep.Mixins {
		scheme, _, err := splitID(id)
		if err != nil {
			return err
		}
		if !allowed[scheme] {
			return occierr.UnexpectedCategory(id)
		}
	}

	for _, m := range s.Mixins {
		if !rep.HasScheme(m.Scheme) {
			return occierr.MissingCategory(m.TypeID())
		}
	}

	declared := declaredAttributes(rep, s)
	for _, name := range rep.AttrOrder {
		if _, ok := declared[name]; !ok {
			return occierr.InvalidAttribute(name)
		}
	}

	for _, def := range declaredList(rep, s) {
		if !def.Required {
			continue
		}
		if _, ok := rep.Attributes[def.Name]; !ok {
			return occierr.MissingAttribute(def.Name)
		}
	}

	for _, name := range rep.AttrOrder {
		def := declared[name]
		if _, err := def.Coerce(rep.Attributes[name]); err != nil {
			return occierr.InvalidAttributeValue(name, err)
		}
	}

	return nil
}

// declaredList resolves the attribute definitions in effect for this
// scheme and representation: the primary category's declarations, then
// each scheme mixin that is present (or optional when the scheme allows
// absent-optional attributes), dependencies included.
func declaredList(rep *parser.Representation, s Scheme) []occi.Attribute {
	seen := make(map[string]bool)
	var out []occi.Attribute
	add := func(attrs []occi.Attribute) {
		for _, a := range attrs {
			if !seen[a.Name] {
				seen[a.Name] = true
				out = append(out, a)
			}
		}
	}

	switch cat := s.Category.(type) {
	case *occi.Kind:
		add(cat.DeclaredAttributes())
	case *occi.Mixin:
		add(cat.DeclaredAttributes())
	default:
		add(s.Category.Cat().Attributes)
	}

	for _, m := range s.Mixins {
		if rep.HasScheme(m.Scheme) {
			add(m.DeclaredAttributes())
		}
	}
	for _, m := range s.OptionalMixins {
		if rep.HasScheme(m.Scheme) || s.AllowOptionalAttributes {
			add(m.DeclaredAttributes())
		}
	}
	return out
}

func declaredAttributes(rep *parser.Representation, s Scheme) map[string]occi.Attribute {
	out := make(map[string]occi.Attribute)
	for _, a := range declaredList(rep, s) {
		out[a.Name] = a
	}
	return out
}

func splitID(id string) (scheme, term string, err error) {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '#' {
			if i == len(id)-1 {
				break
			}
			return id[:i+1], id[i+1:], nil
		}
	}
	return "", "", occierr.MalformedRepresentation("category identifier %q has no scheme separator", id)
}
