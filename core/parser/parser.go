// Package parser turns raw request headers and bodies into the generic
// intermediate representation consumed by the validator. Parsing is
// purely syntactic: no registry lookups and no type validation happen
// here, only structure.
package parser

import (
	"net/http"
	"strings"

	"github.com/artpar/occigate/domain/occierr"
)

// Representation is the generic intermediate form shared by every wire
// format: the primary category identifier, the declared mixin
// identifiers in wire order, the raw attribute values, and the declared
// terms grouped by scheme. Whether a mixin is required or optional is a
// property of the validation scheme, not of the wire form, so the
// representation carries a single mixin sequence.
type Representation struct {
	// Category is the type identifier of the primary category
	// (the kind for entity operations, the action for invocations).
	Category string

	// Mixins holds declared mixin identifiers in wire order, without
	// deduplication.
	Mixins []string

	// Attributes maps attribute names to raw values. Quoted wire values
	// stay strings; unquoted numeric and boolean tokens arrive typed.
	Attributes map[string]any

	// AttrOrder preserves attribute insertion order for rendering
	// round trips.
	AttrOrder []string

	// Schemes groups declared terms by scheme.
	Schemes map[string][]string
}

func newRepresentation() *Representation {
	return &Representation{
		Attributes: make(map[string]any),
		Schemes:    make(map[string][]string),
	}
}

// HasScheme reports whether any category with the given scheme was
// declared.
func (r *Representation) HasScheme(scheme string) bool {
	_, ok := r.Schemes[scheme]
	return ok
}

// setAttribute records a raw attribute value, keeping insertion order.
func (r *Representation) setAttribute(name string, value any) {
	if _, exists := r.Attributes[name]; !exists {
		r.AttrOrder = append(r.AttrOrder, name)
	}
	r.Attributes[name] = value
}

// Parser is implemented once per supported wire format.
type Parser interface {
	// Parse turns raw headers and body bytes into a representation.
	// It fails with MalformedRepresentation when required structural
	// markers are absent or unparsable.
	Parse(header http.Header, body []byte) (*Representation, error)
}

// Supported content types.
const (
	MediaTextOCCI  = "text/occi"
	MediaTextPlain = "text/plain"
	MediaOCCIJSON  = "application/occi+json"
	MediaJSON      = "application/json"
)

// For returns the parser for a declared content type. An empty content
// type defaults to the text/plain form.
func For(contentType string) (Parser, error) {
	switch mediaType(contentType) {
	case MediaTextOCCI:
		return &TextParser{FromHeaders: true}, nil
	case MediaTextPlain, "":
		return &TextParser{}, nil
	case MediaOCCIJSON, MediaJSON:
		return &JSONParser{}, nil
	default:
		return nil, occierr.NotAcceptable(contentType)
	}
}

// mediaType strips parameters from a Content-Type value.
func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
