// Package render serializes resources, links, categories, collections
// and errors into the negotiated wire format. One renderer per content
// type; a registry keyed by content type performs negotiation.
package render

import (
	"strconv"
	"strings"

	"github.com/artpar/occigate/domain/occierr"
)

// Result is a rendered response: ordered protocol header lines for the
// header-encoded form (nil for body formats) and the response body.
type Result struct {
	ContentType string
	Headers     [][2]string
	Body        []byte
}

// Renderer converts model objects into response bytes for one format.
type Renderer interface {
	// ContentType returns the content type this renderer produces.
	ContentType() string

	// Render serializes a *occi.Resource, *occi.Link, occi.Definition
	// or *occi.Collection.
	Render(obj any) (Result, error)

	// RenderError serializes an error. The mapping is total: error
	// values outside the taxonomy render as a generic internal error.
	RenderError(err error) Result
}

// Registry holds the renderers available for negotiation.
type Registry struct {
	renderers  map[string]Renderer
	order      []string
	defaultFmt string
}

// NewRegistry creates a registry with the standard renderers: text/plain
// (the default), text/occi and the two JSON content types.
func NewRegistry() *Registry {
	r := &Registry{
		renderers:  make(map[string]Renderer),
		defaultFmt: "text/plain",
	}
	r.register(&TextRenderer{})
	r.register(&TextRenderer{ToHeaders: true})
	r.register(&JSONRenderer{})
	r.register(&JSONRenderer{Plain: true})
	return r
}

func (r *Registry) register(renderer Renderer) {
	ct := renderer.ContentType()
	if _, exists := r.renderers[ct]; !exists {
		r.order = append(r.order, ct)
	}
	r.renderers[ct] = renderer
}

// Get returns the renderer for an exact content type.
func (r *Registry) Get(contentType string) (Renderer, bool) {
	renderer, ok := r.renderers[normalizeMedia(contentType)]
	return renderer, ok
}

// Default returns the default renderer.
func (r *Registry) Default() Renderer {
	return r.renderers[r.defaultFmt]
}

// Negotiate picks a renderer for an Accept header value. Entries are
// tried in order; wildcard and empty accept fall back to the default.
// An unservable Accept value fails with NotAcceptable.
func (r *Registry) Negotiate(accept string) (Renderer, error) {
	if strings.TrimSpace(accept) == "" {
		return r.Default(), nil
	}
	for _, entry := range strings.Split(accept, ",") {
		mt := normalizeMedia(entry)
		switch mt {
		case "*/*", "":
			return r.Default(), nil
		}
		if renderer, ok := r.renderers[mt]; ok {
			return renderer, nil
		}
		if prefix, ok := strings.CutSuffix(mt, "/*"); ok {
			for _, ct := range r.order {
				if strings.HasPrefix(ct, prefix+"/") {
					return r.renderers[ct], nil
				}
			}
		}
	}
	return nil, occierr.NotAcceptable(accept)
}

// normalizeMedia lowercases a media type and strips parameters.
func normalizeMedia(s string) string {
	mt, _, _ := strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// formatNumber renders a float in the shortest form that parses back to
// the same value, matching the parser's numeric token rules.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
