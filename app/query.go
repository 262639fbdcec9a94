package app

import (
	"strings"

	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/core/parser"
	"github.com/artpar/occigate/core/registry"
	"github.com/artpar/occigate/domain/occierr"
)

// QueryService answers the discovery interface: the full capability
// taxonomy, or the subset matching a filter representation.
type QueryService struct {
	registry *registry.Registry
}

// NewQueryService creates a query service over a registry.
func NewQueryService(reg *registry.Registry) *QueryService {
	return &QueryService{registry: reg}
}

// Capabilities returns the registered taxonomy. A non-nil filter narrows
// the answer to the categories it declares; an unregistered filter
// category is a lookup failure.
func (s *QueryService) Capabilities(filter *parser.Representation) (*occi.Collection, error) {
	if filter == nil || (filter.Category == "" && len(filter.Mixins) == 0) {
		return s.registry.Collection(), nil
	}

	ids := make([]string, 0, 1+len(filter.Mixins))
	if filter.Category != "" {
		ids = append(ids, filter.Category)
	}
	ids = append(ids, filter.Mixins...)

	col := &occi.Collection{}
	for _, id := range ids {
		def, ok := s.registry.LookupID(id)
		if !ok {
			scheme, term := splitTypeID(id)
			return nil, occierr.CategoryNotFound(scheme, term)
		}
		switch d := def.(type) {
		case *occi.Kind:
			col.Kinds = append(col.Kinds, d)
		case *occi.Mixin:
			col.Mixins = append(col.Mixins, d)
		case *occi.Action:
			col.Actions = append(col.Actions, d)
		}
	}
	return col, nil
}

// splitTypeID splits a type identifier into scheme (keeping its trailing
// "#") and term.
func splitTypeID(id string) (scheme, term string) {
	idx := strings.LastIndex(id, "#")
	if idx < 0 {
		return "", id
	}
	return id[:idx+1], id[idx+1:]
}
