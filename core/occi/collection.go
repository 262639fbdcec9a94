package occi

// Collection is an ordered sequence of definitions and resources used as
// the payload for listing operations. Order is preserved and nothing is
// deduplicated.
type Collection struct {
	Kinds     []*Kind
	Mixins    []*Mixin
	Actions   []*Action
	Resources []*Resource
	Links     []*Link
}

// NewResourceCollection wraps resources in a collection, preserving
// source order.
func NewResourceCollection(resources []*Resource) *Collection {
	return &Collection{Resources: resources}
}

// Empty reports whether the collection carries no payload.
func (c *Collection) Empty() bool {
	return len(c.Kinds) == 0 && len(c.Mixins) == 0 && len(c.Actions) == 0 &&
		len(c.Resources) == 0 && len(c.Links) == 0
}

// Definitions returns the category definitions in registration order:
// kinds, then mixins, then actions.
func (c *Collection) Definitions() []Definition {
	out := make([]Definition, 0, len(c.Kinds)+len(c.Mixins)+len(c.Actions))
	for _, k := range c.Kinds {
		out = append(out, k)
	}
	for _, m := range c.Mixins {
		out = append(out, m)
	}
	for _, a := range c.Actions {
		out = append(out, a)
	}
	return out
}
