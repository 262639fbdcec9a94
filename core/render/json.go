package render

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/domain/occierr"
)

// JSONRenderer produces the structured-body form: an object mirroring
// the representation fields with type-correct scalars.
type JSONRenderer struct {
	// Plain selects application/json instead of application/occi+json.
	Plain bool
}

// ContentType implements Renderer.
func (r *JSONRenderer) ContentType() string {
	if r.Plain {
		return "application/json"
	}
	return "application/occi+json"
}

// Render implements Renderer.
func (r *JSONRenderer) Render(obj any) (Result, error) {
	var v any
	switch o := obj.(type) {
	case *occi.Resource:
		v = resourceObject(o)
	case *occi.Link:
		v = linkObject(o)
	case *occi.Collection:
		v = collectionObject(o)
	case occi.Definition:
		v = definitionObject(o)
	default:
		return Result{}, fmt.Errorf("cannot render %T", obj)
	}

	body, err := json.Marshal(v)
	if err != nil {
		return Result{}, fmt.Errorf("marshal response: %w", err)
	}
	return Result{ContentType: r.ContentType(), Body: append(body, '\n')}, nil
}

// RenderError implements Renderer. The mapping is total.
func (r *JSONRenderer) RenderError(err error) Result {
	code, msg := occierr.CodeInternal, "internal error"
	var e *occierr.Error
	if errors.As(err, &e) {
		code, msg = e.Code, e.Message
	}
	body, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
	return Result{ContentType: r.ContentType(), Body: append(body, '\n')}
}

func resourceObject(res *occi.Resource) map[string]any {
	mixins := make([]string, len(res.Mixins))
	for i, m := range res.Mixins {
		mixins[i] = m.TypeID()
	}
	attrs := make(map[string]any)
	for _, name := range res.AttributeNames() {
		v, _ := res.Get(name)
		attrs[name] = v.Value
	}
	actions := make([]string, 0)
	for _, a := range res.Actions() {
		actions = append(actions, a.TypeID())
	}
	links := make([]map[string]any, 0)
	for _, l := range res.Links() {
		links = append(links, linkObject(l))
	}
	return map[string]any{
		"id":         res.ID,
		"title":      res.Title,
		"kind":       res.Kind.TypeID(),
		"mixins":     mixins,
		"attributes": attrs,
		"actions":    actions,
		"links":      links,
		"location":   res.Location(),
	}
}

func linkObject(l *occi.Link) map[string]any {
	attrs := make(map[string]any)
	for _, name := range l.AttributeNames() {
		v, _ := l.Get(name)
		attrs[name] = v.Value
	}
	obj := map[string]any{
		"id":         l.ID,
		"attributes": attrs,
		"location":   l.Location(),
		"target":     l.TargetLocation(),
	}
	if l.Kind != nil {
		obj["kind"] = l.Kind.TypeID()
	}
	if l.TargetKind != nil {
		obj["rel"] = l.TargetKind.TypeID()
	}
	return obj
}

func definitionObject(def occi.Definition) map[string]any {
	cat := def.Cat()
	attrs := make(map[string]any)
	for _, a := range cat.Attributes {
		attrs[a.Name] = map[string]any{
			"type":     a.Type.String(),
			"mutable":  a.Mutable,
			"required": a.Required,
		}
	}
	obj := map[string]any{
		"term":       cat.Term,
		"scheme":     cat.Scheme,
		"class":      string(def.Class()),
		"attributes": attrs,
	}
	if cat.Title != "" {
		obj["title"] = cat.Title
	}
	if cat.Location != "" {
		obj["location"] = cat.Location
	}
	switch d := def.(type) {
	case *occi.Kind:
		if d.Parent != nil {
			obj["parent"] = d.Parent.TypeID()
		}
		obj["actions"] = actionIDs(d.Actions)
	case *occi.Mixin:
		if len(d.Depends) > 0 {
			deps := make([]string, len(d.Depends))
			for i, dep := range d.Depends {
				deps[i] = dep.TypeID()
			}
			obj["depends"] = deps
		}
		obj["actions"] = actionIDs(d.Actions)
	}
	return obj
}

func actionIDs(acts []*occi.Action) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.TypeID()
	}
	return out
}

func collectionObject(col *occi.Collection) map[string]any {
	obj := make(map[string]any)
	if len(col.Kinds) > 0 {
		kinds := make([]map[string]any, len(col.Kinds))
		for i, k := range col.Kinds {
			kinds[i] = definitionObject(k)
		}
		obj["kinds"] = kinds
	}
	if len(col.Mixins) > 0 {
		mixins := make([]map[string]any, len(col.Mixins))
		for i, m := range col.Mixins {
			mixins[i] = definitionObject(m)
		}
		obj["mixins"] = mixins
	}
	if len(col.Actions) > 0 {
		actions := make([]map[string]any, len(col.Actions))
		for i, a := range col.Actions {
			actions[i] = definitionObject(a)
		}
		obj["actions"] = actions
	}
	if len(col.Resources) > 0 {
		resources := make([]map[string]any, len(col.Resources))
		for i, r := range col.Resources {
			resources[i] = resourceObject(r)
		}
		obj["resources"] = resources
	}
	if len(col.Links) > 0 {
		links := make([]map[string]any, len(col.Links))
		for i, l := range col.Links {
			links[i] = linkObject(l)
		}
		obj["links"] = links
	}
	return obj
}
