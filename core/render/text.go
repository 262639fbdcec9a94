package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/domain/occierr"
)

// TextRenderer produces the header-encoded form. The text/plain variant
// writes the protocol lines into the body; the text/occi variant returns
// them as response headers with a short body.
type TextRenderer struct {
	// ToHeaders selects the text/occi variant.
	ToHeaders bool
}

// ContentType implements Renderer.
func (r *TextRenderer) ContentType() string {
	if r.ToHeaders {
		return "text/occi"
	}
	return "text/plain"
}

// Render implements Renderer.
func (r *TextRenderer) Render(obj any) (Result, error) {
	lines, err := textLines(obj)
	if err != nil {
		return Result{}, err
	}
	return r.pack(lines), nil
}

// RenderError implements Renderer. The mapping is total.
func (r *TextRenderer) RenderError(err error) Result {
	msg := "internal error"
	var e *occierr.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	return Result{ContentType: r.ContentType(), Body: []byte(msg + "\n")}
}

func (r *TextRenderer) pack(lines [][2]string) Result {
	if r.ToHeaders {
		return Result{ContentType: r.ContentType(), Headers: lines, Body: []byte("OK\n")}
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line[0])
		b.WriteString(": ")
		b.WriteString(line[1])
		b.WriteString("\n")
	}
	return Result{ContentType: r.ContentType(), Body: []byte(b.String())}
}

// textLines dispatches on the model object.
func textLines(obj any) ([][2]string, error) {
	switch o := obj.(type) {
	case *occi.Resource:
		return resourceLines(o), nil
	case *occi.Link:
		return linkLines(o), nil
	case *occi.Collection:
		return collectionLines(o), nil
	case occi.Definition:
		return [][2]string{{"Category", definitionLine(o)}}, nil
	default:
		return nil, fmt.Errorf("cannot render %T", obj)
	}
}

// definitionLine renders the full capability form of a category:
// term; scheme; class; title; rel; location; attributes; actions.
func definitionLine(def occi.Definition) string {
	cat := def.Cat()
	var b strings.Builder
	fmt.Fprintf(&b, "%s; scheme=%q; class=%q", cat.Term, cat.Scheme, string(def.Class()))
	if cat.Title != "" {
		fmt.Fprintf(&b, "; title=%q", cat.Title)
	}
	if rel := definitionRel(def); rel != "" {
		fmt.Fprintf(&b, "; rel=%q", rel)
	}
	if cat.Location != "" {
		fmt.Fprintf(&b, "; location=%q", cat.Location)
	}
	if len(cat.Attributes) > 0 {
		names := make([]string, len(cat.Attributes))
		for i, a := range cat.Attributes {
			names[i] = a.Name
		}
		fmt.Fprintf(&b, "; attributes=%q", strings.Join(names, " "))
	}
	if actions := definitionActions(def); len(actions) > 0 {
		fmt.Fprintf(&b, "; actions=%q", strings.Join(actions, " "))
	}
	return b.String()
}

func definitionRel(def occi.Definition) string {
	switch d := def.(type) {
	case *occi.Kind:
		if d.Parent != nil {
			return d.Parent.TypeID()
		}
	case *occi.Mixin:
		if len(d.Depends) > 0 {
			return d.Depends[0].TypeID()
		}
	}
	return ""
}

func definitionActions(def occi.Definition) []string {
	var acts []*occi.Action
	switch d := def.(type) {
	case *occi.Kind:
		acts = d.Actions
	case *occi.Mixin:
		acts = d.Actions
	}
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.TypeID()
	}
	return out
}

// instanceLine renders the short category form used inside resource and
// link blocks.
func instanceLine(cat *occi.Category, class occi.Class) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s; scheme=%q; class=%q", cat.Term, cat.Scheme, string(class))
	if cat.Title != "" {
		fmt.Fprintf(&b, "; title=%q", cat.Title)
	}
	return b.String()
}

// resourceLines renders one resource block: primary category first, then
// mixins in attachment order, attributes in declaration-then-insertion
// order, one Link line per owned link, and the resource location.
func resourceLines(res *occi.Resource) [][2]string {
	var lines [][2]string
	lines = append(lines, [2]string{"Category", instanceLine(&res.Kind.Category, occi.ClassKind)})
	for _, m := range res.Mixins {
		lines = append(lines, [2]string{"Category", instanceLine(&m.Category, occi.ClassMixin)})
	}
	for _, name := range res.AttributeNames() {
		v, _ := res.Get(name)
		lines = append(lines, [2]string{"X-OCCI-Attribute", attributeExpr(name, v.Value)})
	}
	for _, l := range res.Links() {
		lines = append(lines, [2]string{"Link", linkExpr(l)})
	}
	lines = append(lines, [2]string{"X-OCCI-Location", res.Location()})
	return lines
}

func linkLines(l *occi.Link) [][2]string {
	return [][2]string{{"Link", linkExpr(l)}}
}

// linkExpr renders one link line embedding the target location, the
// target kind as rel, the link's own identity and its attributes.
func linkExpr(l *occi.Link) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s>", l.TargetLocation())
	if l.TargetKind != nil {
		fmt.Fprintf(&b, "; rel=%q", l.TargetKind.TypeID())
	}
	fmt.Fprintf(&b, "; self=%q", l.Location())
	if l.Kind != nil {
		fmt.Fprintf(&b, "; category=%q", l.Kind.TypeID())
	}
	for _, name := range l.AttributeNames() {
		v, _ := l.Get(name)
		fmt.Fprintf(&b, "; %s", attributeExpr(name, v.Value))
	}
	return b.String()
}

// attributeExpr renders name=value with format-specific quoting: strings
// quoted, numbers and booleans unquoted. The rules round-trip exactly
// with the text parser.
func attributeExpr(name string, value any) string {
	switch v := value.(type) {
	case float64:
		return fmt.Sprintf("%s=%s", name, formatNumber(v))
	case bool:
		return fmt.Sprintf("%s=%t", name, v)
	default:
		return fmt.Sprintf("%s=%q", name, fmt.Sprint(v))
	}
}

// collectionLines renders a collection as a repeated block, preserving
// source order: definitions first, then resources, then bare links.
func collectionLines(col *occi.Collection) [][2]string {
	var lines [][2]string
	for _, def := range col.Definitions() {
		lines = append(lines, [2]string{"Category", definitionLine(def)})
	}
	for _, res := range col.Resources {
		lines = append(lines, resourceLines(res)...)
	}
	for _, l := range col.Links {
		lines = append(lines, linkLines(l)...)
	}
	return lines
}
