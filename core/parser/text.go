package parser

import (
	"bufio"
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/artpar/occigate/domain/occierr"
)

// TextParser handles the two header-encoded forms: text/occi carries the
// protocol lines as HTTP headers, text/plain carries the same lines in
// the request body.
type TextParser struct {
	// FromHeaders selects the text/occi variant.
	FromHeaders bool

	// Filter accepts representations without a kind or action category.
	// Discovery filters may declare mixins only.
	Filter bool
}

// Parse implements Parser.
func (p *TextParser) Parse(header http.Header, body []byte) (*Representation, error) {
	var categories, attributes []string

	if p.FromHeaders {
		categories = header.Values("Category")
		attributes = header.Values("X-Occi-Attribute")
	} else {
		var err error
		categories, attributes, err = splitBodyLines(body)
		if err != nil {
			return nil, err
		}
	}

	if len(categories) == 0 {
		return nil, occierr.MalformedRepresentation("no category present in representation")
	}

	rep := newRepresentation()
	for _, value := range categories {
		for _, raw := range splitQuoted(value, ',') {
			if err := parseCategory(rep, raw); err != nil {
				return nil, err
			}
		}
	}
	if rep.Category == "" && !p.Filter {
		return nil, occierr.MalformedRepresentation("no kind or action category present")
	}

	for _, value := range attributes {
		for _, raw := range splitQuoted(value, ',') {
			if err := parseAttribute(rep, raw); err != nil {
				return nil, err
			}
		}
	}

	return rep, nil
}

// splitBodyLines extracts Category and X-OCCI-Attribute lines from a
// text/plain body.
func splitBodyLines(body []byte) (categories, attributes []string, err error) {
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, nil, occierr.MalformedRepresentation("line %q has no header separator", line)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "category":
			categories = append(categories, value)
		case "x-occi-attribute":
			attributes = append(attributes, value)
		case "link", "x-occi-location":
			// links and locations are resolved server side, not part of
			// the inbound representation
		default:
			return nil, nil, occierr.MalformedRepresentation("unexpected line %q", name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, occierr.MalformedRepresentation("unreadable body: %v", err)
	}
	return categories, attributes, nil
}

// parseCategory parses one category expression:
//
//	term; scheme="http://..."; class="kind"; title="..."
func parseCategory(rep *Representation, raw string) error {
	parts := splitQuoted(raw, ';')
	if len(parts) == 0 {
		return occierr.MalformedRepresentation("empty category expression")
	}
	term := strings.TrimSpace(parts[0])
	if term == "" || strings.Contains(term, "=") {
		return occierr.MalformedRepresentation("category expression %q has no term", raw)
	}

	params := make(map[string]string)
	for _, kv := range parts[1:] {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return occierr.MalformedRepresentation("category parameter %q has no value", kv)
		}
		params[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	scheme, ok := params["scheme"]
	if !ok || scheme == "" {
		return occierr.MalformedRepresentation("category %q has no scheme", term)
	}
	id := scheme + term

	switch params["class"] {
	case "kind", "action":
		if rep.Category != "" {
			return occierr.MalformedRepresentation("duplicated primary category %q", id)
		}
		rep.Category = id
	case "mixin", "":
		rep.Mixins = append(rep.Mixins, id)
	default:
		return occierr.MalformedRepresentation("category %q has unknown class %q", term, params["class"])
	}
	rep.Schemes[scheme] = append(rep.Schemes[scheme], term)
	return nil
}

// parseAttribute parses one attribute expression: name="value" for
// strings, name=42 and name=true unquoted.
func parseAttribute(rep *Representation, raw string) error {
	raw = strings.TrimSpace(raw)
	name, value, ok := strings.Cut(raw, "=")
	if !ok {
		return occierr.MalformedRepresentation("attribute %q has no key/value separator", raw)
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return occierr.MalformedRepresentation("attribute %q has an empty side", raw)
	}
	rep.setAttribute(name, decodeToken(value))
	return nil
}

// decodeToken maps an attribute token to its raw value: quoted tokens
// are strings, unquoted tokens are booleans or numbers when they parse
// as such, and raw strings otherwise. This mirrors the renderer's
// quoting rules so that render-then-parse round-trips exactly.
func decodeToken(token string) any {
	if strings.HasPrefix(token, `"`) {
		return unquote(token)
	}
	if token == "true" {
		return true
	}
	if token == "false" {
		return false
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f
	}
	return token
}

// unquote strips one level of surrounding double quotes, resolving
// backslash escapes the way the renderer produces them.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}

// splitQuoted splits s on sep, ignoring separators inside double quotes.
// Escaped quotes do not terminate a quoted section.
func splitQuoted(s string, sep byte) []string {
	var out []string
	var quoted bool
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if quoted && i+1 < len(s) {
				i++
			}
		case '"':
			quoted = !quoted
		case sep:
			if !quoted {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					out = append(out, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}
