package parser

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/artpar/occigate/domain/occierr"
)

// JSONParser handles the structured-body form: an object mirroring the
// representation fields with JSON-compatible scalar types.
type JSONParser struct{}

// jsonBody is the wire shape of the structured-body form.
type jsonBody struct {
	Kind       string                     `json:"kind"`
	Action     string                     `json:"action"`
	Mixins     []string                   `json:"mixins"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// Parse implements Parser.
func (p *JSONParser) Parse(_ http.Header, body []byte) (*Representation, error) {
	if len(body) == 0 {
		return nil, occierr.MalformedRepresentation("empty body")
	}

	var in jsonBody
	dec := json.NewDecoder(strings.NewReader(string(body)))
	if err := dec.Decode(&in); err != nil {
		return nil, occierr.MalformedRepresentation("unparsable body: %v", err)
	}

	rep := newRepresentation()
	switch {
	case in.Kind != "" && in.Action != "":
		return nil, occierr.MalformedRepresentation("both kind and action present")
	case in.Kind != "":
		rep.Category = in.Kind
	case in.Action != "":
		rep.Category = in.Action
	default:
		return nil, occierr.MalformedRepresentation("no kind or action present")
	}

	scheme, term, err := splitTypeID(rep.Category)
	if err != nil {
		return nil, err
	}
	rep.Schemes[scheme] = append(rep.Schemes[scheme], term)

	for _, id := range in.Mixins {
		scheme, term, err := splitTypeID(id)
		if err != nil {
			return nil, err
		}
		rep.Mixins = append(rep.Mixins, id)
		rep.Schemes[scheme] = append(rep.Schemes[scheme], term)
	}

	// Attributes decode in two passes: key order from the raw object so
	// round trips preserve insertion order, values as plain scalars.
	for _, name := range jsonKeyOrder(body) {
		raw, ok := in.Attributes[name]
		if !ok {
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, occierr.MalformedRepresentation("attribute %q is unparsable: %v", name, err)
		}
		switch value.(type) {
		case string, float64, bool:
			rep.setAttribute(name, value)
		default:
			return nil, occierr.MalformedRepresentation("attribute %q is not a scalar", name)
		}
	}

	return rep, nil
}

// splitTypeID splits "scheme#term" keeping the "#" on the scheme side.
func splitTypeID(id string) (scheme, term string, err error) {
	i := strings.LastIndexByte(id, '#')
	if i < 0 || i == len(id)-1 {
		return "", "", occierr.MalformedRepresentation("category identifier %q has no scheme separator", id)
	}
	return id[:i+1], id[i+1:], nil
}

// jsonKeyOrder returns the attribute object's key order as written.
func jsonKeyOrder(body []byte) []string {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil
	}
	raw, ok := outer["attributes"]
	if !ok {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := keyTok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		valTok, err := dec.Token()
		if err != nil {
			return keys
		}
		if d, ok := valTok.(json.Delim); ok && (d == '{' || d == '[') {
			skipNested(dec)
		}
	}
	return keys
}

// skipNested consumes tokens until the already-opened container closes.
func skipNested(dec *json.Decoder) {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
}
