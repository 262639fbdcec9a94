package occi

import (
	"fmt"
	"strconv"
)

// AttrType is the declared type of an attribute definition.
type AttrType int

// Attribute value types.
const (
	AttrString AttrType = iota
	AttrNumber
	AttrBool
)

// String returns the wire name of the type.
func (t AttrType) String() string {
	switch t {
	case AttrNumber:
		return "number"
	case AttrBool:
		return "boolean"
	default:
		return "string"
	}
}

// Attribute is an attribute definition: a dotted namespace name
// (e.g. "occi.core.title"), a declared type, mutability, whether a value
// is required, and an optional default.
type Attribute struct {
	Name     string
	Type     AttrType
	Mutable  bool
	Required bool
	Default  any
}

// AttributeValue pairs an attribute definition with a value whose runtime
// type matches the definition.
type AttributeValue struct {
	Def   Attribute
	Value any
}

// Coerce converts a raw wire value into the definition's declared type.
// Numeric strings coerce to numbers; booleans accept only literal
// true/false forms. It returns an error when the value cannot represent
// the declared type.
func (a Attribute) Coerce(raw any) (any, error) {
	switch a.Type {
	case AttrString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("attribute %q expects a string, got %T", a.Name, raw)
		}
		return s, nil

	case AttrNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("attribute %q expects a number, got %q", a.Name, v)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("attribute %q expects a number, got %T", a.Name, raw)
		}

	case AttrBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if v == "true" {
				return true, nil
			}
			if v == "false" {
				return false, nil
			}
			return nil, fmt.Errorf("attribute %q expects true or false, got %q", a.Name, v)
		default:
			return nil, fmt.Errorf("attribute %q expects a boolean, got %T", a.Name, raw)
		}
	}
	return nil, fmt.Errorf("attribute %q has unknown type", a.Name)
}
