// Package schema converts structural schema descriptions into runtime
// validators. It supports the primitive kinds string, number, integer,
// boolean, array, and object; any other kind validates permissively.
package schema

// Kind names for schema nodes.
const (
	KindString  = "string"
	KindNumber  = "number"
	KindInteger = "integer"
	KindBoolean = "boolean"
	KindArray   = "array"
	KindObject  = "object"
)

// Schema describes the expected shape of a value. The zero value (no Type)
// accepts anything.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// Validator checks a value against a schema, returning the coerced value.
type Validator struct {
	schema *Schema
}

// Validator builds a runtime validator for the schema. A nil schema or an
// unrecognized Type produces a validator that accepts any value unchanged;
// this fallback is a compatibility policy so that prompt definitions written
// against a newer schema vocabulary degrade to pass-through rather than
// rejecting every input.
func (s *Schema) Validator() *Validator {
	return &Validator{schema: s}
}
