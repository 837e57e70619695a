package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ledgercast/ledgercast/pkg/formatting"
	"github.com/ledgercast/ledgercast/pkg/templates"
)

// Compiled is a definition bound to a validated placeholder map, ready to
// produce a message set and to check the model's reply against the output
// schema.
type Compiled struct {
	definition *Definition
	rendered   string
}

// Compile validates placeholders against the input schema and renders the
// template. A validation failure aborts before rendering, so a rejected
// placeholder map has no observable effect.
func (d *Definition) Compile(placeholders map[string]any) (*Compiled, error) {
	validated, err := d.InputSchema.Validator().Validate(placeholders)
	if err != nil {
		return nil, err
	}

	values := placeholders
	if m, ok := validated.(map[string]any); ok {
		values = m
	}

	return &Compiled{
		definition: d,
		rendered:   templates.Render(d.Template, values),
	}, nil
}

// Messages assembles the model-ready message set. The output schema is
// embedded in the system message so the model carries the response contract
// in-band.
func (c *Compiled) Messages() []Message {
	var system strings.Builder
	if c.definition.SystemInstructions != nil {
		system.WriteString(*c.definition.SystemInstructions)
	}

	if c.definition.OutputSchema != nil {
		if encoded, err := json.MarshalIndent(c.definition.OutputSchema, "", "  "); err == nil {
			if system.Len() > 0 {
				system.WriteString("\n\n")
			}
			fmt.Fprintf(&system,
				"Respond with a single JSON value conforming to this schema:\n%s",
				encoded)
		}
	}

	var user strings.Builder
	if c.definition.UserInstructions != nil {
		user.WriteString(*c.definition.UserInstructions)
		user.WriteString("\n\n")
	}
	user.WriteString(c.rendered)

	return []Message{
		{Role: RoleSystem, Content: system.String()},
		{Role: RoleUser, Content: user.String()},
	}
}

// ValidateOutput checks a model reply against the output schema. A string
// reply is first decoded leniently, preferring a fenced json block; a reply
// that is not parseable JSON is passed through as-is so the schema check
// reports a type mismatch rather than a syntax error.
func (c *Compiled) ValidateOutput(raw any) (any, error) {
	value := raw
	if s, ok := raw.(string); ok {
		value = formatting.DecodeLenient(s)
	}

	return c.definition.OutputSchema.Validator().Validate(value)
}

// Definition exposes the compiled definition for callers that need the
// generation parameters alongside the messages.
func (c *Compiled) Definition() *Definition {
	return c.definition
}
