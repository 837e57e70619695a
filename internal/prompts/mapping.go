package prompts

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ledgercast/ledgercast/pkg/query"
	"github.com/ledgercast/ledgercast/pkg/repository"
	"github.com/ledgercast/ledgercast/pkg/schema"
)

var projection = query.
	NewProjectionMap("public", "prompt_definitions", "pd").
	Project("prompt_key", "PromptKey").
	Project("version", "Version").
	Project("template", "Template").
	Project("input_schema", "InputSchema").
	Project("output_schema", "OutputSchema").
	Project("system_instructions", "SystemInstructions").
	Project("user_instructions", "UserInstructions").
	Project("temperature", "Temperature").
	Project("max_tokens", "MaxTokens").
	Project("active", "Active").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "prompt_key",
}

// Filters contains optional filtering criteria for registry queries.
// Nil fields are ignored. PromptKey uses case-insensitive contains
// matching; CreatedBy uses exact matching.
type Filters struct {
	PromptKey *string `json:"promptKey,omitempty"`
	CreatedBy *string `json:"createdBy,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("PromptKey", f.PromptKey).
		WhereEquals("CreatedBy", f.CreatedBy)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if k := values.Get("prompt_key"); k != "" {
		f.PromptKey = &k
	}

	if c := values.Get("created_by"); c != "" {
		f.CreatedBy = &c
	}

	return f
}

func scanDefinition(s repository.Scanner) (Definition, error) {
	var (
		d           Definition
		inputBytes  []byte
		outputBytes []byte
	)

	err := s.Scan(
		&d.PromptKey,
		&d.Version,
		&d.Template,
		&inputBytes,
		&outputBytes,
		&d.SystemInstructions,
		&d.UserInstructions,
		&d.Temperature,
		&d.MaxTokens,
		&d.Active,
		&d.CreatedBy,
		&d.CreatedAt,
	)
	if err != nil {
		return Definition{}, err
	}

	if d.InputSchema, err = unmarshalSchema(inputBytes); err != nil {
		return Definition{}, fmt.Errorf("decode input schema: %w", err)
	}
	if d.OutputSchema, err = unmarshalSchema(outputBytes); err != nil {
		return Definition{}, fmt.Errorf("decode output schema: %w", err)
	}

	return d, nil
}

func unmarshalSchema(data []byte) (*schema.Schema, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var s schema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func marshalSchema(s *schema.Schema) (any, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}
