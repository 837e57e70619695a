// Package prompts implements the prompt registry domain for Ledgercast.
// It provides versioned prompt definitions, single-active-version
// activation per key, and compilation of definitions into model-ready
// message sets with schema-checked inputs and outputs.
package prompts

import (
	"time"

	"github.com/ledgercast/ledgercast/pkg/schema"
)

// Definition is one versioned prompt record. Versions are assigned by the
// registry and never reused; rows are immutable after insert except for the
// active flag.
type Definition struct {
	PromptKey          string         `json:"promptKey"`
	Version            int            `json:"version"`
	Template           string         `json:"template"`
	InputSchema        *schema.Schema `json:"inputSchema"`
	OutputSchema       *schema.Schema `json:"outputSchema"`
	SystemInstructions *string        `json:"systemInstructions"`
	UserInstructions   *string        `json:"userInstructions"`
	Temperature        *float64       `json:"temperature"`
	MaxTokens          *int           `json:"maxTokens"`
	Active             bool           `json:"active"`
	CreatedBy          *string        `json:"createdBy"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// Details is the display-oriented view of a definition: the stored fields
// plus the placeholder names extracted from the template.
type Details struct {
	Definition
	Placeholders []string `json:"placeholders"`
}

// CreateCommand carries the data needed to create a new prompt version.
// The version number itself is computed by the registry.
type CreateCommand struct {
	Template           string         `json:"template"`
	InputSchema        *schema.Schema `json:"inputSchema"`
	OutputSchema       *schema.Schema `json:"outputSchema"`
	SystemInstructions *string        `json:"systemInstructions"`
	UserInstructions   *string        `json:"userInstructions"`
	Temperature        *float64       `json:"temperature"`
	MaxTokens          *int           `json:"maxTokens"`
	CreatedBy          *string        `json:"createdBy"`
	Activate           bool           `json:"activate"`
}

// Message roles understood by the model collaborator.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one entry in a compiled message set.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
