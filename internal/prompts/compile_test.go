package prompts_test

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/ledgercast/ledgercast/internal/prompts"
	"github.com/ledgercast/ledgercast/pkg/schema"
)

func scriptDefinition() *prompts.Definition {
	system := "You are a financial podcast scriptwriter."
	user := "Write the dialogue for this article:"

	return &prompts.Definition{
		PromptKey: "script-gen",
		Version:   2,
		Template:  "Article content:\n{{ htmlContent }}",
		InputSchema: &schema.Schema{
			Type: schema.KindObject,
			Properties: map[string]*schema.Schema{
				"htmlContent": {Type: schema.KindString},
			},
			Required: []string{"htmlContent"},
		},
		OutputSchema: &schema.Schema{
			Type: schema.KindObject,
			Properties: map[string]*schema.Schema{
				"lines": {
					Type: schema.KindArray,
					Items: &schema.Schema{
						Type: schema.KindObject,
						Properties: map[string]*schema.Schema{
							"speaker": {Type: schema.KindString},
							"line":    {Type: schema.KindString},
						},
						Required: []string{"speaker", "line"},
					},
				},
			},
			Required: []string{"lines"},
		},
		SystemInstructions: &system,
		UserInstructions:   &user,
		Active:             true,
	}
}

func TestCompileRejectsInvalidPlaceholders(t *testing.T) {
	d := scriptDefinition()

	_, err := d.Compile(map[string]any{"htmlContent": 42})

	var validation *schema.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("compile error = %v, want ValidationError", err)
	}

	found := false
	for _, field := range validation.Fields {
		if strings.Contains(field.Path, "htmlContent") {
			found = true
		}
	}
	if !found {
		t.Errorf("validation fields %v do not name htmlContent", validation.Fields)
	}
}

func TestCompileRejectsMissingPlaceholders(t *testing.T) {
	d := scriptDefinition()

	if _, err := d.Compile(map[string]any{}); err == nil {
		t.Fatal("compile accepted empty placeholders for a required field")
	}
}

func TestCompileMessages(t *testing.T) {
	d := scriptDefinition()

	compiled, err := d.Compile(map[string]any{
		"htmlContent": "<p>Markets rallied</p>",
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	messages := compiled.Messages()
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}

	if messages[0].Role != prompts.RoleSystem {
		t.Errorf("messages[0].Role = %q, want system", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "You are a financial podcast scriptwriter.") {
		t.Error("system message missing system instructions")
	}
	if !strings.Contains(messages[0].Content, `"speaker"`) {
		t.Error("system message does not embed the output schema")
	}

	if messages[1].Role != prompts.RoleUser {
		t.Errorf("messages[1].Role = %q, want user", messages[1].Role)
	}
	if !strings.Contains(messages[1].Content, "Write the dialogue for this article:") {
		t.Error("user message missing user instructions")
	}
	if !strings.Contains(messages[1].Content, "<p>Markets rallied</p>") {
		t.Error("user message missing rendered placeholder content")
	}
}

func TestValidateOutputFencedEqualsBare(t *testing.T) {
	d := scriptDefinition()

	compiled, err := d.Compile(map[string]any{"htmlContent": "<p>x</p>"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	reply := `{"lines":[{"speaker":"Alex","line":"Markets rallied today."}]}`
	fenced := "Here is the script:\n```json\n" + reply + "\n```"

	fromFenced, err := compiled.ValidateOutput(fenced)
	if err != nil {
		t.Fatalf("validate fenced: %v", err)
	}

	fromBare, err := compiled.ValidateOutput(reply)
	if err != nil {
		t.Fatalf("validate bare: %v", err)
	}

	if !reflect.DeepEqual(fromFenced, fromBare) {
		t.Errorf("fenced result %v != bare result %v", fromFenced, fromBare)
	}
}

func TestValidateOutputStructuredValue(t *testing.T) {
	d := scriptDefinition()

	compiled, err := d.Compile(map[string]any{"htmlContent": "<p>x</p>"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	value := map[string]any{
		"lines": []any{
			map[string]any{"speaker": "Alex", "line": "Hello."},
			map[string]any{"speaker": "Sam", "line": "Hi."},
		},
	}

	if _, err := compiled.ValidateOutput(value); err != nil {
		t.Errorf("validate structured value: %v", err)
	}
}

func TestValidateOutputRejectsUnparseableReply(t *testing.T) {
	d := scriptDefinition()

	compiled, err := d.Compile(map[string]any{"htmlContent": "<p>x</p>"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	_, err = compiled.ValidateOutput("sorry, I cannot produce a script")

	var validation *schema.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("validate error = %v, want ValidationError", err)
	}
}

func TestValidateOutputRejectsMissingFields(t *testing.T) {
	d := scriptDefinition()

	compiled, err := d.Compile(map[string]any{"htmlContent": "<p>x</p>"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	_, err = compiled.ValidateOutput(`{"lines":[{"speaker":"Alex"}]}`)

	var validation *schema.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("validate error = %v, want ValidationError", err)
	}
	if !strings.Contains(validation.Error(), "line") {
		t.Errorf("validation error %q does not name the missing field", validation.Error())
	}
}

func TestMapHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{prompts.ErrNotFound, http.StatusNotFound},
		{prompts.ErrDuplicate, http.StatusConflict},
		{prompts.ErrEmptyKey, http.StatusBadRequest},
		{&schema.ValidationError{}, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := prompts.MapHTTPStatus(tc.err); got != tc.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
