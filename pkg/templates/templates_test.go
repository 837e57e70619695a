package templates_test

import (
	"testing"

	"github.com/ledgercast/ledgercast/pkg/templates"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]any
		want     string
	}{
		{
			"single placeholder",
			"Summarize: {{htmlContent}}",
			map[string]any{"htmlContent": "<p>Markets rallied</p>"},
			"Summarize: <p>Markets rallied</p>",
		},
		{
			"repeated placeholder",
			"{{ticker}} closed up. Watch {{ticker}} tomorrow.",
			map[string]any{"ticker": "ACME"},
			"ACME closed up. Watch ACME tomorrow.",
		},
		{
			"whitespace inside braces",
			"Hello {{ name }}",
			map[string]any{"name": "Dana"},
			"Hello Dana",
		},
		{
			"undefined placeholder renders empty",
			"before {{missing}} after",
			map[string]any{},
			"before  after",
		},
		{
			"nil value renders empty",
			"x={{v}}",
			map[string]any{"v": nil},
			"x=",
		},
		{
			"non-string values",
			"count={{n}} flag={{b}}",
			map[string]any{"n": 3, "b": true},
			"count=3 flag=true",
		},
		{
			"no placeholders",
			"plain text",
			map[string]any{"unused": "x"},
			"plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := templates.Render(tt.template, tt.values)
			if got != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	template := "{{a}} and {{b}}"
	values := map[string]any{"a": "first", "b": "second"}

	first := templates.Render(template, values)
	second := templates.Render(template, values)

	if first != second {
		t.Errorf("Render not deterministic: %q != %q", first, second)
	}
}

func TestPlaceholders(t *testing.T) {
	got := templates.Placeholders("{{a}} {{b}} {{a}} {{ c }}")
	want := []string{"a", "b", "c"}

	if len(got) != len(want) {
		t.Fatalf("Placeholders = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Placeholders[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
