// Package templates renders prompt templates by interpolating named
// placeholders of the form {{name}}.
package templates

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Render substitutes every {{name}} reference in template with the
// corresponding value. It is a pure function: the same template and values
// always produce the same output. References with no matching value render
// as empty strings rather than failing; input validation is the caller's
// gate and runs before rendering.
func Render(template string, values map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]

		value, ok := values[name]
		if !ok || value == nil {
			return ""
		}

		return stringify(value)
	})
}

// Placeholders returns the distinct placeholder names referenced by template,
// in first-appearance order.
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}

	return names
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
