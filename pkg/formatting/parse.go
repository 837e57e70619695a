// Package formatting provides parsing helpers for free-form model output.
package formatting

import (
	"encoding/json"
	"regexp"
	"strings"
)

var jsonFencePattern = regexp.MustCompile(`(?s)` + "```" + `json\s*\n?(.*?)\n?` + "```")

// DecodeLenient extracts structured data from a model reply. It prefers the
// first ```json fenced block; absent a fence it parses the whole string.
// When neither parses, the raw string is returned unchanged so that a
// downstream schema validator reports a type mismatch instead of this
// function inventing a syntax error.
func DecodeLenient(content string) any {
	candidate := strings.TrimSpace(content)

	if match := jsonFencePattern.FindStringSubmatch(content); len(match) >= 2 {
		candidate = strings.TrimSpace(match[1])
	}

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return content
	}

	return value
}

// Remarshal converts a loosely typed value (maps and slices from JSON
// decoding) into T via a JSON round-trip.
func Remarshal[T any](value any) (T, error) {
	var result T

	data, err := json.Marshal(value)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}

	return result, nil
}
