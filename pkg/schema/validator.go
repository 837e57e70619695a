package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// FieldError locates a single validation failure within a value.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports every field that failed validation.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Path, f.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks value against the validator's schema. On success it returns
// the coerced value (json.Number inputs become float64 or int64, objects and
// arrays are rebuilt with coerced members). On failure it returns a
// *ValidationError listing every offending path.
func (v *Validator) Validate(value any) (any, error) {
	var errs []FieldError
	result := validate(v.schema, value, "$", &errs)

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	return result, nil
}

func validate(s *Schema, value any, path string, errs *[]FieldError) any {
	if s == nil {
		return value
	}

	switch s.Type {
	case KindString:
		return validateString(value, path, errs)
	case KindNumber:
		return validateNumber(value, path, errs)
	case KindInteger:
		return validateInteger(value, path, errs)
	case KindBoolean:
		return validateBoolean(value, path, errs)
	case KindArray:
		return validateArray(s, value, path, errs)
	case KindObject:
		return validateObject(s, value, path, errs)
	default:
		// Unknown kinds pass through untouched; see (*Schema).Validator.
		return value
	}
}

func validateString(value any, path string, errs *[]FieldError) any {
	str, ok := value.(string)
	if !ok {
		fail(errs, path, "expected string, got %s", typeName(value))
		return nil
	}
	return str
}

func validateNumber(value any, path string, errs *[]FieldError) any {
	num, ok := asFloat(value)
	if !ok {
		fail(errs, path, "expected number, got %s", typeName(value))
		return nil
	}
	return num
}

func validateInteger(value any, path string, errs *[]FieldError) any {
	num, ok := asFloat(value)
	if !ok || num != math.Trunc(num) {
		fail(errs, path, "expected integer, got %s", typeName(value))
		return nil
	}
	return int64(num)
}

func validateBoolean(value any, path string, errs *[]FieldError) any {
	b, ok := value.(bool)
	if !ok {
		fail(errs, path, "expected boolean, got %s", typeName(value))
		return nil
	}
	return b
}

func validateArray(s *Schema, value any, path string, errs *[]FieldError) any {
	items, ok := value.([]any)
	if !ok {
		fail(errs, path, "expected array, got %s", typeName(value))
		return nil
	}

	result := make([]any, len(items))
	for i, item := range items {
		result[i] = validate(s.Items, item, fmt.Sprintf("%s[%d]", path, i), errs)
	}

	return result
}

func validateObject(s *Schema, value any, path string, errs *[]FieldError) any {
	obj, ok := value.(map[string]any)
	if !ok {
		fail(errs, path, "expected object, got %s", typeName(value))
		return nil
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	result := make(map[string]any, len(obj))
	for name, prop := range s.Properties {
		field, present := obj[name]
		fieldPath := path + "." + name

		if !present {
			if required[name] {
				fail(errs, fieldPath, "required field missing")
			}
			continue
		}

		result[name] = validate(prop, field, fieldPath, errs)
	}

	// Properties not declared in the schema pass through untouched.
	for name, field := range obj {
		if _, declared := s.Properties[name]; !declared {
			result[name] = field
		}
	}

	return result
}

func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func fail(errs *[]FieldError, path, format string, args ...any) {
	*errs = append(*errs, FieldError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}
