package prompts

import (
	"errors"
	"net/http"

	"github.com/ledgercast/ledgercast/pkg/schema"
)

// Domain errors for prompt registry operations.
var (
	ErrNotFound  = errors.New("prompt definition not found")
	ErrDuplicate = errors.New("prompt version already exists")
	ErrEmptyKey  = errors.New("prompt key cannot be empty")
)

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyKey) {
		return http.StatusBadRequest
	}

	var validation *schema.ValidationError
	if errors.As(err, &validation) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
