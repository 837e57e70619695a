package episodes

import (
	"errors"
	"net/http"
)

// Domain errors for episode operations.
var (
	ErrNotFound          = errors.New("episode not found")
	ErrDuplicate         = errors.New("episode already exists")
	ErrInvalidStatus     = errors.New("invalid episode status")
	ErrInvalidSourceURL  = errors.New("episode source url required")
	ErrAlreadyProcessing = errors.New("episode generation already in progress")
	ErrNoAudio           = errors.New("episode has no generated audio")
)

// MapHTTPStatus maps episode domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoAudio) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrAlreadyProcessing) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrInvalidSourceURL) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
