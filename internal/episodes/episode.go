// Package episodes implements the podcast episode domain for Ledgercast.
// It provides types, data access, and HTTP handlers for episode records,
// and drives the generation workflow that turns a source article into a
// stored audio asset.
package episodes

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgercast/ledgercast/internal/workflow"
)

// Status is the lifecycle state of an episode's audio.
type Status string

// Episode lifecycle states.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

// Statuses returns all valid episode statuses.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusComplete, StatusFailed}
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	for _, status := range Statuses() {
		if raw == string(status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidStatus, raw)
}

// CanGenerate reports whether a generation run may start from this status.
// Only an in-flight run blocks; completed and failed episodes may be
// regenerated.
func (s Status) CanGenerate() bool {
	return s != StatusProcessing
}

// Episode represents one podcast episode and its generation state.
type Episode struct {
	ID              uuid.UUID               `json:"id"`
	Title           *string                 `json:"title"`
	SourceURL       string                  `json:"sourceUrl"`
	Status          Status                  `json:"status"`
	Script          []workflow.DialogueLine `json:"script"`
	StorageKey      *string                 `json:"storageKey"`
	DurationSeconds *float64                `json:"durationSeconds"`
	FailureReason   *string                 `json:"failureReason"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// CreateCommand carries the data needed to register a new episode.
type CreateCommand struct {
	SourceURL string  `json:"sourceUrl"`
	Title     *string `json:"title"`
}

// AudioURI is the transportable form of an episode's audio.
type AudioURI struct {
	DataURI         string   `json:"dataUri"`
	DurationSeconds *float64 `json:"durationSeconds"`
}
