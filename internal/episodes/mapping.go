package episodes

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ledgercast/ledgercast/internal/workflow"
	"github.com/ledgercast/ledgercast/pkg/query"
	"github.com/ledgercast/ledgercast/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "episodes", "e").
	Project("id", "ID").
	Project("title", "Title").
	Project("source_url", "SourceURL").
	Project("status", "Status").
	Project("script", "Script").
	Project("storage_key", "StorageKey").
	Project("duration_seconds", "DurationSeconds").
	Project("failure_reason", "FailureReason").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

// Filters contains optional filtering criteria for episode queries.
// Nil fields are ignored. Status uses exact matching; SourceURL uses
// case-insensitive contains matching.
type Filters struct {
	Status    *Status `json:"status,omitempty"`
	SourceURL *string `json:"sourceUrl,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("SourceURL", f.SourceURL)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			f.Status = &status
		}
	}

	if u := values.Get("source_url"); u != "" {
		f.SourceURL = &u
	}

	return f
}

func scanEpisode(s repository.Scanner) (Episode, error) {
	var (
		e      Episode
		script []byte
	)

	err := s.Scan(
		&e.ID,
		&e.Title,
		&e.SourceURL,
		&e.Status,
		&script,
		&e.StorageKey,
		&e.DurationSeconds,
		&e.FailureReason,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return Episode{}, err
	}

	if len(script) > 0 {
		if err := json.Unmarshal(script, &e.Script); err != nil {
			return Episode{}, fmt.Errorf("decode script: %w", err)
		}
	}

	return e, nil
}

func marshalScript(script []workflow.DialogueLine) (any, error) {
	if script == nil {
		return nil, nil
	}
	return json.Marshal(script)
}
