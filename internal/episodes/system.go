package episodes

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/ledgercast/ledgercast/pkg/pagination"
)

// System defines the public contract for episode domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Episode], error)

	Find(ctx context.Context, id uuid.UUID) (*Episode, error)
	Create(ctx context.Context, cmd CreateCommand) (*Episode, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Generate runs the full generation workflow for an episode and
	// returns it in its final state. The episode is marked processing for
	// the duration of the run and lands in complete or failed.
	Generate(ctx context.Context, id uuid.UUID) (*Episode, error)

	// Audio streams the stored episode track; the caller closes it.
	Audio(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)

	// AudioURI returns the stored track as an inline data URI.
	AudioURI(ctx context.Context, id uuid.UUID) (*AudioURI, error)
}
