package prompts

import (
	"context"

	"github.com/ledgercast/ledgercast/pkg/pagination"
)

// System defines the public contract for prompt registry operations.
//
// Get and Details resolve the active version when version is nil. A key
// whose versions are all inactive resolves to ErrNotFound, the same as a
// key that does not exist.
type System interface {
	Handler() *Handler

	Get(ctx context.Context, promptKey string, version *int) (*Definition, error)
	Details(ctx context.Context, promptKey string, version *int) (*Details, error)
	CreateVersion(ctx context.Context, promptKey string, cmd CreateCommand) (*Definition, error)
	SetActive(ctx context.Context, promptKey string, version int) (*Definition, error)
	DeleteKey(ctx context.Context, promptKey string) error

	ListActive(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Definition], error)

	ListVersions(ctx context.Context, promptKey string) ([]Definition, error)
}
