package prompts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ledgercast/ledgercast/pkg/pagination"
	"github.com/ledgercast/ledgercast/pkg/query"
	"github.com/ledgercast/ledgercast/pkg/repository"
	"github.com/ledgercast/ledgercast/pkg/templates"
)

const returning = `prompt_key, version, template, input_schema, output_schema,
		system_instructions, user_instructions, temperature, max_tokens,
		active, created_by, created_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a prompt registry backed by the relational store.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Get(ctx context.Context, promptKey string, version *int) (*Definition, error) {
	if promptKey == "" {
		return nil, ErrEmptyKey
	}

	qb := query.NewBuilder(projection).WhereEquals("PromptKey", promptKey)
	if version != nil {
		qb.WhereEquals("Version", *version)
	} else {
		qb.WhereEquals("Active", true)
	}

	q, args := qb.BuildOne()

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDefinition)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Details(ctx context.Context, promptKey string, version *int) (*Details, error) {
	d, err := r.Get(ctx, promptKey, version)
	if err != nil {
		return nil, err
	}

	return &Details{
		Definition:   *d,
		Placeholders: templates.Placeholders(d.Template),
	}, nil
}

func (r *repo) CreateVersion(ctx context.Context, promptKey string, cmd CreateCommand) (*Definition, error) {
	if promptKey == "" {
		return nil, ErrEmptyKey
	}

	inputSchema, err := marshalSchema(cmd.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("encode input schema: %w", err)
	}
	outputSchema, err := marshalSchema(cmd.OutputSchema)
	if err != nil {
		return nil, fmt.Errorf("encode output schema: %w", err)
	}

	q := `
		INSERT INTO prompt_definitions(
			prompt_key, version, template, input_schema, output_schema,
			system_instructions, user_instructions, temperature, max_tokens,
			active, created_by
		)
		VALUES (
			$1,
			(SELECT COALESCE(MAX(version), 0) + 1
			 FROM prompt_definitions WHERE prompt_key = $1),
			$2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING ` + returning

	args := []any{
		promptKey,
		cmd.Template,
		inputSchema,
		outputSchema,
		cmd.SystemInstructions,
		cmd.UserInstructions,
		cmd.Temperature,
		cmd.MaxTokens,
		cmd.Activate,
		cmd.CreatedBy,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Definition, error) {
		// A non-activating create must leave the current active row alone,
		// so siblings are only touched on the activate path.
		if cmd.Activate {
			if err := deactivateSiblings(ctx, tx, promptKey); err != nil {
				return Definition{}, err
			}
		}

		return repository.QueryOne(ctx, tx, q, args, scanDefinition)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt version created",
		"promptKey", d.PromptKey,
		"version", d.Version,
		"active", d.Active)

	return &d, nil
}

func (r *repo) SetActive(ctx context.Context, promptKey string, version int) (*Definition, error) {
	if promptKey == "" {
		return nil, ErrEmptyKey
	}

	q := `
		UPDATE prompt_definitions SET active = true
		WHERE prompt_key = $1 AND version = $2
		RETURNING ` + returning

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Definition, error) {
		if err := deactivateSiblings(ctx, tx, promptKey); err != nil {
			return Definition{}, err
		}

		// A missing (key, version) pair returns sql.ErrNoRows here, which
		// rolls back the deactivation above and preserves the prior state.
		return repository.QueryOne(ctx, tx, q, []any{promptKey, version}, scanDefinition)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt version activated",
		"promptKey", d.PromptKey,
		"version", d.Version)

	return &d, nil
}

func (r *repo) DeleteKey(ctx context.Context, promptKey string) error {
	if promptKey == "" {
		return ErrEmptyKey
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		result, err := tx.ExecContext(
			ctx,
			"DELETE FROM prompt_definitions WHERE prompt_key = $1",
			promptKey,
		)
		if err != nil {
			return struct{}{}, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return struct{}{}, err
		}
		if affected == 0 {
			return struct{}{}, sql.ErrNoRows
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt key deleted", "promptKey", promptKey)
	return nil
}

func (r *repo) ListActive(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Definition], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Active", true).
		WhereSearch(page.Search, "PromptKey", "Template")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompt definitions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	definitions, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDefinition)
	if err != nil {
		return nil, fmt.Errorf("query prompt definitions: %w", err)
	}

	result := pagination.NewPageResult(definitions, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) ListVersions(ctx context.Context, promptKey string) ([]Definition, error) {
	if promptKey == "" {
		return nil, ErrEmptyKey
	}

	q, args := query.
		NewBuilder(projection, query.SortField{Field: "version"}).
		WhereEquals("PromptKey", promptKey).
		Build()

	definitions, err := repository.QueryMany(ctx, r.db, q, args, scanDefinition)
	if err != nil {
		return nil, fmt.Errorf("query prompt versions: %w", err)
	}

	return definitions, nil
}

func deactivateSiblings(ctx context.Context, tx *sql.Tx, promptKey string) error {
	_, err := tx.ExecContext(
		ctx,
		"UPDATE prompt_definitions SET active = false WHERE prompt_key = $1 AND active = true",
		promptKey,
	)
	if err != nil {
		return fmt.Errorf("deactivate current: %w", err)
	}
	return nil
}
