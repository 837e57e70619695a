package episodes

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgercast/ledgercast/internal/articles"
	"github.com/ledgercast/ledgercast/internal/pipeline"
	"github.com/ledgercast/ledgercast/internal/prompts"
	"github.com/ledgercast/ledgercast/internal/workflow"
	"github.com/ledgercast/ledgercast/pkg/pagination"
	"github.com/ledgercast/ledgercast/pkg/query"
	"github.com/ledgercast/ledgercast/pkg/repository"
	"github.com/ledgercast/ledgercast/pkg/storage"
)

const returning = `id, title, source_url, status, script, storage_key,
		duration_seconds, failure_reason, created_at, updated_at`

type repo struct {
	db         *sql.DB
	storage    storage.System
	pipeline   pipeline.System
	logger     *slog.Logger
	pagination pagination.Config
	rt         *workflow.Runtime
}

// New creates an episode repository implementing the System interface.
// It internally constructs the workflow runtime from the provided
// dependencies.
func New(
	db *sql.DB,
	store storage.System,
	pipe pipeline.System,
	scraper articles.Scraper,
	registry prompts.System,
	model workflow.ChatModel,
	synth workflow.Synthesizer,
	settings workflow.Settings,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	rt := &workflow.Runtime{
		Prompts:  registry,
		Scraper:  scraper,
		Pipeline: pipe,
		Storage:  store,
		Model:    model,
		Synth:    synth,
		Settings: settings,
		Logger:   logger.With("workflow", "generate"),
	}

	return &repo{
		db:         db,
		storage:    store,
		pipeline:   pipe,
		logger:     logger.With("system", "episodes"),
		pagination: pagination,
		rt:         rt,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Episode], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "SourceURL")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count episodes: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	episodes, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEpisode)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}

	result := pagination.NewPageResult(episodes, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Episode, error) {
	q, args := query.NewBuilder(projection).WhereEquals("ID", id).BuildOne()

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEpisode)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Episode, error) {
	if strings.TrimSpace(cmd.SourceURL) == "" {
		return nil, ErrInvalidSourceURL
	}

	q := `
		INSERT INTO episodes(source_url, title, status)
		VALUES ($1, $2, $3)
		RETURNING ` + returning

	args := []any{cmd.SourceURL, cmd.Title, StatusPending}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Episode, error) {
		return repository.QueryOne(ctx, tx, q, args, scanEpisode)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("episode created", "id", e.ID, "sourceUrl", e.SourceURL)
	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM episodes WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if e.StorageKey != nil {
		if err := r.storage.Delete(ctx, *e.StorageKey); err != nil {
			r.logger.Warn("failed to delete episode audio blob",
				"id", id,
				"storageKey", *e.StorageKey,
				"error", err)
		}
	}

	r.logger.Info("episode deleted", "id", id)
	return nil
}

func (r *repo) Generate(ctx context.Context, id uuid.UUID) (*Episode, error) {
	e, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !e.Status.CanGenerate() {
		return nil, ErrAlreadyProcessing
	}

	if err := r.markProcessing(ctx, id); err != nil {
		return nil, err
	}

	result, err := workflow.Execute(ctx, r.rt, id, e.SourceURL)
	if err != nil {
		r.logger.Error("episode generation failed", "id", id, "error", err)

		if failErr := r.markFailed(ctx, id, err.Error()); failErr != nil {
			r.logger.Error("failed to record generation failure",
				"id", id,
				"error", failErr)
		}

		return nil, err
	}

	completed, err := r.markComplete(ctx, id, result)
	if err != nil {
		return nil, err
	}

	r.logger.Info("episode generation complete",
		"id", id,
		"storageKey", result.StorageKey,
		"durationSeconds", result.DurationSeconds)

	return completed, nil
}

func (r *repo) Audio(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	e, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.StorageKey == nil {
		return nil, ErrNoAudio
	}

	body, err := r.storage.Download(ctx, *e.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download episode audio: %w", err)
	}

	return body, nil
}

func (r *repo) AudioURI(ctx context.Context, id uuid.UUID) (*AudioURI, error) {
	e, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := r.Audio(ctx, id)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read episode audio: %w", err)
	}

	return &AudioURI{
		DataURI:         r.pipeline.EncodeBase64(data),
		DurationSeconds: e.DurationSeconds,
	}, nil
}

func (r *repo) markProcessing(ctx context.Context, id uuid.UUID) error {
	q := `
		UPDATE episodes
		SET status = $1, failure_reason = NULL, updated_at = now()
		WHERE id = $2`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, StatusProcessing, id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) markFailed(ctx context.Context, id uuid.UUID, reason string) error {
	q := `
		UPDATE episodes
		SET status = $1, failure_reason = $2, updated_at = now()
		WHERE id = $3`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, StatusFailed, reason, id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) markComplete(
	ctx context.Context,
	id uuid.UUID,
	result *workflow.GenerationResult,
) (*Episode, error) {
	script, err := marshalScript(result.Script)
	if err != nil {
		return nil, fmt.Errorf("encode script: %w", err)
	}

	q := `
		UPDATE episodes
		SET status = $1, title = COALESCE(title, $2), script = $3,
			storage_key = $4, duration_seconds = $5, failure_reason = NULL,
			updated_at = now()
		WHERE id = $6
		RETURNING ` + returning

	args := []any{
		StatusComplete,
		result.Title,
		script,
		result.StorageKey,
		result.DurationSeconds,
		id,
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Episode, error) {
		return repository.QueryOne(ctx, tx, q, args, scanEpisode)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &e, nil
}
