package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bioclassify/taric/pkg/pagination"
	"github.com/bioclassify/taric/pkg/query"
	"github.com/bioclassify/taric/pkg/repository"
	"github.com/google/uuid"
)

const sessionColumns = `id, product_description, classified_code, confidence,
	database_validated, query, result, history, created_at, updated_at`

const insertSession = `
	INSERT INTO public.classification_sessions
		(product_description, classified_code, confidence, database_validated, query, result)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + sessionColumns

// appendHistory concatenates onto the jsonb history column in a single
// statement so concurrent appends to different sessions never interleave
// and an append never observes a stale history value.
const appendHistory = `
	UPDATE public.classification_sessions
	SET history = history || $2::jsonb, updated_at = NOW()
	WHERE id = $1
	RETURNING ` + sessionColumns

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a session repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Session], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ProductDescription", "ClassifiedCode")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSession)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id.String())

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Session, error) {
	queryBlob := cmd.Query
	if len(queryBlob) == 0 {
		queryBlob = json.RawMessage("{}")
	}

	resultBlob := cmd.Result
	if len(resultBlob) == 0 {
		resultBlob = json.RawMessage("{}")
	}

	args := []any{
		cmd.ProductDescription,
		cmd.ClassifiedCode,
		cmd.Confidence,
		cmd.DatabaseValidated,
		[]byte(queryBlob),
		[]byte(resultBlob),
	}

	s, err := repository.QueryOne(ctx, r.db, insertSession, args, scanSession)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}

	r.logger.Info("session created",
		"session", s.ID,
		"code", s.ClassifiedCode,
	)

	return &s, nil
}

func (r *repo) AppendTurns(ctx context.Context, id uuid.UUID, turns ...Turn) (*Session, error) {
	if len(turns) == 0 {
		return nil, ErrEmptyHistory
	}

	blob, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("encode turns: %w", err)
	}

	args := []any{id.String(), blob}
	s, err := repository.QueryOne(ctx, r.db, appendHistory, args, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &s, nil
}
