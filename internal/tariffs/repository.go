package tariffs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bioclassify/taric/pkg/pagination"
	"github.com/bioclassify/taric/pkg/query"
	"github.com/bioclassify/taric/pkg/repository"
)

var chapterProjection = query.
	NewProjectionMap("public", "taric_chapters", "c").
	Project("chapter", "Chapter").
	Project("title", "Title").
	Project("notes", "Notes")

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a tariff repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "tariffs"),
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
) (*pagination.PageResult[TariffCode], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Code", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tariff codes: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	codes, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTariffCode)
	if err != nil {
		return nil, fmt.Errorf("query tariff codes: %w", err)
	}

	result := pagination.NewPageResult(codes, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, code string) (*TariffCode, error) {
	normalized := NormalizeCode(code)
	q, args := query.NewBuilder(projection).BuildSingle("Code", normalized)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTariffCode)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) FindByChapter(ctx context.Context, chapter string, limit int) ([]TariffCode, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Chapter", chapter).
		BuildPage(1, limit)

	codes, err := repository.QueryMany(ctx, r.db, q, args, scanTariffCode)
	if err != nil {
		return nil, fmt.Errorf("query chapter %s codes: %w", chapter, err)
	}
	return codes, nil
}

func (r *repo) FindByPrefix(ctx context.Context, prefix string, limit int) ([]TariffCode, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereStartsWith("Code", &prefix).
		BuildPage(1, limit)

	codes, err := repository.QueryMany(ctx, r.db, q, args, scanTariffCode)
	if err != nil {
		return nil, fmt.Errorf("query codes by prefix %s: %w", prefix, err)
	}
	return codes, nil
}

func (r *repo) SearchByDescription(ctx context.Context, term string, limit int) ([]TariffCode, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereContains("Description", &term).
		BuildPage(1, limit)

	codes, err := repository.QueryMany(ctx, r.db, q, args, scanTariffCode)
	if err != nil {
		return nil, fmt.Errorf("search descriptions for %q: %w", term, err)
	}
	return codes, nil
}

func (r *repo) ChapterNotes(ctx context.Context, chapter string) (*ChapterNote, error) {
	q, args := query.NewBuilder(chapterProjection).BuildSingle("Chapter", chapter)

	n, err := repository.QueryOne(ctx, r.db, q, args, scanChapterNote)
	if err != nil {
		return nil, repository.MapError(err, ErrChapterNotFound, ErrDuplicate)
	}
	return &n, nil
}
