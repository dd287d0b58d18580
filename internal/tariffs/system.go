package tariffs

import (
	"context"

	"github.com/bioclassify/taric/pkg/pagination"
)

// System defines the public contract for tariff repository operations.
// All operations are read-only; the code store is maintained by migrations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[TariffCode], error)

	Find(ctx context.Context, code string) (*TariffCode, error)
	FindByChapter(ctx context.Context, chapter string, limit int) ([]TariffCode, error)
	FindByPrefix(ctx context.Context, prefix string, limit int) ([]TariffCode, error)
	SearchByDescription(ctx context.Context, term string, limit int) ([]TariffCode, error)
	ChapterNotes(ctx context.Context, chapter string) (*ChapterNote, error)
}
