package sessions

import (
	"context"

	"github.com/bioclassify/taric/pkg/pagination"
	"github.com/google/uuid"
)

// System defines classification session operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Session], error)
	Find(ctx context.Context, id uuid.UUID) (*Session, error)
	Create(ctx context.Context, cmd CreateCommand) (*Session, error)
	AppendTurns(ctx context.Context, id uuid.UUID, turns ...Turn) (*Session, error)
}
