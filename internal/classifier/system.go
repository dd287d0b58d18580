package classifier

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public classification operations.
type System interface {
	Handler() *Handler

	Classify(ctx context.Context, query ProductQuery) (*ClassificationResult, error)
	FollowUp(ctx context.Context, sessionID uuid.UUID, question string) (*FollowUpResult, error)
}
