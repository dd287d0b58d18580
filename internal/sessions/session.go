// Package sessions implements the classification session domain.
// A session is created once per classification and owns the immutable
// result plus the ordered follow-up conversation. Sessions only grow;
// retention and expiry are external concerns.
package sessions

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Conversation turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single entry in a session's conversation log.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session represents a persisted classification and its conversation.
// Query and Result hold the original request and the assembled
// classification result as submitted and produced; the flattened columns
// (ProductDescription, ClassifiedCode, Confidence, DatabaseValidated)
// support filtering and follow-up context without decoding the blobs.
type Session struct {
	ID                 uuid.UUID       `json:"id"`
	ProductDescription string          `json:"product_description"`
	ClassifiedCode     string          `json:"classified_code"`
	Confidence         float64         `json:"confidence"`
	DatabaseValidated  bool            `json:"database_validated"`
	Query              json.RawMessage `json:"query"`
	Result             json.RawMessage `json:"result"`
	History            []Turn          `json:"history"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// CreateCommand carries the data needed to persist a new session.
type CreateCommand struct {
	ProductDescription string          `json:"product_description"`
	ClassifiedCode     string          `json:"classified_code"`
	Confidence         float64         `json:"confidence"`
	DatabaseValidated  bool            `json:"database_validated"`
	Query              json.RawMessage `json:"query"`
	Result             json.RawMessage `json:"result"`
}
