// Package reasoning wraps the Gemini API behind a narrow completion
// interface so the classification workflow never touches provider types.
package reasoning

import "context"

// System produces a completion for a system prompt and user prompt pair.
// Implementations enforce their own timeout and rate limits; callers pass
// a context for cancellation only.
type System interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
