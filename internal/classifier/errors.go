package classifier

import (
	"errors"
	"net/http"

	"github.com/bioclassify/taric/internal/reasoning"
	"github.com/bioclassify/taric/internal/sessions"
)

var (
	ErrEmptyQuery    = errors.New("product query requires a description or raw text")
	ErrEmptyQuestion = errors.New("follow-up question must not be empty")
	ErrRetrieval     = errors.New("tariff repository unavailable")
)

// MapHTTPStatus translates classification pipeline errors to HTTP status
// codes, deferring to the reasoning and session mappings for their own
// error families.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyQuery), errors.Is(err, ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, ErrRetrieval):
		return http.StatusServiceUnavailable
	case errors.Is(err, sessions.ErrNotFound):
		return sessions.MapHTTPStatus(err)
	}

	if status := reasoning.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}

	return http.StatusInternalServerError
}
