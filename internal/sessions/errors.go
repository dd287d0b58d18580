package sessions

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrDuplicate    = errors.New("session already exists")
	ErrEmptyHistory = errors.New("no turns to append")
)

// MapHTTPStatus translates session errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyHistory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
