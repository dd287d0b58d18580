package tariffs

import (
	"errors"
	"net/http"
)

// Domain errors for tariff repository operations.
var (
	ErrNotFound        = errors.New("tariff code not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrDuplicate       = errors.New("tariff code already exists")
	ErrInvalidCode     = errors.New("code is not in canonical 4-2-2-2 form")
)

// MapHTTPStatus maps tariff domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidCode) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrChapterNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
