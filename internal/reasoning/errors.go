package reasoning

import (
	"errors"
	"net/http"
)

var (
	ErrNotConfigured = errors.New("reasoning engine not configured: set TARIC_ENGINE_API_KEY")
	ErrRateLimited   = errors.New("reasoning engine rate limit exceeded")
	ErrUnavailable   = errors.New("reasoning engine unavailable")
	ErrTimeout       = errors.New("reasoning engine request timed out")
	ErrEmptyResponse = errors.New("reasoning engine returned an empty response")
)

// MapHTTPStatus translates reasoning engine errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
