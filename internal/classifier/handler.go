package classifier

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/bioclassify/taric/pkg/handlers"
	"github.com/bioclassify/taric/pkg/routes"
)

// Handler provides the classification HTTP surface.
type Handler struct {
	sys     System
	logger  *slog.Logger
	maxBody int64
}

// FollowUpRequest is the body of a follow-up call.
type FollowUpRequest struct {
	Question string `json:"question"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "classifier"),
	}
}

// WithMaxBody caps request body size. Zero means no cap.
func (h *Handler) WithMaxBody(maxBody int64) *Handler {
	h.maxBody = maxBody
	return h
}

// Routes returns the route group definition for classification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/classify",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Classify},
			{Method: "POST", Pattern: "/{id}/followup", Handler: h.FollowUp},
		},
	}
}

// Classify runs the classification pipeline for a submitted product query.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var query ProductQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Classify(r.Context(), query)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FollowUp answers a question about a prior classification session.
func (h *Handler) FollowUp(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req FollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.FollowUp(r.Context(), id, req.Question)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
