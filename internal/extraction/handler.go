package extraction

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bioclassify/taric/pkg/handlers"
	"github.com/bioclassify/taric/pkg/routes"
)

// Handler exposes document text tagging over HTTP.
type Handler struct {
	extractor *Extractor
	logger    *slog.Logger
	maxBody   int64
}

// ExtractRequest is the body of an extract call.
type ExtractRequest struct {
	Text string `json:"text"`
}

// NewHandler creates a Handler with the given extractor and logger.
func NewHandler(extractor *Extractor, logger *slog.Logger) *Handler {
	return &Handler{
		extractor: extractor,
		logger:    logger.With("handler", "extraction"),
	}
}

// WithMaxBody caps request body size. Zero means no cap.
func (h *Handler) WithMaxBody(maxBody int64) *Handler {
	h.maxBody = maxBody
	return h
}

// Routes returns the route group definition for extraction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/extract",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Extract},
		},
	}
}

// Extract tags submitted document text into structured product attributes.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if req.Text == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyText)
		return
	}

	query := h.extractor.Extract(req.Text)
	handlers.RespondJSON(w, http.StatusOK, query)
}
