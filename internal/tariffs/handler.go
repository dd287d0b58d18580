package tariffs

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bioclassify/taric/pkg/handlers"
	"github.com/bioclassify/taric/pkg/pagination"
	"github.com/bioclassify/taric/pkg/routes"
)

const defaultChapterLimit = 50

// Handler provides HTTP endpoints for browsing the tariff code repository.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "tariffs"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for tariff repository endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/tariffs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/chapter/{chapter}", Handler: h.FindByChapter},
			{Method: "GET", Pattern: "/chapter/{chapter}/notes", Handler: h.ChapterNotes},
			{Method: "GET", Pattern: "/heading/{code}", Handler: h.FindByHeading},
			{Method: "GET", Pattern: "/{code}", Handler: h.Find},
		},
	}
}

// List returns a paginated list of tariff codes with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search returns a paginated list of tariff codes using JSON body criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single tariff code. The path parameter is normalized, so
// bare 10-digit codes are accepted; anything that does not normalize to
// canonical 4-2-2-2 form is rejected before the lookup.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	code := NormalizeCode(r.PathValue("code"))
	if !IsCanonical(code) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCode)
		return
	}

	t, err := h.sys.Find(r.Context(), code)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

// FindByHeading returns the codes sharing the given code's 4-digit heading.
func (h *Handler) FindByHeading(w http.ResponseWriter, r *http.Request) {
	heading := HeadingOf(r.PathValue("code"))
	if heading == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCode)
		return
	}

	codes, err := h.sys.FindByPrefix(r.Context(), heading, defaultChapterLimit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, codes)
}

// FindByChapter returns the codes belonging to a chapter, capped by the
// optional limit query parameter. The path parameter may be a chapter
// number or any code within it.
func (h *Handler) FindByChapter(w http.ResponseWriter, r *http.Request) {
	chapter := ChapterOf(r.PathValue("chapter"))

	limit := defaultChapterLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	codes, err := h.sys.FindByChapter(r.Context(), chapter, limit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, codes)
}

// ChapterNotes returns the legal notes for a chapter. Like FindByChapter,
// the path parameter may be a chapter number or any code within it.
func (h *Handler) ChapterNotes(w http.ResponseWriter, r *http.Request) {
	chapter := ChapterOf(r.PathValue("chapter"))

	notes, err := h.sys.ChapterNotes(r.Context(), chapter)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, notes)
}
