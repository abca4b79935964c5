package http

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
	"github.com/JoshMith/Techwave-Backend/internal/service"
	"github.com/JoshMith/Techwave-Backend/pkg/httputil"
)

// SearchHandler handles the search and autocomplete endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// Search handles GET /api/v1/search
//
// Query parameters: q, category, minPrice, maxPrice, brand, sort, page,
// limit. Malformed values never produce a 400; they are normalized to the
// nearest valid default.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	criteria := domain.ParseSearchCriteria(r.URL.Query())

	result, err := h.service.Search(r.Context(), criteria)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// emptySuggestions is the short-circuit body returned for fragments below the
// minimum length.
type emptySuggestions struct {
	Suggestions []any `json:"suggestions"`
}

// Suggestions handles GET /api/v1/search/suggestions
//
// Fragments shorter than two characters return { "suggestions": [] } without
// a store round trip.
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	fragment := strings.TrimSpace(r.URL.Query().Get("q"))

	if utf8.RuneCountInString(fragment) < service.MinSuggestLength {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: emptySuggestions{Suggestions: []any{}}})
		return
	}

	suggestions, err := h.service.Suggest(r.Context(), fragment)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suggestions})
}
