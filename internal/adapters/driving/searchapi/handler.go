package searchapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Handler serves the search API.
type Handler struct {
	search driving.SearchService
	mux    *http.ServeMux
}

// NewHandler creates the search API handler.
func NewHandler(search driving.SearchService) *Handler {
	h := &Handler{
		search: search,
		mux:    http.NewServeMux(),
	}
	h.mux.HandleFunc("/search", h.handleSearch)
	h.mux.HandleFunc("/health", h.handleHealth)
	h.mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.mux.ServeHTTP(w, r)
	logger.Debug("search-api %s %s (%s)", r.Method, r.URL.RequestURI(), time.Since(start).Round(time.Microsecond))
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string  `json:"status"`
	Documents   int     `json:"documents"`
	LastIndexed *string `json:"lastIndexed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	query := ParseQuery(r)
	page, err := h.search.Search(r.Context(), query)
	if err != nil {
		logger.Error("search %q failed: %v", query.Query, err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	writeJSON(w, http.StatusOK, NewHealthResponse(h.search.Health()))
}

// NewHealthResponse renders an index health snapshot. LastIndexed is null
// until the first successful build.
func NewHealthResponse(health domain.IndexHealth) HealthResponse {
	resp := HealthResponse{
		Status:    health.Status,
		Documents: health.DocumentCount,
	}
	if !health.LastIndexed.IsZero() {
		ts := health.LastIndexed.UTC().Format(time.RFC3339)
		resp.LastIndexed = &ts
	}
	return resp
}

// ParseQuery reads q, page, pageSize and type from the URL.
// Missing or malformed numbers fall back to the defaults.
func ParseQuery(r *http.Request) domain.SearchQuery {
	values := r.URL.Query()
	return domain.SearchQuery{
		Query:    values.Get("q"),
		Page:     atoiOrZero(values.Get("page")),
		PageSize: atoiOrZero(values.Get("pageSize")),
		Type:     domain.DocumentType(strings.TrimSpace(values.Get("type"))),
	}.Normalised()
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response: %v", err)
	}
}
