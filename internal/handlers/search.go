package handlers

import (
	"context"
	"net/http"

	"dmslite/internal/contextutil"
	"dmslite/internal/storage"
)

// Searcher ranks stored documents against a query string.
type Searcher interface {
	Search(ctx context.Context, query string) ([]storage.SearchResult, error)
}

// SearchHandler handles HTTP requests for fuzzy document search.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchResponse is the JSON body for a search request.
type SearchResponse struct {
	Results []storage.SearchResult `json:"results"`
	Count   int                    `json:"count"`
}

// ServeHTTP ranks all documents against the q query parameter.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(ctx, w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	results, err := h.searcher.Search(ctx, query)
	if err != nil {
		logger.ErrorContext(ctx, "search failed", "query", query, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []storage.SearchResult{}
	}

	writeJSON(ctx, w, http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
	})
}
