package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dmslite/internal/storage"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeSearcher serves fixed results.
type fakeSearcher struct {
	results []storage.SearchResult
	err     error
	gotQ    string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]storage.SearchResult, error) {
	f.gotQ = query
	return f.results, f.err
}

func TestSearchHandler(t *testing.T) {
	uploadDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		method     string
		target     string
		searcher   *fakeSearcher
		wantStatus int
		wantCount  int
	}{
		{
			name:   "results returned",
			method: http.MethodGet,
			target: "/api/search?q=invoice",
			searcher: &fakeSearcher{results: []storage.SearchResult{
				{ID: 1, Title: "Invoice", UploadDate: uploadDate, Rank: 0.1},
				{ID: 2, Title: "Receipt", UploadDate: uploadDate, Rank: 0.4},
			}},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "no matches",
			method:     http.MethodGet,
			target:     "/api/search?q=nothing",
			searcher:   &fakeSearcher{},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "missing query parameter",
			method:     http.MethodGet,
			target:     "/api/search",
			searcher:   &fakeSearcher{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "search failure",
			method:     http.MethodGet,
			target:     "/api/search?q=x",
			searcher:   &fakeSearcher{err: errors.New("store gone")},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "wrong method",
			method:     http.MethodPost,
			target:     "/api/search?q=x",
			searcher:   &fakeSearcher{},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSearchHandler(tt.searcher)
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp SearchResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Count != tt.wantCount || len(resp.Results) != tt.wantCount {
				t.Errorf("count = %d (results %d), want %d", resp.Count, len(resp.Results), tt.wantCount)
			}
		})
	}
}

func TestSearchHandler_PassesQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	handler := NewSearchHandler(searcher)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=power+bill", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if searcher.gotQ != "power bill" {
		t.Errorf("searcher received query %q, want %q", searcher.gotQ, "power bill")
	}
}
