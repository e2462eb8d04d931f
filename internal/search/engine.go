package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"dmslite/internal/storage"
)

// DefaultThreshold is the maximum tolerated dissimilarity distance for a
// field to count as a match.
const DefaultThreshold = 0.6

// ContentLister provides the searchable text fields of all stored documents.
// Implemented by storage.DocumentRepo.
type ContentLister interface {
	ListContents(ctx context.Context) ([]storage.ContentRow, error)
}

// DistanceFunc computes the dissimilarity distance between a query and a text
// field. Smaller is better; 0 means an exact or contained match.
type DistanceFunc func(query, text string) float64

// Engine ranks stored documents against a query by approximate string
// distance over the content, summary and buzzword fields.
type Engine struct {
	store     ContentLister
	distance  DistanceFunc
	threshold float64
	logger    *slog.Logger
}

// NewEngine creates an Engine with trigram distance and the default threshold.
func NewEngine(store ContentLister) *Engine {
	return NewEngineWith(store, TrigramDistance, DefaultThreshold)
}

// NewEngineWith creates an Engine with a custom distance function and
// threshold. Used by tests to pin distances.
func NewEngineWith(store ContentLister, distance DistanceFunc, threshold float64) *Engine {
	return &Engine{
		store:     store,
		distance:  distance,
		threshold: threshold,
		logger:    slog.Default(),
	}
}

// Search ranks all stored documents against the query. Each of the three text
// fields is matched independently; a field qualifies when its distance is
// strictly below the threshold or exactly zero. A document matching through
// several fields appears once, ranked by the smallest matching distance.
// Results are ordered ascending by rank.
func (e *Engine) Search(ctx context.Context, query string) ([]storage.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []storage.SearchResult{}, nil
	}

	rows, err := e.store.ListContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document contents: %w", err)
	}

	var results []storage.SearchResult
	for _, row := range rows {
		fields := []string{row.Content, row.Summary, row.Buzzwords}

		matched := false
		best := 0.0
		for _, field := range fields {
			d := e.distance(query, field)
			if d != 0 && d >= e.threshold {
				continue
			}
			if !matched || d < best {
				best = d
			}
			matched = true
		}

		if matched {
			results = append(results, storage.SearchResult{
				ID:         row.ID,
				Title:      row.Title,
				UploadDate: row.UploadDate,
				Rank:       best,
			})
		}
	}

	// Closest match first; ties resolved by id for a stable order.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Rank != results[j].Rank {
			return results[i].Rank < results[j].Rank
		}
		return results[i].ID < results[j].ID
	})

	e.logger.DebugContext(ctx, "search completed", "query", query, "results", len(results))
	return results, nil
}
