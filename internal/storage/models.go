package storage

import "time"

// Document represents a row of main_table: the archived file plus the
// metadata a listing needs.
type Document struct {
	ID         int64
	UploadDate time.Time // Date the document was ingested
	Filepath   string    // Content-addressed path inside the storage directory
	Title      string    // Model-generated short title
}

// DocumentContent represents a row of document_content. Its ID always equals
// the owning Document's ID (1:1, inserted in the same transaction).
type DocumentContent struct {
	ID        int64
	Content   string // Full extracted text
	Summary   string // Model-generated summary
	Buzzwords string // Model-generated keyword text
}

// ContentRow is the join of a document's searchable text fields with the
// metadata needed to build a search result. Read-only, produced for the
// search engine.
type ContentRow struct {
	ID         int64
	Title      string
	UploadDate time.Time
	Content    string
	Summary    string
	Buzzwords  string
}

// SearchResult is a ranked match for a query. Lower rank means a closer
// match. Never persisted.
type SearchResult struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	UploadDate time.Time `json:"upload_date"`
	Rank       float64   `json:"rank"`
}
