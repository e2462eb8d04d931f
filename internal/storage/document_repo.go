package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks dmslite/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// dateFormat is the storage format for upload_date.
const dateFormat = "2006-01-02"

// DocumentStore defines the interface for document metadata persistence.
type DocumentStore interface {
	// Insert persists a Document and its DocumentContent as one atomic unit
	// and returns the assigned document id. On failure neither row is visible.
	Insert(ctx context.Context, doc *Document, content *DocumentContent) (int64, error)
	// Delete removes the Document and DocumentContent rows for id in one
	// transaction and returns the stored filepath so the caller can remove
	// the physical file. Returns ErrNotFound if no such document exists.
	Delete(ctx context.Context, id int64) (string, error)
	// List returns all stored documents in unspecified order.
	List(ctx context.Context) ([]Document, error)
	// Count returns the total number of stored documents.
	Count(ctx context.Context) (int, error)
	// ListContents returns every document joined with its searchable text
	// fields, for ranking by the search engine.
	ListContents(ctx context.Context) ([]ContentRow, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert inserts the document and its content inside a single transaction.
// The generated main_table id is read back explicitly and reused for the
// document_content row, so the correlation never depends on per-session
// sequence state and is safe under concurrent writers.
func (r *DocumentRepo) Insert(ctx context.Context, doc *Document, content *DocumentContent) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op after a successful commit.
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO main_table (upload_date, filepath, title) VALUES (?, ?, ?)",
		doc.UploadDate.Format(dateFormat), doc.Filepath, doc.Title,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated document id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO document_content (id, content, summary, buzzwords) VALUES (?, ?, ?, ?)",
		id, content.Content, content.Summary, content.Buzzwords,
	); err != nil {
		return 0, fmt.Errorf("failed to insert document content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit document insert: %w", err)
	}

	doc.ID = id
	content.ID = id
	return id, nil
}

// Delete removes both rows for id in one transaction, preserving the 1:1
// invariant, and returns the stored filepath. The physical file is the
// caller's concern; metadata deletion is never undone on its behalf.
func (r *DocumentRepo) Delete(ctx context.Context, id int64) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var filepath string
	err = tx.QueryRowContext(ctx,
		"SELECT filepath FROM main_table WHERE id = ?", id,
	).Scan(&filepath)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up document %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_content WHERE id = ?", id); err != nil {
		return "", fmt.Errorf("failed to delete document content %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM main_table WHERE id = ?", id); err != nil {
		return "", fmt.Errorf("failed to delete document %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit document delete: %w", err)
	}

	return filepath, nil
}

// List returns all stored documents.
func (r *DocumentRepo) List(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, upload_date, filepath, title FROM main_table",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []Document
	for rows.Next() {
		var doc Document
		var uploadDateStr string
		if err := rows.Scan(&doc.ID, &uploadDateStr, &doc.Filepath, &doc.Title); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.UploadDate, err = parseDate(uploadDateStr)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// Count returns the total number of stored documents.
func (r *DocumentRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM main_table").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// ListContents returns every document joined with its text fields.
func (r *DocumentRepo) ListContents(ctx context.Context) ([]ContentRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.title, m.upload_date, c.content, c.summary, c.buzzwords
		 FROM main_table m
		 JOIN document_content c ON c.id = m.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query document contents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var contents []ContentRow
	for rows.Next() {
		var row ContentRow
		var uploadDateStr string
		if err := rows.Scan(&row.ID, &row.Title, &uploadDateStr, &row.Content, &row.Summary, &row.Buzzwords); err != nil {
			return nil, fmt.Errorf("failed to scan document content: %w", err)
		}
		row.UploadDate, err = parseDate(uploadDateStr)
		if err != nil {
			return nil, err
		}
		contents = append(contents, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return contents, nil
}

// parseDate parses an upload_date column value.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		// Try alternative format (SQLite might use different format)
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse upload_date %q: %w", s, err)
		}
	}
	return t, nil
}
