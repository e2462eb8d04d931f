package ingest

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_stages.go -package=mocks dmslite/internal/ingest Extractor,Enricher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dmslite/internal/archive"
	"dmslite/internal/contextutil"
	"dmslite/internal/storage"
	"dmslite/internal/textutil"
)

// Extractor converts a document file to plain text.
// This interface is defined from the pipeline's perspective (consumer-first).
type Extractor interface {
	// Extract returns the plain text of the document at path.
	Extract(ctx context.Context, path string) (string, error)
}

// Enricher derives model-generated text for a document. All methods are
// best-effort and return an empty string on failure.
type Enricher interface {
	// Summarize returns a summary of the extracted text.
	Summarize(ctx context.Context, text string) string
	// Buzzwords returns keyword text for the extracted text.
	Buzzwords(ctx context.Context, text string) string
	// Title returns a title generated from the buzzword text.
	Title(ctx context.Context, buzzwords string) string
}

// Report summarizes one consume run over the intake directory.
type Report struct {
	// Scanned is the number of PDF files found in the intake directory.
	Scanned int `json:"scanned"`
	// Ingested is the number of documents successfully archived and persisted.
	Ingested int `json:"ingested"`
	// Failed is the number of files whose ingestion was aborted.
	Failed int `json:"failed"`
}

// FileRemovalError reports that a document's metadata was deleted but the
// archived file could not be removed. The metadata deletion is not undone.
type FileRemovalError struct {
	Path string
	Err  error
}

func (e *FileRemovalError) Error() string {
	return fmt.Sprintf("document metadata deleted but file %s could not be removed: %v", e.Path, e.Err)
}

func (e *FileRemovalError) Unwrap() error {
	return e.Err
}

// Pipeline orchestrates document ingestion: extraction, enrichment,
// normalization, archiving and persistence, one intake file at a time.
//
// Per-file failure policy: extraction, archive and persistence failures abort
// that file's ingestion so no metadata row is ever created for a document
// without usable content or a properly archived file; the batch continues
// with the next file. Enrichment failures never abort a file.
type Pipeline struct {
	consumeDir string
	extractor  Extractor
	enricher   Enricher
	archiver   *archive.Archiver
	docs       storage.DocumentStore
	now        func() time.Time
	logger     *slog.Logger

	// consumeMu serializes Consume runs: the startup pass and API-triggered
	// passes share one intake directory, and a run assumes the files it
	// scanned are not being moved underneath it.
	consumeMu sync.Mutex
}

// NewPipeline creates a new ingestion pipeline over the given intake directory.
func NewPipeline(
	consumeDir string,
	extractor Extractor,
	enricher Enricher,
	archiver *archive.Archiver,
	docs storage.DocumentStore,
) *Pipeline {
	return &Pipeline{
		consumeDir: consumeDir,
		extractor:  extractor,
		enricher:   enricher,
		archiver:   archiver,
		docs:       docs,
		now:        time.Now,
		logger:     slog.Default(),
	}
}

// Consume scans the intake directory and ingests every PDF in it
// sequentially. Entries that are not PDF files are ignored. Per-file errors
// are logged and counted in the report; only a failure to read the intake
// directory itself is returned as an error. Runs are single-flight:
// concurrent calls serialize.
func (p *Pipeline) Consume(ctx context.Context) (Report, error) {
	p.consumeMu.Lock()
	defer p.consumeMu.Unlock()

	logger := contextutil.LoggerFromContext(ctx)

	entries, err := os.ReadDir(p.consumeDir)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read intake directory %s: %w", p.consumeDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		logger.InfoContext(ctx, "nothing to consume", "intake_dir", p.consumeDir)
		return Report{}, nil
	}

	report := Report{Scanned: len(names)}
	logger.InfoContext(ctx, "starting ingestion", "total_files", len(names))

	for _, name := range names {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		if err := p.ingestFile(ctx, name); err != nil {
			report.Failed++
			logger.ErrorContext(ctx, "failed to ingest file", "file", name, "error", err)
			// Continue with next file
			continue
		}
		report.Ingested++
	}

	logger.InfoContext(ctx, "ingestion completed",
		"total_files", report.Scanned, "ingested", report.Ingested, "failed", report.Failed)
	return report, nil
}

// ingestFile runs the full pipeline for a single intake file.
func (p *Pipeline) ingestFile(ctx context.Context, name string) error {
	logger := contextutil.LoggerFromContext(ctx)
	intakePath := filepath.Join(p.consumeDir, name)

	// Extraction failure is fatal for this file: a row without usable
	// content is worse than no row.
	raw, err := p.extractor.Extract(ctx, intakePath)
	if err != nil {
		return fmt.Errorf("extraction failed for %s: %w", name, err)
	}
	content := textutil.Clean(raw)

	// Summary and buzzwords derive from the content; the title derives from
	// the buzzwords. Enrichment is best-effort and never aborts the file.
	summary := textutil.Collapse(p.enricher.Summarize(ctx, content))
	buzzwords := textutil.Collapse(p.enricher.Buzzwords(ctx, content))
	title := textutil.CleanTitle(p.enricher.Title(ctx, buzzwords))

	// Archive before persisting so a stored row always points at a file
	// that exists. An archive failure aborts the file.
	storedPath, err := p.archiver.Archive(intakePath)
	if err != nil {
		return fmt.Errorf("archiving failed for %s: %w", name, err)
	}

	doc := &storage.Document{
		UploadDate: p.now().UTC(),
		Filepath:   storedPath,
		Title:      title,
	}
	docContent := &storage.DocumentContent{
		Content:   content,
		Summary:   summary,
		Buzzwords: buzzwords,
	}

	id, err := p.docs.Insert(ctx, doc, docContent)
	if err != nil {
		// The file is already archived; report where it ended up so the
		// orphan can be reclaimed.
		return fmt.Errorf("persistence failed for %s (file archived at %s): %w", name, storedPath, err)
	}

	logger.InfoContext(ctx, "ingested document", "file", name, "id", id, "title", title, "stored_path", storedPath)
	return nil
}

// Remove deletes a document's metadata and then its archived file. The
// metadata deletion commits first; if the file removal fails afterwards the
// deletion stands and the failure is surfaced as a *FileRemovalError,
// distinct from a metadata-delete failure.
func (p *Pipeline) Remove(ctx context.Context, id int64) error {
	logger := contextutil.LoggerFromContext(ctx)

	storedPath, err := p.docs.Delete(ctx, id)
	if err != nil {
		return err
	}

	if err := os.Remove(storedPath); err != nil {
		return &FileRemovalError{Path: storedPath, Err: err}
	}

	logger.InfoContext(ctx, "removed document", "id", id, "stored_path", storedPath)
	return nil
}
