package ingest_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dmslite/internal/archive"
	"dmslite/internal/ingest"
	"dmslite/internal/ingest/mocks"
	"dmslite/internal/storage"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fixture bundles a pipeline with its real sqlite store and directories.
type fixture struct {
	pipeline  *ingest.Pipeline
	extractor *mocks.MockExtractor
	enricher  *mocks.MockEnricher
	db        *sql.DB
	repo      *storage.DocumentRepo
	intakeDir string
	storeDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, err := storage.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	f := &fixture{
		extractor: mocks.NewMockExtractor(ctrl),
		enricher:  mocks.NewMockEnricher(ctrl),
		db:        db,
		repo:      storage.NewDocumentRepo(db),
		intakeDir: t.TempDir(),
		storeDir:  t.TempDir(),
	}
	f.pipeline = ingest.NewPipeline(
		f.intakeDir,
		f.extractor,
		f.enricher,
		archive.NewArchiver(f.storeDir),
		f.repo,
	)
	return f
}

func (f *fixture) writeIntake(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.intakeDir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("failed to write intake file: %v", err)
	}
	return path
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	count, err := f.repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	return count
}

func TestPipeline_Consume_EmptyIntake(t *testing.T) {
	f := newFixture(t)

	report, err := f.pipeline.Consume(context.Background())
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if report != (ingest.Report{}) {
		t.Errorf("Consume() report = %+v, want zero report", report)
	}

	// Database and storage directory unchanged.
	if got := f.count(t); got != 0 {
		t.Errorf("document count = %d after empty consume, want 0", got)
	}
	entries, err := os.ReadDir(f.storeDir)
	if err != nil {
		t.Fatalf("failed to read storage dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("storage dir has %d entries after empty consume, want 0", len(entries))
	}
}

func TestPipeline_Consume_IgnoresNonPDF(t *testing.T) {
	f := newFixture(t)

	if err := os.WriteFile(filepath.Join(f.intakeDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(f.intakeDir, "subdir.pdf"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	report, err := f.pipeline.Consume(context.Background())
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if report.Scanned != 0 {
		t.Errorf("Consume() scanned %d entries, want 0", report.Scanned)
	}
}

func TestPipeline_Consume_IngestsDocument(t *testing.T) {
	f := newFixture(t)
	f.writeIntake(t, "letter.pdf")
	ctx := context.Background()

	rawText := "Dear  Mr \xc3\x9c Smith,\nyour   contract"
	cleaned := "Dear Mr Smith,your contract"

	f.extractor.EXPECT().Extract(gomock.Any(), filepath.Join(f.intakeDir, "letter.pdf")).Return(rawText, nil)
	f.enricher.EXPECT().Summarize(gomock.Any(), cleaned).Return("a  contract   letter")
	f.enricher.EXPECT().Buzzwords(gomock.Any(), cleaned).Return("contract letter smith")
	// The title prompt is the normalized buzzword text, never the content.
	f.enricher.EXPECT().Title(gomock.Any(), "contract letter smith").Return("**Contract Letter**")

	report, err := f.pipeline.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if report.Ingested != 1 || report.Failed != 0 {
		t.Fatalf("Consume() report = %+v, want 1 ingested", report)
	}

	// Intake file moved into storage.
	if _, err := os.Stat(filepath.Join(f.intakeDir, "letter.pdf")); !os.IsNotExist(err) {
		t.Error("intake file still present after ingestion")
	}

	docs, err := f.repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("List() returned %d documents, want 1", len(docs))
	}
	doc := docs[0]
	if doc.Title != "Contract Letter" {
		t.Errorf("title = %q, want %q", doc.Title, "Contract Letter")
	}
	if filepath.Dir(doc.Filepath) != f.storeDir || filepath.Ext(doc.Filepath) != ".pdf" {
		t.Errorf("stored filepath = %q, want a .pdf inside %s", doc.Filepath, f.storeDir)
	}
	if _, err := os.Stat(doc.Filepath); err != nil {
		t.Errorf("stored file missing at %s: %v", doc.Filepath, err)
	}

	rows, err := f.repo.ListContents(ctx)
	if err != nil {
		t.Fatalf("ListContents() error = %v", err)
	}
	if rows[0].Content != cleaned {
		t.Errorf("content = %q, want %q", rows[0].Content, cleaned)
	}
	if rows[0].Summary != "a contract letter" {
		t.Errorf("summary = %q, want %q", rows[0].Summary, "a contract letter")
	}
	if rows[0].Buzzwords != "contract letter smith" {
		t.Errorf("buzzwords = %q, want %q", rows[0].Buzzwords, "contract letter smith")
	}
}

func TestPipeline_Consume_ExtractionFailureSkipsFile(t *testing.T) {
	f := newFixture(t)
	intakePath := f.writeIntake(t, "broken.pdf")

	f.extractor.EXPECT().Extract(gomock.Any(), intakePath).Return("", errors.New("pdf conversion failed"))

	report, err := f.pipeline.Consume(context.Background())
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if report.Failed != 1 || report.Ingested != 0 {
		t.Errorf("Consume() report = %+v, want 1 failed", report)
	}

	// No row was created and the intake file was not archived.
	if got := f.count(t); got != 0 {
		t.Errorf("document count = %d after failed extraction, want 0", got)
	}
	if _, err := os.Stat(intakePath); err != nil {
		t.Errorf("intake file missing after aborted ingestion: %v", err)
	}
}

func TestPipeline_Consume_ArchiveFailureSkipsFile(t *testing.T) {
	f := newFixture(t)
	intakePath := f.writeIntake(t, "stuck.pdf")

	f.extractor.EXPECT().Extract(gomock.Any(), intakePath).Return("some text", nil)
	f.enricher.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return("")
	f.enricher.EXPECT().Buzzwords(gomock.Any(), gomock.Any()).Return("")
	f.enricher.EXPECT().Title(gomock.Any(), gomock.Any()).Return("")

	// An archiver pointed at a storage dir that does not exist: the rename
	// fails and the file's ingestion aborts.
	pipeline := ingest.NewPipeline(
		f.intakeDir,
		f.extractor,
		f.enricher,
		archive.NewArchiver(filepath.Join(f.storeDir, "missing", "storage")),
		f.repo,
	)

	report, err := pipeline.Consume(context.Background())
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if report.Failed != 1 || report.Ingested != 0 {
		t.Errorf("Consume() report = %+v, want 1 failed", report)
	}

	// No row was created and the intake file was not moved.
	if got := f.count(t); got != 0 {
		t.Errorf("document count = %d after failed archiving, want 0", got)
	}
	if _, err := os.Stat(intakePath); err != nil {
		t.Errorf("intake file missing after aborted ingestion: %v", err)
	}
}

func TestPipeline_Consume_EnrichmentFailureStillIngests(t *testing.T) {
	f := newFixture(t)
	f.writeIntake(t, "scan.pdf")

	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return("some scanned text", nil)
	// Best-effort enrichment came back empty everywhere.
	f.enricher.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return("")
	f.enricher.EXPECT().Buzzwords(gomock.Any(), gomock.Any()).Return("")
	f.enricher.EXPECT().Title(gomock.Any(), "").Return("")

	report, err := f.pipeline.Consume(context.Background())
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if report.Ingested != 1 {
		t.Fatalf("Consume() report = %+v, want 1 ingested", report)
	}

	rows, err := f.repo.ListContents(context.Background())
	if err != nil {
		t.Fatalf("ListContents() error = %v", err)
	}
	if rows[0].Content != "some scanned text" || rows[0].Summary != "" || rows[0].Buzzwords != "" {
		t.Errorf("unexpected row after empty enrichment: %+v", rows[0])
	}
}

func TestPipeline_Consume_PersistenceFailureContinuesBatch(t *testing.T) {
	f := newFixture(t)
	f.writeIntake(t, "doomed.pdf")

	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return("text", nil)
	f.enricher.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return("")
	f.enricher.EXPECT().Buzzwords(gomock.Any(), gomock.Any()).Return("")
	f.enricher.EXPECT().Title(gomock.Any(), gomock.Any()).Return("")

	// Force the pair insert to fail mid-transaction.
	if _, err := f.db.Exec("DROP TABLE document_content"); err != nil {
		t.Fatalf("failed to drop document_content: %v", err)
	}

	report, err := f.pipeline.Consume(context.Background())
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("Consume() report = %+v, want 1 failed", report)
	}

	// The transaction rolled back: no document row is visible.
	var count int
	if err := f.db.QueryRow("SELECT COUNT(*) FROM main_table").Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("main_table count = %d after failed persistence, want 0", count)
	}
}

func TestPipeline_Consume_ConcurrentRunsSerialize(t *testing.T) {
	f := newFixture(t)
	f.writeIntake(t, "a.pdf")
	f.writeIntake(t, "b.pdf")

	// The extractor records whether two extractions ever ran at once. With
	// serialized runs the second Consume scans an already-emptied intake dir.
	var active, overlapped atomic.Bool
	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(
		func(ctx context.Context, path string) (string, error) {
			if !active.CompareAndSwap(false, true) {
				overlapped.Store(true)
			}
			time.Sleep(10 * time.Millisecond)
			active.Store(false)
			return "text", nil
		})
	f.enricher.EXPECT().Summarize(gomock.Any(), gomock.Any()).AnyTimes().Return("")
	f.enricher.EXPECT().Buzzwords(gomock.Any(), gomock.Any()).AnyTimes().Return("")
	f.enricher.EXPECT().Title(gomock.Any(), gomock.Any()).AnyTimes().Return("")

	var wg sync.WaitGroup
	reports := make([]ingest.Report, 2)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report, err := f.pipeline.Consume(context.Background())
			if err != nil {
				t.Errorf("Consume() error = %v", err)
			}
			reports[i] = report
		}(i)
	}
	wg.Wait()

	if overlapped.Load() {
		t.Error("extractions ran concurrently, want serialized consume runs")
	}
	ingested := reports[0].Ingested + reports[1].Ingested
	failed := reports[0].Failed + reports[1].Failed
	if ingested != 2 || failed != 0 {
		t.Errorf("combined reports = %+v, want 2 ingested and 0 failed", reports)
	}
	if got := f.count(t); got != 2 {
		t.Errorf("document count = %d after concurrent consumes, want 2", got)
	}
}

func TestPipeline_Remove(t *testing.T) {
	f := newFixture(t)
	f.writeIntake(t, "gone.pdf")
	ctx := context.Background()

	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return("text", nil)
	f.enricher.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return("s")
	f.enricher.EXPECT().Buzzwords(gomock.Any(), gomock.Any()).Return("b")
	f.enricher.EXPECT().Title(gomock.Any(), gomock.Any()).Return("t")

	if _, err := f.pipeline.Consume(ctx); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	docs, err := f.repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	doc := docs[0]

	if err := f.pipeline.Remove(ctx, doc.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if got := f.count(t); got != 0 {
		t.Errorf("document count = %d after Remove, want 0", got)
	}
	if _, err := os.Stat(doc.Filepath); !os.IsNotExist(err) {
		t.Errorf("archived file still present at %s", doc.Filepath)
	}
}

func TestPipeline_Remove_FileRemovalFailureIsDistinct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A row whose file is already gone: metadata delete succeeds, file
	// removal fails, and the failure is typed.
	doc := &storage.Document{
		UploadDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Filepath:   filepath.Join(f.storeDir, "missing.pdf"),
		Title:      "x",
	}
	id, err := f.repo.Insert(ctx, doc, &storage.DocumentContent{Content: "c"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	err = f.pipeline.Remove(ctx, id)
	var removalErr *ingest.FileRemovalError
	if !errors.As(err, &removalErr) {
		t.Fatalf("Remove() error = %v, want *FileRemovalError", err)
	}

	// The metadata deletion stands.
	if got := f.count(t); got != 0 {
		t.Errorf("document count = %d after Remove with file failure, want 0", got)
	}
}

func TestPipeline_Remove_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.pipeline.Remove(context.Background(), 404)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Remove() error = %v, want storage.ErrNotFound", err)
	}
}
