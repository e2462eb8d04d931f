package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"dmslite/internal/archive"
	"dmslite/internal/config"
	"dmslite/internal/http"
	"dmslite/internal/ingest"
	"dmslite/internal/llm"
	"dmslite/internal/ocr"
	"dmslite/internal/search"
	"dmslite/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	docRepo := storage.NewDocumentRepo(db)

	// External collaborators: OCR extraction and model enrichment
	extractor := ocr.NewTesseractExtractor(cfg.OCRLang)
	llmClient := llm.NewClient(cfg.OllamaBaseURL)
	enricher := llm.NewEnricher(llmClient, cfg.SummaryModel, cfg.BuzzwordModel, cfg.TitleModel)

	// Ingestion pipeline and search engine
	archiver := archive.NewArchiver(cfg.StoragePath)
	pipeline := ingest.NewPipeline(cfg.ConsumePath, extractor, enricher, archiver, docRepo)
	engine := search.NewEngine(docRepo)
	slog.Info("Ingestion pipeline initialized", "consume_path", cfg.ConsumePath, "storage_path", cfg.StoragePath)

	// Create router with dependencies
	deps := &http.Deps{
		Consumer:   pipeline,
		Remover:    pipeline,
		Searcher:   engine,
		DocStore:   docRepo,
		DB:         db,
		StorageDir: cfg.StoragePath,
	}
	router := http.NewRouter(deps)

	// Run an initial consume pass in the background after the router is ready
	go func() {
		consumeCtx := context.Background()
		slog.Info("Starting initial consume pass")
		report, err := pipeline.Consume(consumeCtx)
		if err != nil {
			slog.Error("Initial consume pass failed", "error", err)
			return
		}
		slog.Info("Initial consume pass completed",
			"scanned", report.Scanned, "ingested", report.Ingested, "failed", report.Failed)
	}()

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
