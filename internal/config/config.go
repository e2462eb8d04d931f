package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is read once at
// startup and immutable for the process lifetime.
type Config struct {
	DBPath        string
	ConsumePath   string // Intake directory scanned for PDFs
	StoragePath   string // Long-term storage directory for archived files
	OCRLang       string // Tesseract language code
	OllamaBaseURL string
	SummaryModel  string
	BuzzwordModel string
	TitleModel    string
	APIPort       string
	LogLevel      slog.Level
	LogFormat     string
}

// Load reads configuration from environment variables and returns a Config
// struct. It applies defaults for optional fields and validates required
// fields. If a .env file exists in the current directory it is loaded first;
// environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:        getEnv("DB_PATH", "./data/dmslite.db"),
		ConsumePath:   getEnv("CONSUME_PATH", ""),
		StoragePath:   getEnv("STORAGE_PATH", ""),
		OCRLang:       getEnv("OCR_LANG", "deu"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		SummaryModel:  getEnv("SUMMARY_MODEL", "doc_summarizer"),
		BuzzwordModel: getEnv("BUZZWORD_MODEL", "doc_buzzword_generator"),
		TitleModel:    getEnv("TITLE_MODEL", "doc_title_generator"),
		APIPort:       getEnv("API_PORT", "9000"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// Validate required fields
	if cfg.ConsumePath == "" {
		return nil, fmt.Errorf("CONSUME_PATH is required")
	}
	if cfg.StoragePath == "" {
		return nil, fmt.Errorf("STORAGE_PATH is required")
	}

	// Create the data and storage directories if they don't exist.
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.StoragePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return cfg, nil
}

// parseLogLevel maps a LOG_LEVEL value onto a slog.Level.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
