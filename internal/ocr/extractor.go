package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// TesseractExtractor extracts text from a PDF by rasterizing its first page
// with pdftoppm and running tesseract over the image. All intermediate
// artifacts live in a private temp directory that is removed when the
// extraction finishes, whatever the outcome.
type TesseractExtractor struct {
	lang   string
	logger *slog.Logger
}

// NewTesseractExtractor creates an extractor using the given tesseract
// language code (e.g. "deu", "eng").
func NewTesseractExtractor(lang string) *TesseractExtractor {
	return &TesseractExtractor{
		lang:   lang,
		logger: slog.Default(),
	}
}

// Extract converts the PDF at path to plain text. It returns a
// *ConversionError if rasterization fails and a *RecognitionError if the
// recognition step fails.
func (e *TesseractExtractor) Extract(ctx context.Context, path string) (string, error) {
	workDir, err := os.MkdirTemp("", "dmslite-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create ocr work dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(workDir)
	}()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	// Rasterize. pdftoppm writes <prefix>-1.jpg for a single page.
	convert := exec.CommandContext(ctx, "pdftoppm", "-jpeg", absPath, "page")
	convert.Dir = workDir
	if err := convert.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", &ConversionError{Reason: conversionReason(exitErr.ExitCode())}
		}
		return "", &ConversionError{Reason: err.Error()}
	}

	// Recognize. Tesseract writes its result to output.txt.
	recognize := exec.CommandContext(ctx, "tesseract", "page-1.jpg", "output", "-l", e.lang)
	recognize.Dir = workDir
	if err := recognize.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", &RecognitionError{Code: exitErr.ExitCode()}
		}
		return "", &RecognitionError{Code: -1}
	}

	text, err := os.ReadFile(filepath.Join(workDir, "output.txt"))
	if err != nil {
		return "", fmt.Errorf("failed to read recognized text: %w", err)
	}

	e.logger.DebugContext(ctx, "extracted text from pdf", "path", path, "bytes", len(text))
	return string(text), nil
}
