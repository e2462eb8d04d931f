package handlers

import (
	"context"
	"net/http"

	"dmslite/internal/contextutil"
	"dmslite/internal/ingest"
)

// Consumer runs one ingestion pass over the intake directory.
type Consumer interface {
	Consume(ctx context.Context) (ingest.Report, error)
}

// ConsumeHandler handles HTTP requests that trigger an ingestion run.
type ConsumeHandler struct {
	consumer Consumer
}

// NewConsumeHandler creates a new ConsumeHandler.
func NewConsumeHandler(consumer Consumer) *ConsumeHandler {
	return &ConsumeHandler{consumer: consumer}
}

// ServeHTTP runs a consume pass and reports the outcome. Per-file failures
// are part of the report, not an HTTP error; only a failure to scan the
// intake directory itself yields a 500.
func (h *ConsumeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	report, err := h.consumer.Consume(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "consume run failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "failed to consume intake directory")
		return
	}

	writeJSON(ctx, w, http.StatusOK, report)
}
