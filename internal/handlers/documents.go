package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dmslite/internal/contextutil"
	"dmslite/internal/ingest"
	"dmslite/internal/storage"
)

// Remover deletes a document's metadata and archived file.
type Remover interface {
	Remove(ctx context.Context, id int64) error
}

// DocumentsHandler handles HTTP requests for listing, counting and deleting
// stored documents.
type DocumentsHandler struct {
	store   storage.DocumentStore
	remover Remover
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(store storage.DocumentStore, remover Remover) *DocumentsHandler {
	return &DocumentsHandler{store: store, remover: remover}
}

// DocumentResponse is the JSON shape of a listed document.
type DocumentResponse struct {
	ID         int64  `json:"id"`
	UploadDate string `json:"upload_date"`
	Filepath   string `json:"filepath"`
	Title      string `json:"title"`
}

// List returns all stored documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := h.store.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, DocumentResponse{
			ID:         doc.ID,
			UploadDate: doc.UploadDate.Format("2006-01-02"),
			Filepath:   doc.Filepath,
			Title:      doc.Title,
		})
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

// Count returns the total number of stored documents.
func (h *DocumentsHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	count, err := h.store.Count(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count documents", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "failed to count documents")
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]int{"count": count})
}

// DeleteResponse is the JSON body for a delete request.
type DeleteResponse struct {
	ID          int64  `json:"id"`
	Deleted     bool   `json:"deleted"`
	FileRemoved bool   `json:"file_removed"`
	Warning     string `json:"warning,omitempty"`
}

// Delete removes a document by id. A failure to remove the archived file
// after the metadata commit is reported as a warning, not an error: the
// metadata deletion stands either way.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid document id")
		return
	}

	err = h.remover.Remove(ctx, id)

	var removalErr *ingest.FileRemovalError
	switch {
	case err == nil:
		writeJSON(ctx, w, http.StatusOK, DeleteResponse{ID: id, Deleted: true, FileRemoved: true})
	case errors.As(err, &removalErr):
		logger.WarnContext(ctx, "document deleted but file removal failed", "id", id, "error", err)
		writeJSON(ctx, w, http.StatusOK, DeleteResponse{
			ID:          id,
			Deleted:     true,
			FileRemoved: false,
			Warning:     removalErr.Error(),
		})
	case errors.Is(err, storage.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, "document not found")
	default:
		logger.ErrorContext(ctx, "failed to delete document", "id", id, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "failed to delete document")
	}
}
