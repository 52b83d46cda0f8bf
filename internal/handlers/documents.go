package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docintel/internal/contextutil"
	"docintel/internal/service"
	"docintel/internal/storage"
	"docintel/internal/vectorstore"
)

// DocumentsHandler lists and deletes uploaded documents.
type DocumentsHandler struct {
	docRepo     storage.DocumentStore
	vectorStore vectorstore.VectorStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(docRepo storage.DocumentStore, vectorStore vectorstore.VectorStore) *DocumentsHandler {
	return &DocumentsHandler{docRepo: docRepo, vectorStore: vectorStore}
}

// DocumentListResponse represents the document listing.
type DocumentListResponse struct {
	Documents []storage.Document `json:"documents"`
	Count     int                `json:"count"`
}

// List handles GET /api/v1/documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := h.docRepo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if docs == nil {
		docs = []storage.Document{}
	}

	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Count: len(docs)})
}

// Delete handles DELETE /api/v1/documents/{documentID}. The metadata row is
// soft-deleted and the document's vector index is dropped.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	documentID := chi.URLParam(r, "documentID")
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	if err := h.docRepo.SoftDelete(ctx, documentID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to delete document", "document_id", documentID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	// Index removal failures leave an orphaned index; it is unreachable once
	// the metadata row is gone, so log and report success.
	if err := h.vectorStore.DeleteIndex(ctx, documentID); err != nil {
		logger.WarnContext(ctx, "failed to delete index", "document_id", documentID, "error", err)
	}

	logger.InfoContext(ctx, "document deleted", "document_id", documentID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted."})
}
