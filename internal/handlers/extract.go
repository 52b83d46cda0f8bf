package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"docintel/internal/contextutil"
	"docintel/internal/extractor"
	"docintel/internal/service"
	"docintel/internal/storage"
)

// ExtractHandler runs structured shipment field extraction over a document's
// stored full text.
type ExtractHandler struct {
	extractor *extractor.Extractor
	docRepo   storage.DocumentStore
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(ex *extractor.Extractor, docRepo storage.DocumentStore) *ExtractHandler {
	return &ExtractHandler{extractor: ex, docRepo: docRepo}
}

// ExtractRequest represents the HTTP request payload for extraction.
type ExtractRequest struct {
	DocumentID string `json:"document_id"`
}

// ExtractResponse represents a completed extraction.
type ExtractResponse struct {
	DocumentID    string         `json:"document_id"`
	Filename      string         `json:"filename"`
	ExtractedData map[string]any `json:"extracted_data"`
}

// ServeHTTP handles POST /api/v1/extract.
func (h *ExtractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	doc, err := h.docRepo.GetByID(ctx, req.DocumentID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Document %q not found. Upload it first.", req.DocumentID))
			return
		}
		logger.ErrorContext(ctx, "failed to load document", "document_id", req.DocumentID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to look up document")
		return
	}

	extracted, err := h.extractor.Extract(ctx, doc.FullText)
	if err != nil {
		logger.ErrorContext(ctx, "extraction failed", "document_id", req.DocumentID, "error", err)
		writeError(w, statusFromError(err), "Extraction failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		DocumentID:    doc.DocumentID,
		Filename:      doc.Filename,
		ExtractedData: extracted,
	})
}
