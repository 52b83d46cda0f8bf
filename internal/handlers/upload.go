package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docintel/internal/contextutil"
	"docintel/internal/docparse"
	"docintel/internal/ingest"
)

// UploadHandler accepts a document upload and runs it through the ingestion
// pipeline. The saved file keeps the document ID as its name so the original
// filename cannot escape the upload directory.
type UploadHandler struct {
	pipeline    *ingest.Pipeline
	uploadDir   string
	maxFileSize int64
}

// NewUploadHandler creates a new UploadHandler. maxFileSize is in bytes.
func NewUploadHandler(pipeline *ingest.Pipeline, uploadDir string, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		pipeline:    pipeline,
		uploadDir:   uploadDir,
		maxFileSize: maxFileSize,
	}
}

// UploadResponse represents a successful upload.
type UploadResponse struct {
	DocumentID    string `json:"document_id"`
	Filename      string `json:"filename"`
	ChunksCreated int    `json:"chunks_created"`
	Message       string `json:"message"`
}

// ServeHTTP handles POST /api/v1/upload with a multipart "file" field.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	// Leave headroom for the multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	if err := r.ParseMultipartForm(h.maxFileSize + 1<<20); err != nil {
		logger.WarnContext(ctx, "invalid multipart request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !docparse.SupportedExtension(header.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file type %q. Allowed: .txt, .md", ext))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "File is empty")
		return
	}
	if int64(len(data)) > h.maxFileSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("File too large (%.1fMB). Maximum: %.0fMB",
			float64(len(data))/1024/1024, float64(h.maxFileSize)/1024/1024))
		return
	}

	documentID := uuid.New().String()[:8]
	filePath := filepath.Join(h.uploadDir, documentID+ext)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		logger.ErrorContext(ctx, "failed to save upload", "path", filePath, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	result, err := h.pipeline.Ingest(ctx, documentID, header.Filename, filePath, data)
	if err != nil {
		_ = os.Remove(filePath)
		logger.ErrorContext(ctx, "ingestion failed", "document_id", documentID, "error", err)
		writeError(w, statusFromError(err), "Document processing failed: "+err.Error())
		return
	}

	logger.InfoContext(ctx, "document uploaded", "document_id", documentID, "filename", header.Filename)

	writeJSON(w, http.StatusOK, UploadResponse{
		DocumentID:    result.DocumentID,
		Filename:      result.Filename,
		ChunksCreated: result.ChunksCreated,
		Message:       "Document uploaded and indexed successfully.",
	})
}
