package handlers

import (
	"net/http"

	"docintel/internal/contextutil"
	"docintel/internal/storage"
)

// HealthHandler reports service liveness and the number of active documents.
type HealthHandler struct {
	docRepo storage.DocumentStore
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(docRepo storage.DocumentStore, version string) *HealthHandler {
	return &HealthHandler{docRepo: docRepo, version: version}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status          string `json:"status"`
	DocumentsLoaded int    `json:"documents_loaded"`
	Version         string `json:"version"`
}

// ServeHTTP handles GET /api/v1/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	count, err := h.docRepo.Count(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count documents", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unhealthy",
			Version: h.version,
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "healthy",
		DocumentsLoaded: count,
		Version:         h.version,
	})
}
