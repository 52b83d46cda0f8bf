package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"docintel/internal/contextutil"
	"docintel/internal/rag"
	"docintel/internal/storage"
)

// AskHandler answers a question about one uploaded document.
type AskHandler struct {
	engine            rag.Engine
	docRepo           storage.DocumentStore
	maxQuestionLength int
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine rag.Engine, docRepo storage.DocumentStore, maxQuestionLength int) *AskHandler {
	return &AskHandler{
		engine:            engine,
		docRepo:           docRepo,
		maxQuestionLength: maxQuestionLength,
	}
}

// AskRequest represents the HTTP request payload for questions.
type AskRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
}

// ServeHTTP handles POST /api/v1/ask.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "document_id is required")
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "Question cannot be empty or whitespace only")
		return
	}
	if utf8.RuneCountInString(req.Question) > h.maxQuestionLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Question exceeds maximum length of %d characters", h.maxQuestionLength))
		return
	}

	exists, err := h.docRepo.Exists(ctx, req.DocumentID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to check document", "document_id", req.DocumentID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to look up document")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Document %q not found. Upload it first.", req.DocumentID))
		return
	}

	resp, err := h.engine.Ask(ctx, req.DocumentID, req.Question)
	if err != nil {
		logger.ErrorContext(ctx, "ask failed", "document_id", req.DocumentID, "error", err)
		writeError(w, statusFromError(err), "Error processing your question: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
