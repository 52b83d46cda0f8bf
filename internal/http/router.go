// Package http assembles the chi router for the document intelligence API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docintel/internal/handlers"
)

// Deps holds the handlers the router mounts.
type Deps struct {
	Upload    *handlers.UploadHandler
	Ask       *handlers.AskHandler
	Extract   *handlers.ExtractHandler
	Documents *handlers.DocumentsHandler
	Health    *handlers.HealthHandler
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/upload", deps.Upload)
		r.Method(http.MethodPost, "/ask", deps.Ask)
		r.Method(http.MethodPost, "/extract", deps.Extract)
		r.Get("/documents", deps.Documents.List)
		r.Delete("/documents/{documentID}", deps.Documents.Delete)
		r.Method(http.MethodGet, "/health", deps.Health)
	})

	return r
}
