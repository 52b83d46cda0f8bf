package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docintel/internal/config"
	"docintel/internal/docparse"
	"docintel/internal/extractor"
	"docintel/internal/handlers"
	"docintel/internal/http"
	"docintel/internal/ingest"
	"docintel/internal/llm"
	"docintel/internal/rag"
	"docintel/internal/storage"
	"docintel/internal/vectorstore"
)

const version = "1.0.0"

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	docRepo := storage.NewDocumentRepo(db)

	// Select the vector store backend
	var vectorStore vectorstore.VectorStore
	switch cfg.VectorStore {
	case "qdrant":
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		vectorStore = qdrantStore
		slog.Info("Vector store configured", "backend", "qdrant", "url", cfg.QdrantURL, "collection", cfg.QdrantCollection)
	default:
		vectorStore = vectorstore.NewMemoryStore()
		slog.Info("Vector store configured", "backend", "memory")
	}

	// LLM client serves both embeddings and chat completions
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ChatModel, cfg.EmbeddingModel, cfg.EmbeddingVectorSize)

	maxFileSize := int64(cfg.MaxFileSizeMB) << 20
	pipeline := ingest.NewPipeline(
		docparse.NewParser(maxFileSize),
		docRepo,
		llmClient,
		vectorStore,
		cfg.ChunkSize,
		cfg.ChunkOverlap,
	)

	ragEngine := rag.NewEngine(llmClient, llmClient, vectorStore, rag.Options{
		TopK:                cfg.TopKChunks,
		SimilarityThreshold: cfg.SimilarityThreshold,
		ConfidenceLow:       cfg.ConfidenceLowThreshold,
		ConfidenceMedium:    cfg.ConfidenceMediumThreshold,
	})
	slog.Info("RAG engine initialized",
		"top_k", cfg.TopKChunks,
		"similarity_threshold", cfg.SimilarityThreshold)

	deps := &http.Deps{
		Upload:    handlers.NewUploadHandler(pipeline, cfg.UploadDir, maxFileSize),
		Ask:       handlers.NewAskHandler(ragEngine, docRepo, cfg.MaxQuestionLength),
		Extract:   handlers.NewExtractHandler(extractor.NewExtractor(llmClient), docRepo),
		Documents: handlers.NewDocumentsHandler(docRepo, vectorStore),
		Health:    handlers.NewHealthHandler(docRepo, version),
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "chat_model", cfg.ChatModel, "embedding_model", cfg.EmbeddingModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
