package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Every value is passed
// explicitly into the component that needs it; nothing reads the environment
// after startup.
type Config struct {
	// LLM
	LLMBaseURL          string
	LLMAPIKey           string
	ChatModel           string
	EmbeddingModel      string
	EmbeddingVectorSize int

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	TopKChunks          int
	SimilarityThreshold float64

	// Confidence
	ConfidenceLowThreshold    float64
	ConfidenceMediumThreshold float64

	// Vector store backend: "memory" or "qdrant".
	VectorStore      string
	QdrantURL        string
	QdrantCollection string

	// API
	DBPath            string
	UploadDir         string
	MaxFileSizeMB     int
	MaxQuestionLength int
	APIPort           string

	// Logging
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config.
// It applies defaults for optional fields and validates ranges. If a .env
// file exists in the current directory or an ancestor, it is loaded first;
// environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:       getEnv("LLM_BASE_URL", "http://localhost:11434/v1"),
		LLMAPIKey:        getEnv("LLM_API_KEY", "dummy-key"),
		ChatModel:        getEnv("CHAT_MODEL", "llama-3.1-8b-instant"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		VectorStore:      getEnv("VECTOR_STORE", "memory"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "documents"),
		DBPath:           getEnv("DB_PATH", "./data/documents.db"),
		UploadDir:        getEnv("UPLOAD_DIR", "./data/uploads"),
		APIPort:          getEnv("API_PORT", "9000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 500); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 100); err != nil {
		return nil, err
	}
	if cfg.TopKChunks, err = getEnvInt("TOP_K_CHUNKS", 5); err != nil {
		return nil, err
	}
	if cfg.MaxFileSizeMB, err = getEnvInt("MAX_FILE_SIZE_MB", 20); err != nil {
		return nil, err
	}
	if cfg.MaxQuestionLength, err = getEnvInt("MAX_QUESTION_LENGTH", 1000); err != nil {
		return nil, err
	}
	if cfg.EmbeddingVectorSize, err = getEnvInt("EMBEDDING_VECTOR_SIZE", 768); err != nil {
		return nil, err
	}
	if cfg.SimilarityThreshold, err = getEnvFloat("SIMILARITY_THRESHOLD", 0.25); err != nil {
		return nil, err
	}
	if cfg.ConfidenceLowThreshold, err = getEnvFloat("CONFIDENCE_LOW_THRESHOLD", 0.4); err != nil {
		return nil, err
	}
	if cfg.ConfidenceMediumThreshold, err = getEnvFloat("CONFIDENCE_MEDIUM_THRESHOLD", 0.7); err != nil {
		return nil, err
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return cfg, nil
}

// Validate checks the cross-field constraints the rest of the system relies on.
func (c *Config) Validate() error {
	if c.ChunkSize < 100 || c.ChunkSize > 2000 {
		return fmt.Errorf("CHUNK_SIZE must be between 100 and 2000, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_OVERLAP must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be less than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopKChunks < 1 || c.TopKChunks > 20 {
		return fmt.Errorf("TOP_K_CHUNKS must be between 1 and 20, got %d", c.TopKChunks)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be between 0 and 1, got %g", c.SimilarityThreshold)
	}
	if c.ConfidenceLowThreshold >= c.ConfidenceMediumThreshold {
		return fmt.Errorf("CONFIDENCE_LOW_THRESHOLD (%g) must be less than CONFIDENCE_MEDIUM_THRESHOLD (%g)",
			c.ConfidenceLowThreshold, c.ConfidenceMediumThreshold)
	}
	if c.EmbeddingVectorSize <= 0 {
		return fmt.Errorf("EMBEDDING_VECTOR_SIZE must be greater than 0, got %d", c.EmbeddingVectorSize)
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be greater than 0, got %d", c.MaxFileSizeMB)
	}
	switch c.VectorStore {
	case "memory", "qdrant":
	default:
		return fmt.Errorf("VECTOR_STORE must be \"memory\" or \"qdrant\", got %q", c.VectorStore)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return parsed, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
