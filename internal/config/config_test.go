package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "documents.db"))
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 100 {
		t.Errorf("ChunkOverlap = %d, want 100", cfg.ChunkOverlap)
	}
	if cfg.TopKChunks != 5 {
		t.Errorf("TopKChunks = %d, want 5", cfg.TopKChunks)
	}
	if cfg.SimilarityThreshold != 0.25 {
		t.Errorf("SimilarityThreshold = %g, want 0.25", cfg.SimilarityThreshold)
	}
	if cfg.ConfidenceLowThreshold != 0.4 {
		t.Errorf("ConfidenceLowThreshold = %g, want 0.4", cfg.ConfidenceLowThreshold)
	}
	if cfg.ConfidenceMediumThreshold != 0.7 {
		t.Errorf("ConfidenceMediumThreshold = %g, want 0.7", cfg.ConfidenceMediumThreshold)
	}
	if cfg.VectorStore != "memory" {
		t.Errorf("VectorStore = %q, want memory", cfg.VectorStore)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CHUNK_SIZE", "800")
	t.Setenv("CHUNK_OVERLAP", "200")
	t.Setenv("SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("VECTOR_STORE", "qdrant")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChunkSize != 800 {
		t.Errorf("ChunkSize = %d, want 800", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 200 {
		t.Errorf("ChunkOverlap = %d, want 200", cfg.ChunkOverlap)
	}
	if cfg.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold = %g, want 0.5", cfg.SimilarityThreshold)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.VectorStore != "qdrant" {
		t.Errorf("VectorStore = %q, want qdrant", cfg.VectorStore)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "overlap not less than chunk size",
			env:  map[string]string{"CHUNK_SIZE": "200", "CHUNK_OVERLAP": "200"},
		},
		{
			name: "chunk size too small",
			env:  map[string]string{"CHUNK_SIZE": "50"},
		},
		{
			name: "top k out of range",
			env:  map[string]string{"TOP_K_CHUNKS": "0"},
		},
		{
			name: "similarity threshold above one",
			env:  map[string]string{"SIMILARITY_THRESHOLD": "1.5"},
		},
		{
			name: "low threshold not below medium",
			env:  map[string]string{"CONFIDENCE_LOW_THRESHOLD": "0.7", "CONFIDENCE_MEDIUM_THRESHOLD": "0.7"},
		},
		{
			name: "unknown vector store backend",
			env:  map[string]string{"VECTOR_STORE": "faiss"},
		},
		{
			name: "non-numeric chunk size",
			env:  map[string]string{"CHUNK_SIZE": "lots"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
