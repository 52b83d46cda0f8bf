package vectorstore

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"docintel/internal/chunker"
	"docintel/internal/service"
)

func testChunks(texts ...string) []chunker.Chunk {
	chunks := make([]chunker.Chunk, len(texts))
	pos := 0
	for i, text := range texts {
		chunks[i] = chunker.Chunk{Index: i, Text: text, CharStart: pos, CharEnd: pos + len(text)}
		pos += len(text)
	}
	return chunks
}

func TestMemoryStore_BuildAndQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	chunks := testChunks("pickup at dawn", "rate is 1500", "unrelated text")
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	if err := store.BuildIndex(ctx, "doc1", chunks, embeddings); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	results, err := store.Query(ctx, "doc1", []float32{0, 2, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Query() returned %d results, want 2", len(results))
	}
	if results[0].ChunkIndex != 1 {
		t.Errorf("top result chunk index = %d, want 1", results[0].ChunkIndex)
	}
	if results[0].Text != "rate is 1500" {
		t.Errorf("top result text = %q, want chunk 1 text", results[0].Text)
	}
	if math.Abs(results[0].Similarity-1.0) > 1e-6 {
		t.Errorf("top result similarity = %g, want 1.0", results[0].Similarity)
	}
}

func TestMemoryStore_QueryNormalizesInputs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Un-normalized build vectors: similarity must still be cosine.
	if err := store.BuildIndex(ctx, "doc1", testChunks("a", "b"), [][]float32{{3, 0}, {0, 5}}); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	results, err := store.Query(ctx, "doc1", []float32{10, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if math.Abs(results[0].Similarity-1.0) > 1e-6 {
		t.Errorf("similarity = %g, want 1.0 after normalization", results[0].Similarity)
	}
	if math.Abs(results[1].Similarity) > 1e-6 {
		t.Errorf("orthogonal similarity = %g, want 0.0", results[1].Similarity)
	}
}

func TestMemoryStore_TieBrokenByAscendingChunkIndex(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Chunks 2 and 0 have identical vectors; both tie at similarity 1.
	embeddings := [][]float32{
		{1, 0},
		{0, 1},
		{1, 0},
	}
	if err := store.BuildIndex(ctx, "doc1", testChunks("first", "other", "dup"), embeddings); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	results, err := store.Query(ctx, "doc1", []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if results[0].ChunkIndex != 0 || results[1].ChunkIndex != 2 {
		t.Errorf("tie order = [%d, %d], want [0, 2]", results[0].ChunkIndex, results[1].ChunkIndex)
	}
}

func TestMemoryStore_TopKCappedAtChunkCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.BuildIndex(ctx, "doc1", testChunks("only"), [][]float32{{1, 0}}); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	results, err := store.Query(ctx, "doc1", []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Query() returned %d results, want 1", len(results))
	}
}

func TestMemoryStore_QueryUnknownDocument(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Query(context.Background(), "missing", []float32{1, 0}, 5)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Query() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_BuildValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	tests := []struct {
		name       string
		chunks     []chunker.Chunk
		embeddings [][]float32
	}{
		{"no chunks", nil, nil},
		{"count mismatch", testChunks("a", "b"), [][]float32{{1, 0}}},
		{"dimension mismatch", testChunks("a", "b"), [][]float32{{1, 0}, {1, 0, 0}}},
		{"empty embedding", testChunks("a"), [][]float32{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.BuildIndex(ctx, "doc1", tt.chunks, tt.embeddings)
			if !errors.Is(err, service.ErrInvalidInput) {
				t.Errorf("BuildIndex() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestMemoryStore_QueryDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.BuildIndex(ctx, "doc1", testChunks("a"), [][]float32{{1, 0, 0}}); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	_, err := store.Query(ctx, "doc1", []float32{1, 0}, 1)
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Query() error = %v, want ErrInvalidInput", err)
	}
}

func TestMemoryStore_RebuildReplacesIndex(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.BuildIndex(ctx, "doc1", testChunks("old a", "old b"), [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	if err := store.BuildIndex(ctx, "doc1", testChunks("new"), [][]float32{{1, 0}}); err != nil {
		t.Fatalf("BuildIndex() rebuild error = %v", err)
	}

	results, err := store.Query(ctx, "doc1", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 1 || results[0].Text != "new" {
		t.Errorf("Query() after rebuild = %+v, want single chunk from new index", results)
	}
}

func TestMemoryStore_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.BuildIndex(ctx, "doc1", testChunks("a"), [][]float32{{1}}); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	exists, err := store.IndexExists(ctx, "doc1")
	if err != nil || !exists {
		t.Errorf("IndexExists() = %v, %v, want true, nil", exists, err)
	}

	if err := store.DeleteIndex(ctx, "doc1"); err != nil {
		t.Fatalf("DeleteIndex() error = %v", err)
	}
	exists, _ = store.IndexExists(ctx, "doc1")
	if exists {
		t.Error("IndexExists() = true after delete")
	}

	// Deleting a missing index is not an error.
	if err := store.DeleteIndex(ctx, "doc1"); err != nil {
		t.Errorf("DeleteIndex() on missing index error = %v", err)
	}
}

func TestMemoryStore_ConcurrentRebuildAndQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	small := testChunks("a")
	smallVecs := [][]float32{{1, 0}}
	large := testChunks("a", "b", "c")
	largeVecs := [][]float32{{1, 0}, {0, 1}, {1, 1}}

	if err := store.BuildIndex(ctx, "doc1", small, smallVecs); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if w%2 == 0 {
					chunks, vecs := small, smallVecs
					if i%2 == 0 {
						chunks, vecs = large, largeVecs
					}
					if err := store.BuildIndex(ctx, "doc1", chunks, vecs); err != nil {
						t.Errorf("BuildIndex() error = %v", err)
						return
					}
				} else {
					results, err := store.Query(ctx, "doc1", []float32{1, 0}, 10)
					if err != nil {
						t.Errorf("Query() error = %v", err)
						return
					}
					// A query sees either snapshot whole, never a partial mix.
					if len(results) != 1 && len(results) != 3 {
						t.Errorf("Query() saw %d results, want 1 or 3", len(results))
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
}
