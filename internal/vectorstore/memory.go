package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"docintel/internal/chunker"
	"docintel/internal/contextutil"
	"docintel/internal/service"
)

// documentIndex is an immutable snapshot: normalized vectors paired with the
// chunk list. Once published into the registry it is never mutated, so
// queries can read it without holding the registry lock.
type documentIndex struct {
	vectors   [][]float32
	chunks    []chunker.Chunk
	dimension int
}

// MemoryStore is an in-process VectorStore doing exact brute-force cosine
// search. Chunk counts per document are small (tens to low thousands), so a
// full scan is cheap and keeps ranking deterministic.
type MemoryStore struct {
	mu      sync.RWMutex
	indices map[string]*documentIndex
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		indices: make(map[string]*documentIndex),
	}
}

// BuildIndex normalizes the embeddings into a fresh snapshot and swaps it
// into the registry under the write lock. Builds for different documents only
// contend on the brief map swap; the expensive normalization happens outside
// the lock.
func (s *MemoryStore) BuildIndex(ctx context.Context, documentID string, chunks []chunker.Chunk, embeddings [][]float32) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return service.WrapError(service.ErrInvalidInput, "cannot build index without chunks")
	}
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%d chunks but %d embeddings: %w", len(chunks), len(embeddings), service.ErrInvalidInput)
	}

	dimension := len(embeddings[0])
	if dimension == 0 {
		return service.WrapError(service.ErrInvalidInput, "embeddings must not be empty")
	}

	vectors := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		if len(emb) != dimension {
			return fmt.Errorf("embedding %d has dimension %d, expected %d: %w", i, len(emb), dimension, service.ErrInvalidInput)
		}
		vectors[i] = normalized(emb)
	}

	index := &documentIndex{
		vectors:   vectors,
		chunks:    append([]chunker.Chunk(nil), chunks...),
		dimension: dimension,
	}

	s.mu.Lock()
	s.indices[documentID] = index
	s.mu.Unlock()

	logger.InfoContext(ctx, "index built", "document_id", documentID, "chunks", len(chunks), "dimension", dimension)
	return nil
}

// Query scans the document's snapshot and returns the top results by
// descending similarity, ascending chunk index on ties.
func (s *MemoryStore) Query(ctx context.Context, documentID string, queryEmbedding []float32, topK int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		return nil, service.WrapError(service.ErrInvalidInput, "topK must be greater than 0")
	}

	s.mu.RLock()
	index, ok := s.indices[documentID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no index for document %s: %w", documentID, service.ErrNotFound)
	}

	if len(queryEmbedding) != index.dimension {
		return nil, fmt.Errorf("query has dimension %d, index has %d: %w", len(queryEmbedding), index.dimension, service.ErrInvalidInput)
	}

	query := normalized(queryEmbedding)

	results := make([]SearchResult, len(index.vectors))
	for i, vec := range index.vectors {
		results[i] = SearchResult{
			ChunkIndex: index.chunks[i].Index,
			Text:       index.chunks[i].Text,
			Similarity: dot(vec, query),
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ChunkIndex < results[j].ChunkIndex
	})

	if topK < len(results) {
		results = results[:topK]
	}

	logger.DebugContext(ctx, "query completed", "document_id", documentID, "results", len(results))
	return results, nil
}

// DeleteIndex drops the document's snapshot. Missing indexes are ignored.
func (s *MemoryStore) DeleteIndex(ctx context.Context, documentID string) error {
	s.mu.Lock()
	delete(s.indices, documentID)
	s.mu.Unlock()
	return nil
}

// IndexExists reports whether a snapshot is registered for the document.
func (s *MemoryStore) IndexExists(ctx context.Context, documentID string) (bool, error) {
	s.mu.RLock()
	_, ok := s.indices[documentID]
	s.mu.RUnlock()
	return ok, nil
}

// normalized returns a unit-L2-norm copy of v. Zero vectors are returned
// unchanged rather than divided by zero.
func normalized(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		copy(out, v)
		return out
	}
	inv := 1.0 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// dot computes the inner product in float64 to keep ranking stable.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
