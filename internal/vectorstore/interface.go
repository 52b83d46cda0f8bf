package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docintel/internal/vectorstore VectorStore

import (
	"context"

	"docintel/internal/chunker"
)

// SearchResult is one ranked retrieval hit: the chunk's citation index, its
// text, and the cosine similarity to the query in [-1, 1].
type SearchResult struct {
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

// VectorStore is a per-document nearest-neighbor store over chunk embeddings.
// Indexes are built once at ingestion and read many times at ask-time; there
// is no incremental insert or delete of individual chunks. Rebuilding a
// document replaces its index atomically: a concurrent query never observes a
// half-written index.
type VectorStore interface {
	// BuildIndex stores the chunk list and embeddings for a document,
	// replacing any prior index for the same identifier. Requires
	// len(chunks) == len(embeddings) with at least one pair; embeddings are
	// L2-normalized so cosine similarity reduces to an inner product.
	BuildIndex(ctx context.Context, documentID string, chunks []chunker.Chunk, embeddings [][]float32) error

	// Query returns the top min(topK, chunk count) chunks by descending
	// cosine similarity to the query embedding, ties broken by ascending
	// chunk index. Fails with ErrNotFound when no index exists for the
	// document.
	Query(ctx context.Context, documentID string, queryEmbedding []float32, topK int) ([]SearchResult, error)

	// DeleteIndex removes the document's index. Deleting a missing index is
	// not an error.
	DeleteIndex(ctx context.Context, documentID string) error

	// IndexExists reports whether an index has been built for the document.
	IndexExists(ctx context.Context, documentID string) (bool, error)
}
