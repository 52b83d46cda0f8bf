package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"docintel/internal/chunker"
	"docintel/internal/contextutil"
	"docintel/internal/service"
)

// QdrantStore implements VectorStore against a Qdrant instance. All documents
// share one collection; each point carries a document_id payload used for
// filtering, so a document's index is the set of points matching its
// identifier. This backend is opt-in: unlike MemoryStore, result ordering on
// similarity ties is decided by the server, not by ascending chunk index.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore creates a Qdrant-backed vector store. urlStr should be in
// the form "http://host:port" with the HTTP port; the gRPC port is derived
// from it (HTTP port + 1).
func NewQdrantStore(urlStr, collection string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
	}, nil
}

// BuildIndex replaces the document's points: any previous points for the
// identifier are deleted before the new batch is upserted.
func (s *QdrantStore) BuildIndex(ctx context.Context, documentID string, chunks []chunker.Chunk, embeddings [][]float32) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return service.WrapError(service.ErrInvalidInput, "cannot build index without chunks")
	}
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%d chunks but %d embeddings: %w", len(chunks), len(embeddings), service.ErrInvalidInput)
	}

	if err := s.ensureCollection(ctx, len(embeddings[0])); err != nil {
		return err
	}

	if err := s.DeleteIndex(ctx, documentID); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(documentID, chunk.Index)),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"document_id": documentID,
				"chunk_index": chunk.Index,
				"text":        chunk.Text,
			}),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "document_id", documentID, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.InfoContext(ctx, "index built", "document_id", documentID, "chunks", len(points))
	return nil
}

// Query runs a filtered similarity search for the document's points.
func (s *QdrantStore) Query(ctx context.Context, documentID string, queryEmbedding []float32, topK int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		return nil, service.WrapError(service.ErrInvalidInput, "topK must be greater than 0")
	}

	exists, err := s.IndexExists(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("no index for document %s: %w", documentID, service.ErrNotFound)
	}

	limit := uint64(topK)
	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         documentFilter(documentID),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to query points", "document_id", documentID, "error", err)
		return nil, fmt.Errorf("failed to query points: %w", err)
	}

	results := make([]SearchResult, 0, len(scored))
	for _, point := range scored {
		var chunkIndex int
		var text string
		if point.Payload != nil {
			if v, ok := point.Payload["chunk_index"]; ok {
				chunkIndex = int(v.GetIntegerValue())
			}
			if v, ok := point.Payload["text"]; ok {
				text = v.GetStringValue()
			}
		}
		results = append(results, SearchResult{
			ChunkIndex: chunkIndex,
			Text:       text,
			Similarity: float64(point.Score),
		})
	}

	logger.DebugContext(ctx, "query completed", "document_id", documentID, "results", len(results))
	return results, nil
}

// DeleteIndex removes every point carrying the document's identifier.
func (s *QdrantStore) DeleteIndex(ctx context.Context, documentID string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(documentFilter(documentID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// IndexExists probes for at least one point with the document's identifier.
func (s *QdrantStore) IndexExists(ctx context.Context, documentID string) (bool, error) {
	limit := uint64(1)
	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Filter:         documentFilter(documentID),
		Limit:          &limit,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check index existence: %w", err)
	}
	return len(scored) > 0, nil
}

// ensureCollection creates the shared collection on first use and validates
// the vector size on subsequent builds.
func (s *QdrantStore) ensureCollection(ctx context.Context, vectorSize int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func documentFilter(documentID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("document_id", documentID),
		},
	}
}

// pointID derives a stable UUID for a chunk so rebuilds overwrite rather than
// accumulate points.
func pointID(documentID string, chunkIndex int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", documentID, chunkIndex))).String()
}
