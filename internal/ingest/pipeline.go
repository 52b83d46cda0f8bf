// Package ingest orchestrates document ingestion: parse the upload, chunk
// the text, embed the chunks, build the document's vector index and record
// the metadata row. A document is only queryable once every step succeeded.
package ingest

import (
	"context"

	"docintel/internal/chunker"
	"docintel/internal/contextutil"
	"docintel/internal/docparse"
	"docintel/internal/service"
	"docintel/internal/storage"
	"docintel/internal/vectorstore"
)

// Embedder produces one vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline wires parsing, chunking, embedding and storage together.
type Pipeline struct {
	parser      *docparse.Parser
	docRepo     storage.DocumentStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	chunkSize   int
	overlap     int
}

// NewPipeline creates an ingestion pipeline with the given chunking
// parameters.
func NewPipeline(
	parser *docparse.Parser,
	docRepo storage.DocumentStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	chunkSize, overlap int,
) *Pipeline {
	return &Pipeline{
		parser:      parser,
		docRepo:     docRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		chunkSize:   chunkSize,
		overlap:     overlap,
	}
}

// Result summarizes a completed ingestion.
type Result struct {
	DocumentID    string
	Filename      string
	ChunksCreated int
}

// Ingest processes one uploaded document end to end. filePath is where the
// raw upload was saved; data is its content. On any failure the document is
// not registered and the identifier stays unknown to ask-time queries.
func (p *Pipeline) Ingest(ctx context.Context, documentID, filename, filePath string, data []byte) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	fullText, err := p.parser.Parse(filename, data)
	if err != nil {
		return nil, err
	}

	chunks, err := chunker.Split(fullText, p.chunkSize, p.overlap)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, service.WrapError(service.ErrInvalidInput, "document produced no chunks")
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, service.WrapError(err, "failed to embed chunks")
	}

	if err := p.vectorStore.BuildIndex(ctx, documentID, chunks, embeddings); err != nil {
		return nil, service.WrapError(err, "failed to build index")
	}

	doc := &storage.Document{
		DocumentID:    documentID,
		Filename:      filename,
		FilePath:      filePath,
		FullText:      fullText,
		ChunkCount:    len(chunks),
		FileSizeBytes: int64(len(data)),
	}
	if err := p.docRepo.Save(ctx, doc); err != nil {
		// The index exists but the document was never registered; drop the
		// index so ask-time state stays consistent.
		if delErr := p.vectorStore.DeleteIndex(ctx, documentID); delErr != nil {
			logger.ErrorContext(ctx, "failed to roll back index", "document_id", documentID, "error", delErr)
		}
		return nil, service.WrapError(err, "failed to save document")
	}

	logger.InfoContext(ctx, "document ingested",
		"document_id", documentID,
		"filename", filename,
		"chunks", len(chunks),
		"bytes", len(data))

	return &Result{
		DocumentID:    documentID,
		Filename:      filename,
		ChunksCreated: len(chunks),
	}, nil
}
