// Package rag answers questions about a single document by retrieving the
// most relevant chunks, prompting the model with only that context, and
// gating the result behind similarity and confidence guardrails.
package rag

import (
	"context"
	"fmt"
	"strings"

	"docintel/internal/contextutil"
	"docintel/internal/llm"
	"docintel/internal/service"
	"docintel/internal/vectorstore"
)

const systemPrompt = "You are a precise logistics document assistant inside a Transportation Management System.\n\n" +
	"STRICT RULES:\n" +
	"1. ONLY answer using the provided document context. Never use outside knowledge.\n" +
	"2. If the answer is not in the context, respond exactly: \"Not found in document.\"\n" +
	"3. Keep answers concise and factual.\n" +
	"4. Mention which section supports your answer.\n" +
	"5. Do not guess or infer beyond what the text explicitly states.\n" +
	"6. For numbers, quote them exactly as they appear."

const (
	noEvidenceAnswer = "Not found in document. No relevant sections found for your question."
	noEvidenceReason = "No chunks passed similarity threshold"
)

// sourceTextLimit caps cited chunk text, in runes.
const sourceTextLimit = 300

// Embedder turns a question into a query vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a completion for a system + user prompt pair.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, params llm.ChatParams) (string, error)
}

// Engine answers a question against one document's index.
type Engine interface {
	Ask(ctx context.Context, documentID, question string) (Response, error)
}

// Options holds the retrieval and confidence tuning for an engine.
type Options struct {
	TopK                int
	SimilarityThreshold float64
	ConfidenceLow       float64
	ConfidenceMedium    float64
}

type ragEngine struct {
	embedder  Embedder
	generator Generator
	store     vectorstore.VectorStore
	opts      Options
}

// NewEngine wires retrieval, generation and scoring into an Engine.
func NewEngine(embedder Embedder, generator Generator, store vectorstore.VectorStore, opts Options) Engine {
	return &ragEngine{
		embedder:  embedder,
		generator: generator,
		store:     store,
		opts:      opts,
	}
}

// Ask runs the full pipeline: embed the question, query the document's index,
// filter by the similarity floor, prompt the model with the surviving chunks,
// score the answer, and classify it. When nothing passes the floor the model
// is never called and a fixed refusal comes back with zero confidence.
func (e *ragEngine) Ask(ctx context.Context, documentID, question string) (Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	queryEmbedding, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		return Response{}, service.WrapError(err, "failed to embed question")
	}

	retrieved, err := e.store.Query(ctx, documentID, queryEmbedding, e.opts.TopK)
	if err != nil {
		return Response{}, err
	}
	if len(retrieved) > 0 {
		logger.InfoContext(ctx, "chunks retrieved",
			"document_id", documentID,
			"count", len(retrieved),
			"top_similarity", retrieved[0].Similarity)
	}

	passed, filtered := ApplyRetrievalGuardrail(retrieved, e.opts.SimilarityThreshold)
	if !passed {
		logger.WarnContext(ctx, "retrieval guardrail triggered", "document_id", documentID)
		reason := noEvidenceReason
		return Response{
			Answer:             noEvidenceAnswer,
			Confidence:         0.0,
			Sources:            []Source{},
			GuardrailTriggered: true,
			GuardrailReason:    &reason,
		}, nil
	}

	answer, err := e.generator.Generate(ctx, systemPrompt, buildUserMessage(filtered, question), llm.ChatParams{
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return Response{}, service.WrapError(err, "failed to generate answer")
	}

	confidence := ComputeConfidence(filtered, answer)
	if strings.Contains(strings.ToLower(answer), refusalPhrase) {
		confidence = min(confidence, refusalConfidenceCap)
	}
	logger.InfoContext(ctx, "answer scored", "document_id", documentID, "confidence", confidence)

	sources := make([]Source, len(filtered))
	for i, r := range filtered {
		sources[i] = Source{
			ChunkIndex: r.ChunkIndex,
			Text:       truncateText(r.Text, sourceTextLimit),
			Similarity: round3(r.Similarity),
		}
	}

	return FormatResponse(confidence, answer, sources, e.opts.ConfidenceLow, e.opts.ConfidenceMedium), nil
}

func buildUserMessage(filtered []vectorstore.SearchResult, question string) string {
	parts := make([]string, len(filtered))
	for i, r := range filtered {
		parts[i] = fmt.Sprintf("[Section %d]:\n%s", r.ChunkIndex, r.Text)
	}
	context := strings.Join(parts, "\n\n---\n\n")

	return fmt.Sprintf("DOCUMENT CONTEXT:\n%s\n\nQUESTION: %s\n\n"+
		"Answer using ONLY the context above. If not found, say \"Not found in document.\"",
		context, question)
}

func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
