package rag

import (
	"docintel/internal/vectorstore"
)

// ApplyRetrievalGuardrail keeps only results at or above the similarity
// threshold, preserving their order. It reports whether anything survived;
// when nothing does, generation must not run.
func ApplyRetrievalGuardrail(results []vectorstore.SearchResult, threshold float64) (bool, []vectorstore.SearchResult) {
	filtered := make([]vectorstore.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Similarity >= threshold {
			filtered = append(filtered, r)
		}
	}
	return len(filtered) > 0, filtered
}
