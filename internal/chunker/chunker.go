// Package chunker splits normalized document text into overlapping,
// boundary-aware segments. Chunks are the unit of retrieval: their indices
// are the citation identity used in answers, and their offsets are stable
// positions into the normalized source text.
package chunker

import (
	"strings"

	"docintel/internal/service"
)

// breakDelimiters is the fixed boundary priority order. The search tries each
// delimiter kind across the whole break window before falling through to the
// next; a lower-priority delimiter further back never beats a higher one.
var breakDelimiters = []string{"\n\n", "\n", ". ", "? ", "! ", "; "}

// breakWindowFraction bounds the boundary search to the last 30% of the
// tentative window. Keep at 0.7: chunk boundaries must stay reproducible.
const breakWindowFraction = 0.7

// Chunk is one retrievable slice of a document.
type Chunk struct {
	// Index is the zero-based ordinal, assigned in creation order. Indices
	// are sequential over emitted (non-empty) chunks with no gaps.
	Index int `json:"index"`
	// Text is the trimmed, non-empty chunk content.
	Text string `json:"text"`
	// CharStart and CharEnd are half-open byte offsets into the normalized
	// source text, recorded before trimming. CharStart < CharEnd always, and
	// chunks are produced in non-decreasing CharStart order.
	CharStart int `json:"char_start"`
	CharEnd   int `json:"char_end"`
}

// Split chunks text into overlapping segments of at most chunkSize bytes,
// preferring to cut at natural boundaries near the end of each window.
// Requires 0 <= overlap < chunkSize. The input is trimmed first; offsets are
// relative to the trimmed text. Deterministic for identical inputs.
func Split(text string, chunkSize, overlap int) ([]Chunk, error) {
	if chunkSize <= 0 {
		return nil, service.WrapError(service.ErrInvalidInput, "chunk size must be positive")
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, service.WrapError(service.ErrInvalidInput, "overlap must be non-negative and less than chunk size")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, service.WrapError(service.ErrInvalidInput, "cannot chunk empty text")
	}

	var chunks []Chunk
	start := 0

	for start < len(text) {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}

		if end < len(text) {
			if adjusted := findBreak(text, start, end); adjusted > start {
				end = adjusted
			}
		}

		content := strings.TrimSpace(text[start:end])
		if content != "" {
			chunks = append(chunks, Chunk{
				Index:     len(chunks),
				Text:      content,
				CharStart: start,
				CharEnd:   end,
			})
		}

		// Advance by end-overlap, unless that would stall the cursor (overlap
		// at least as large as the effective chunk length).
		next := end - overlap
		if next > start {
			start = next
		} else {
			start = end
		}
	}

	return chunks, nil
}

// findBreak searches the last 30% of the window [start, end) for the last
// occurrence of the highest-priority delimiter present, and returns the
// position just after it. Returns end when no delimiter is found (hard cut).
func findBreak(text string, start, end int) int {
	searchStart := start + int(float64(end-start)*breakWindowFraction)
	region := text[searchStart:end]

	for _, delim := range breakDelimiters {
		if i := strings.LastIndex(region, delim); i != -1 {
			return searchStart + i + len(delim)
		}
	}
	return end
}
