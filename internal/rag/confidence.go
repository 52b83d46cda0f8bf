package rag

import (
	"math"
	"strings"
	"unicode/utf8"

	"docintel/internal/vectorstore"
)

const (
	retrievalWeight = 0.40
	agreementWeight = 0.30
	coverageWeight  = 0.30

	// singleResultAgreement is the neutral agreement score used when only one
	// chunk survived the guardrail and no spread can be measured.
	singleResultAgreement = 0.5

	// refusalPhrase marks an explicit model refusal; any answer containing it
	// is capped at refusalConfidenceCap by the caller.
	refusalPhrase        = "not found in document"
	refusalConfidenceCap = 0.2
)

const coveragePunctuation = ".,;:!?\"'()[]{}"

// ComputeConfidence scores how much an answer can be trusted, in [0, 1].
// It blends three signals: how similar the retrieved chunks were to the
// question, how tightly their similarities cluster, and what fraction of the
// answer's significant words literally appear in the retrieved text. No
// surviving chunks means no evidence, which scores exactly zero.
func ComputeConfidence(filtered []vectorstore.SearchResult, answer string) float64 {
	if len(filtered) == 0 {
		return 0.0
	}

	var sum, minSim, maxSim float64
	minSim, maxSim = filtered[0].Similarity, filtered[0].Similarity
	for _, r := range filtered {
		sum += r.Similarity
		minSim = math.Min(minSim, r.Similarity)
		maxSim = math.Max(maxSim, r.Similarity)
	}
	retrievalScore := math.Min(sum/float64(len(filtered)), 1.0)

	agreementScore := singleResultAgreement
	if len(filtered) >= 2 {
		agreementScore = 1.0 - math.Min(maxSim-minSim, 1.0)
	}

	coverageScore := answerCoverage(answer, filtered)

	confidence := retrievalWeight*retrievalScore +
		agreementWeight*agreementScore +
		coverageWeight*coverageScore

	return round3(confidence)
}

// answerCoverage returns the fraction of the answer's significant words
// (longer than 3 characters, stripped of surrounding punctuation) that appear
// verbatim in the retrieved chunk text. An answer with no significant words
// is vacuously fully grounded.
func answerCoverage(answer string, filtered []vectorstore.SearchResult) float64 {
	texts := make([]string, len(filtered))
	for i, r := range filtered {
		texts[i] = r.Text
	}
	sourceWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(strings.Join(texts, " "))) {
		sourceWords[w] = struct{}{}
	}

	var total, grounded int
	for _, word := range strings.Fields(answer) {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		total++
		cleaned := strings.Trim(strings.ToLower(word), coveragePunctuation)
		if _, ok := sourceWords[cleaned]; ok {
			grounded++
		}
	}

	if total == 0 {
		return 1.0
	}
	return float64(grounded) / float64(total)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
