package rag

const (
	refusalMessage = "Not found in document. The available context does not " +
		"contain enough information to answer this question confidently."

	lowConfidencePrefix = "⚠️ Low confidence answer: "

	reasonBelowMinimum = "Confidence below minimum threshold"
	reasonModerate     = "Confidence is moderate — answer may be incomplete"
)

// FormatResponse classifies one confidence value against the two configured
// thresholds (low < medium) and shapes the final payload accordingly:
//
//   - confidence < low: the answer is replaced with a refusal. Sources stay
//     attached so the caller can still show what was retrieved.
//   - low <= confidence < medium: the answer is kept but visibly marked.
//   - confidence >= medium: the answer passes through untouched.
//
// A value exactly at a threshold is not below it.
func FormatResponse(confidence float64, answer string, sources []Source, lowThreshold, mediumThreshold float64) Response {
	if confidence < lowThreshold {
		reason := reasonBelowMinimum
		return Response{
			Answer:             refusalMessage,
			Confidence:         confidence,
			Sources:            sources,
			GuardrailTriggered: true,
			GuardrailReason:    &reason,
		}
	}

	resp := Response{
		Answer:     answer,
		Confidence: confidence,
		Sources:    sources,
	}
	if confidence < mediumThreshold {
		reason := reasonModerate
		resp.Answer = lowConfidencePrefix + answer
		resp.GuardrailTriggered = true
		resp.GuardrailReason = &reason
	}
	return resp
}
