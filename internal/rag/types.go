package rag

// Source cites one retrieved chunk that backed the answer. Text is capped at
// 300 runes with an ellipsis so responses stay readable.
type Source struct {
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

// Response is the user-facing answer payload. GuardrailReason is null when no
// guardrail fired.
type Response struct {
	Answer             string   `json:"answer"`
	Confidence         float64  `json:"confidence"`
	Sources            []Source `json:"sources"`
	GuardrailTriggered bool     `json:"guardrail_triggered"`
	GuardrailReason    *string  `json:"guardrail_reason"`
}
