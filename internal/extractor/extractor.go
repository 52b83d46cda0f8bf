// Package extractor pulls a fixed set of shipment fields out of a document
// using the chat model. Fields the document does not state come back null;
// the model is instructed not to guess.
package extractor

import (
	"context"
	"encoding/json"
	"strings"

	"docintel/internal/contextutil"
	"docintel/internal/llm"
	"docintel/internal/rag"
	"docintel/internal/service"
)

// maxInputChars caps the document text sent to the model, in runes.
const maxInputChars = 15000

// ExpectedFields lists every field an extraction result contains, in the
// order they are presented to the model.
var ExpectedFields = []string{
	"shipment_id", "shipper", "consignee",
	"pickup_datetime", "delivery_datetime",
	"equipment_type", "mode",
	"rate", "currency", "weight",
	"carrier_name",
}

const extractionPrompt = "You are a logistics document data extractor.\n\n" +
	"Extract EXACTLY these fields from the document. Use null for missing fields.\n\n" +
	"Fields:\n" +
	"- shipment_id: Shipment, load, order, or reference number\n" +
	"- shipper: Origin company/party shipping the goods\n" +
	"- consignee: Destination company/party receiving the goods\n" +
	"- pickup_datetime: Pickup date and/or time (original format)\n" +
	"- delivery_datetime: Delivery date and/or time (original format)\n" +
	"- equipment_type: Trailer type (e.g., Dry Van, Reefer, Flatbed)\n" +
	"- mode: Transport mode (e.g., FTL, LTL, Intermodal)\n" +
	"- rate: Total rate/cost (number only, no currency symbol)\n" +
	"- currency: Currency code (e.g., USD, CAD)\n" +
	"- weight: Total weight with unit if mentioned\n" +
	"- carrier_name: Carrier/trucking company name\n\n" +
	"RULES:\n" +
	"1. Return ONLY valid JSON. No markdown, no explanation.\n" +
	"2. Use null for fields not found. Do not guess.\n" +
	"3. Extract exactly what the document says."

// Extractor runs structured field extraction over full document text.
type Extractor struct {
	generator rag.Generator
}

// NewExtractor creates an extractor backed by the given chat generator.
func NewExtractor(generator rag.Generator) *Extractor {
	return &Extractor{generator: generator}
}

// Extract sends the document text to the model and returns one value per
// expected field. Blank or missing fields are null. Model responses that are
// not parseable JSON yield an all-null result rather than an error; a field
// sheet with nothing recognized is a valid outcome.
func (e *Extractor) Extract(ctx context.Context, fullText string) (map[string]any, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(fullText) == "" {
		return nil, service.WrapError(service.ErrInvalidInput, "document text is empty")
	}

	truncated := fullText
	if runes := []rune(fullText); len(runes) > maxInputChars {
		logger.WarnContext(ctx, "truncating document for extraction", "chars", len(runes), "limit", maxInputChars)
		truncated = string(runes[:maxInputChars])
	}

	userMessage := "DOCUMENT TEXT:\n" + truncated + "\n\nExtract the structured shipment data as JSON."

	raw, err := e.generator.Generate(ctx, extractionPrompt, userMessage, llm.ChatParams{
		Temperature: 0.0,
		MaxTokens:   600,
	})
	if err != nil {
		return nil, service.WrapError(err, "extraction failed")
	}

	result := parseAndValidate(ctx, raw)

	filled := 0
	for _, v := range result {
		if v != nil {
			filled++
		}
	}
	logger.InfoContext(ctx, "extraction complete", "fields_found", filled, "fields_total", len(ExpectedFields))

	return result, nil
}

// parseAndValidate normalizes a model response into the expected field map.
// Code fences and any prose around the JSON object are stripped first.
func parseAndValidate(ctx context.Context, raw string) map[string]any {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		var kept []string
		for _, line := range strings.Split(cleaned, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		cleaned = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		cleaned = cleaned[start : end+1]
	}

	var extracted map[string]any
	if err := json.Unmarshal([]byte(cleaned), &extracted); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to parse extraction response", "error", err)
		extracted = map[string]any{}
	}

	result := make(map[string]any, len(ExpectedFields))
	for _, field := range ExpectedFields {
		value := extracted[field]
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			value = nil
		}
		result[field] = value
	}
	return result
}
