package oracle

import (
	"context"
	"fmt"
)

// Provider defines the interface for classification oracle backends.
// A provider returns the model's raw JSON text. The Adapter owns all
// validation and coercion; providers are never trusted to be in-schema.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Classify sends the report text to the model and returns its raw
	// JSON response body.
	Classify(ctx context.Context, req ClassifyRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ClassifyRequest is the input for one oracle call.
type ClassifyRequest struct {
	// Text is the normalized report text (post URL/image extraction)
	Text string

	// SourcePlatform is the platform hint passed through to the model
	SourcePlatform string
}

// Config holds oracle provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// systemPrompt is the fixed instruction describing the exact output
// fields and allowed enum values. The adapter still validates every
// field: models drift, the schema does not.
const systemPrompt = `You are a disaster intake normalization assistant.

Your ONLY task is to convert raw disaster-related input text into a STRICT JSON object.

Rules:
1. Output valid JSON ONLY - no explanations, no markdown.
2. DO NOT invent or hallucinate missing data.
3. If data is missing, use null, "unknown", or best classification with LOW confidence.
4. Detect input language; translate to English internally before classifying.
5. Infer urgency conservatively. When human safety is implied, prefer higher urgency.
6. If input is irrelevant or spam, set need_type = "unknown" and confidence < 0.3.

Urgency mapping:
- critical: trapped, bleeding, life-threatening, children/elderly in danger
- high: no food/water, medical need, stranded
- medium: assistance requested without danger
- low: informational or future need

Output schema (all fields required unless marked optional):
{
  "disaster_type": one of ["earthquake","flood","hurricane","wildfire","tsunami","tornado","landslide","drought","other","unknown"],
  "need_type": one of ["medical","food","water","shelter","rescue","evacuation","supplies","information","other","unknown"],
  "urgency": one of ["critical","high","medium","low"],
  "confidence": number between 0.0 and 1.0,
  "people_estimates": optional object with non-negative integer values for any of ["affected","displaced","dead","injured","evacuated","missing"],
  "people_affected": optional non-negative integer,
  "vulnerable_groups": optional array from ["children","elderly","disabled","pregnant","injured"],
  "location_raw_text": optional string, the location exactly as mentioned,
  "contact_info": optional string,
  "source_language": ISO 639-1 code of the input language,
  "normalized_text": one-sentence English summary of the report
}

Return ONLY the JSON object.`

// BuildUserPrompt constructs the per-report message.
func BuildUserPrompt(req ClassifyRequest) string {
	platform := req.SourcePlatform
	if platform == "" {
		platform = "unknown"
	}
	return fmt.Sprintf("Process this disaster report:\n\n%s\n\nSource platform: %s", req.Text, platform)
}
