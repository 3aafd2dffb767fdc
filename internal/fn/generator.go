package fn

import "context"

// Usage reports the token counts of one model call, for cost attribution.
type Usage struct {
	PromptTokens int32
	OutputTokens int32
}

// Gemini 2.0 Flash list pricing, USD per token.
const (
	promptTokenRate = 0.10 / 1_000_000
	outputTokenRate = 0.40 / 1_000_000
)

// Cost estimates the monetary cost of the call.
func (u *Usage) Cost() float64 {
	if u == nil {
		return 0
	}
	return float64(u.PromptTokens)*promptTokenRate + float64(u.OutputTokens)*outputTokenRate
}

// Generator is the model the function fronts. The handler depends on this
// interface so tests can fake the upstream.
type Generator interface {
	// ExtractFromFile asks the model for invoice-shaped JSON from a binary
	// document payload.
	ExtractFromFile(ctx context.Context, data []byte, mimeType string) ([]byte, *Usage, error)
	// ExtractFromText does the same from pre-extracted text.
	ExtractFromText(ctx context.Context, text string) ([]byte, *Usage, error)
	// Answer returns a free-text response to a prompt.
	Answer(ctx context.Context, prompt string) (string, error)
}
