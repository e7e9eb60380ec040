package llm

import "strings"

// Pricing is the USD price per million tokens for one model family.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// prices are keyed by model prefix so dated variants such as
// "gpt-4o-2024-08-06" resolve to their family.
var prices = map[string]Pricing{
	"claude-sonnet-4-5": {3.00, 15.00},
	"claude-haiku-4-5":  {0.80, 4.00},
	"claude-opus-4":     {15.00, 75.00},

	"gpt-4o":      {2.50, 10.00},
	"gpt-4o-mini": {0.15, 0.60},

	"gemini-2.5-flash-lite": {0.10, 0.40},
	"gemini-2.0-flash":      {0.10, 0.40},
	"gemini-1.5-flash":      {0.075, 0.30},
	"gemini-1.5-pro":        {1.25, 5.00},
}

// PriceFor returns the pricing of the longest known prefix of model.
func PriceFor(model string) (Pricing, bool) {
	var (
		best    Pricing
		bestLen int
	)
	for prefix, p := range prices {
		if len(prefix) > bestLen && strings.HasPrefix(model, prefix) {
			best, bestLen = p, len(prefix)
		}
	}
	return best, bestLen > 0
}

// EstimateCost returns the cost in USD of a call, or 0 for unpriced models
// (local Ollama models included).
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := PriceFor(model)
	if !ok {
		return 0
	}
	return float64(inputTokens)/1e6*p.InputPerMillion + float64(outputTokens)/1e6*p.OutputPerMillion
}

// UsageCost prices a completion response by the model the provider echoed,
// or by the requested model when the echo is missing or unpriced.
func UsageCost(requested string, resp *CompletionResponse) float64 {
	if resp == nil {
		return 0
	}
	model := resp.Model
	if _, ok := PriceFor(model); !ok {
		model = requested
	}
	return EstimateCost(model, resp.InputTokens, resp.OutputTokens)
}

// EstimateTokens approximates a token count at four characters per token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(len(text)/4, 1)
}
