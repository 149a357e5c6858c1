package llm

// ModelCost holds USD pricing per million tokens for a model.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter ids carry a vendor prefix ("anthropic/claude-sonnet-4");
// those are looked up as-is first and then without the prefix.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	for i := 0; i < len(modelID); i++ {
		if modelID[i] == '/' {
			if c, ok := modelCosts[modelID[i+1:]]; ok {
				return &c
			}
			break
		}
	}
	return nil
}

var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-haiku-4-5":          {1, 5},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4":           {3, 15},
	"claude-sonnet-4-0":         {3, 15},
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-sonnet-4-5":         {3, 15},
	"claude-opus-4-1":           {15, 75},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},

	// Google
	"gemini-2.0-flash": {0.1, 0.4},
	"gemini-2.0-pro":   {1.25, 10},
	"gemini-2.5-flash": {0.3, 2.5},
	"gemini-2.5-pro":   {1.25, 10},
}
