package chunker

import "strings"

// EstimateTokens gives a rough token count (~1.33 tokens per word).
// It is only used for logging how large a chunk is for the model.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
