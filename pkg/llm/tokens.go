package llm

import "unicode/utf8"

// EstimateTokens approximates a token count as one token per four
// characters, never less than one. Characters are Unicode code points.
func EstimateTokens(text string) int {
	return max(1, utf8.RuneCountInString(text)/4)
}

// TokenCount is an input/output token pair. Protocol usage objects are built
// from it so the total is always the sum of its parts.
type TokenCount struct {
	Input  int
	Output int
}

// CountTokens estimates both sides of an exchange.
func CountTokens(input, output string) TokenCount {
	return TokenCount{
		Input:  EstimateTokens(input),
		Output: EstimateTokens(output),
	}
}

// Total is Input + Output.
func (c TokenCount) Total() int {
	return c.Input + c.Output
}
