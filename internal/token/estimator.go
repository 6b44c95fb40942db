// Package token approximates language-model token counts for budget checks.
package token

// charsPerToken is the heuristic ratio used when no exact tokenizer is
// configured. Roughly four characters per token holds for code and English
// prose alike, which is all the chunker needs.
const charsPerToken = 4

// Tokenizer counts exact tokens for a specific model vocabulary.
type Tokenizer interface {
	CountTokens(text string) (int, error)
}

// Estimator returns approximate token counts. The zero value is usable and
// falls back to the character heuristic, which never fails.
type Estimator struct {
	tok Tokenizer
}

// NewEstimator returns an estimator backed by tok when non-nil, with the
// heuristic as circuit breaker for tokenizer errors.
func NewEstimator(tok Tokenizer) *Estimator {
	return &Estimator{tok: tok}
}

// Estimate returns an approximate token count for text, always >= 0.
func (e *Estimator) Estimate(text string) int {
	if e != nil && e.tok != nil {
		if n, err := e.tok.CountTokens(text); err == nil && n >= 0 {
			return n
		}
	}
	return Approximate(text)
}

// Approximate is the heuristic fallback: ceil(len/4). It never fails.
func Approximate(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}
