// Package chunker packs ordered file records into token-bounded chunks.
package chunker

import (
	"fmt"
	"strings"

	"repodocs/internal/models"
	"repodocs/internal/token"
)

// DefaultBudget is the standard per-chunk token budget.
const DefaultBudget = 12000

// DeepBudget is the larger budget used for "deep" generation mode.
const DeepBudget = 24000

// Chunker accumulates formatted file blocks until the estimated token total
// would exceed the budget, then starts a new chunk. Files are never split:
// a single block over the budget still becomes (or extends) a chunk and is
// passed downstream as-is, since the budget is advisory.
type Chunker struct {
	est    *token.Estimator
	budget int
}

// New returns a chunker with the given estimator and budget. A nil estimator
// or non-positive budget falls back to the heuristic and DefaultBudget.
func New(est *token.Estimator, budget int) *Chunker {
	if est == nil {
		est = token.NewEstimator(nil)
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Chunker{est: est, budget: budget}
}

// FormatBlock renders one file as a path-headed block. Concatenating blocks
// in order reproduces the corpus modulo these headers.
func FormatBlock(rec models.FileRecord) string {
	return fmt.Sprintf("=== File: %s ===\n%s\n", rec.Path, rec.Content)
}

// Chunk packs records, in the order received, into chunks whose estimated
// size stays at or under the budget wherever possible. Output is a pure
// function of input order and budget. Never returns an empty chunk.
func (c *Chunker) Chunk(records []models.FileRecord) []models.Chunk {
	var chunks []models.Chunk
	var acc strings.Builder

	flush := func() {
		if acc.Len() == 0 {
			return
		}
		text := acc.String()
		chunks = append(chunks, models.Chunk{
			Index:  len(chunks),
			Text:   text,
			Tokens: c.est.Estimate(text),
		})
		acc.Reset()
	}

	for _, rec := range records {
		block := FormatBlock(rec)
		if acc.Len() > 0 && c.est.Estimate(acc.String()+block) > c.budget {
			flush()
		}
		acc.WriteString(block)
	}
	flush()
	return chunks
}
