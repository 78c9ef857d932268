// ABOUTME: End-to-end retrieval: generate, rank, and compress in one call
// ABOUTME: The single entry point the MCP surface and CLI use for context assembly
package retrieval

import (
	"context"
	"fmt"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
)

// Options tunes one retrieval call
type Options struct {
	// TokenBudget caps the combined size of returned snippets; 0 uses the default
	TokenBudget int
	// Focus boosts candidates matching the conversation's current focus
	Focus *models.Focus
	// Constraints are passed through to candidate generation
	Constraints Constraints
}

// Result is the outcome of one retrieval call
type Result struct {
	Snippets []Snippet        `json:"context_snippets"`
	Stats    CompressionStats `json:"retrieval_summary"`
}

// Retriever wires the generator, ranker, and compressor over one store
type Retriever struct {
	generator          *Generator
	ranker             *Ranker
	defaultTokenBudget int
}

// NewRetriever creates a retriever with the given decay rate and defaults
func NewRetriever(store *sqlite.Store, decayRate float64, maxSeedEntities, defaultTokenBudget int) *Retriever {
	if defaultTokenBudget <= 0 {
		defaultTokenBudget = 4000
	}
	return &Retriever{
		generator:          NewGenerator(store, maxSeedEntities),
		ranker:             NewRanker(decayRate),
		defaultTokenBudget: defaultTokenBudget,
	}
}

// Retrieve assembles a ranked, deduplicated, budget-fitted set of context
// snippets for a query. An empty query yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query, conversationID string, opts Options) (*Result, error) {
	budget := opts.TokenBudget
	if budget <= 0 {
		budget = r.defaultTokenBudget
	}

	candidates, err := r.generator.Generate(ctx, query, conversationID, opts.Constraints)
	if err != nil {
		return nil, fmt.Errorf("candidate generation failed: %w", err)
	}

	ranked := r.ranker.Rank(candidates, opts.Focus)
	snippets, stats := Compress(ranked, budget)
	return &Result{Snippets: snippets, Stats: stats}, nil
}
