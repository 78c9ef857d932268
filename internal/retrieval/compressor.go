// ABOUTME: Token budget compression over ranked candidates
// ABOUTME: Greedy selection with summary-preferred truncation for overflow candidates
package retrieval

import (
	"github.com/mandelbro/devcontext-local-sub001/internal/util"
)

// minFragmentTokens is the floor below which a truncated fragment carries no
// signal and the candidate is dropped instead
const minFragmentTokens = 10

const truncationMarker = "\n…[truncated]"

// Snippet is one budget-fitted piece of context returned to the caller
type Snippet struct {
	ID                  string               `json:"id"`
	Kind                CandidateKind        `json:"type"`
	Content             string               `json:"content"`
	Score               float64              `json:"score"`
	FilePath            string               `json:"file_path,omitempty"`
	Sources             []Source             `json:"sources,omitempty"`
	RelationshipContext *RelationshipContext `json:"relationship_context,omitempty"`
	Truncated           bool                 `json:"truncated,omitempty"`
}

// CompressionStats reports what compression did to the candidate set
type CompressionStats struct {
	SnippetsBefore  int `json:"snippets_found_before_compression"`
	SnippetsAfter   int `json:"snippets_returned_after_compression"`
	TokensIn        int `json:"estimated_tokens_in"`
	TokensOut       int `json:"estimated_tokens_out"`
	BudgetGiven     int `json:"token_budget_given"`
	BudgetRemaining int `json:"token_budget_remaining"`
}

// Compress greedily selects candidates in rank order until the token budget
// is spent. An overflow candidate is represented by its AI summary when one
// exists, else truncated; it is dropped only when the surviving fragment
// would be meaningless. If even the top candidate exceeds the whole budget
// its compact form is still returned alone, with negative remaining budget.
func Compress(ranked []RankedCandidate, budget int) ([]Snippet, CompressionStats) {
	stats := CompressionStats{
		SnippetsBefore: len(ranked),
		BudgetGiven:    budget,
	}

	snippets := []Snippet{}
	remaining := budget
	for _, rc := range ranked {
		content := rc.Content
		if content == "" {
			content = rc.Summary
		}
		cost := util.EstimateTokens(content)
		stats.TokensIn += cost

		truncated := false
		if cost > remaining {
			content, cost, truncated = compact(rc, remaining)
			if content == "" && len(snippets) > 0 {
				continue
			}
			if content == "" {
				// Oversized top candidate: return its most compact form
				// whatever the cost, never an empty result set
				content = compactForm(rc)
				cost = util.EstimateTokens(content)
				truncated = content != rc.Content
			}
		}

		snippets = append(snippets, Snippet{
			ID:                  rc.ID,
			Kind:                rc.Kind,
			Content:             content,
			Score:               rc.FinalScore,
			FilePath:            rc.FilePath,
			Sources:             rc.Sources,
			RelationshipContext: rc.RelationshipContext,
			Truncated:           truncated,
		})
		remaining -= cost
		stats.TokensOut += cost
	}

	stats.SnippetsAfter = len(snippets)
	stats.BudgetRemaining = remaining
	return snippets, stats
}

// compact fits a candidate into the remaining budget, preferring an existing
// AI summary over truncated raw content. Returns empty content when nothing
// meaningful fits.
func compact(rc RankedCandidate, remaining int) (string, int, bool) {
	if remaining < minFragmentTokens {
		return "", 0, false
	}
	if rc.Summary != "" {
		if cost := util.EstimateTokens(rc.Summary); cost <= remaining {
			return rc.Summary, cost, true
		}
	}
	markerTokens := util.EstimateTokens(truncationMarker)
	keepTokens := remaining - markerTokens
	if keepTokens < minFragmentTokens {
		return "", 0, false
	}
	keepChars := keepTokens * 4
	if keepChars >= len(rc.Content) {
		return rc.Content, util.EstimateTokens(rc.Content), false
	}
	content := rc.Content[:keepChars] + truncationMarker
	return content, util.EstimateTokens(content), true
}

// compactForm returns the smallest useful representation of a candidate
func compactForm(rc RankedCandidate) string {
	if rc.Summary != "" {
		return rc.Summary
	}
	if rc.Excerpt != "" {
		return rc.Excerpt
	}
	return rc.Content
}
