// ABOUTME: Tests for token budget compression
// ABOUTME: Covers the budget law, summary preference, truncation, and the oversized edge case
package retrieval

import (
	"strings"
	"testing"
)

// rankedWithContent builds a ranked candidate whose content estimates to
// roughly the given token count (4 chars per token)
func rankedWithContent(id string, tokens int, score float64) RankedCandidate {
	return RankedCandidate{
		Candidate:  Candidate{ID: id, Kind: CandidateEntity, Content: strings.Repeat("x", tokens*4)},
		FinalScore: score,
	}
}

func TestCompress_BudgetLaw(t *testing.T) {
	// 10 candidates of ~100 tokens each, distinct descending scores, budget 500
	var ranked []RankedCandidate
	for i := 0; i < 10; i++ {
		ranked = append(ranked, rankedWithContent(string(rune('a'+i)), 100, float64(10-i)))
	}

	snippets, stats := Compress(ranked, 500)
	if len(snippets) != 5 {
		t.Fatalf("Compress() returned %d snippets, want top 5", len(snippets))
	}
	if snippets[0].ID != "a" || snippets[4].ID != "e" {
		t.Errorf("selected ids %s..%s, want a..e in rank order", snippets[0].ID, snippets[4].ID)
	}
	if stats.SnippetsAfter != 5 {
		t.Errorf("SnippetsAfter = %d, want 5", stats.SnippetsAfter)
	}
	if stats.SnippetsBefore != 10 {
		t.Errorf("SnippetsBefore = %d, want 10", stats.SnippetsBefore)
	}
	if stats.TokensOut > stats.BudgetGiven {
		t.Errorf("TokensOut %d exceeds budget %d", stats.TokensOut, stats.BudgetGiven)
	}
	if stats.BudgetRemaining < 0 {
		t.Errorf("BudgetRemaining = %d, want >= 0", stats.BudgetRemaining)
	}
}

func TestCompress_PrefersSummaryOnOverflow(t *testing.T) {
	big := rankedWithContent("big", 1000, 1.0)
	big.Summary = "A compact summary of the big entity."

	snippets, stats := Compress([]RankedCandidate{big}, 200)
	if len(snippets) != 1 {
		t.Fatalf("Compress() returned %d snippets, want 1", len(snippets))
	}
	if snippets[0].Content != big.Summary {
		t.Errorf("Content = %q, want the AI summary", snippets[0].Content)
	}
	if !snippets[0].Truncated {
		t.Error("summary substitution should be flagged as truncated")
	}
	if stats.BudgetRemaining < 0 {
		t.Errorf("BudgetRemaining = %d, want >= 0", stats.BudgetRemaining)
	}
}

func TestCompress_TruncatesWithoutSummary(t *testing.T) {
	big := rankedWithContent("big", 1000, 1.0)

	snippets, stats := Compress([]RankedCandidate{big}, 200)
	if len(snippets) != 1 {
		t.Fatalf("Compress() returned %d snippets, want 1", len(snippets))
	}
	if !strings.Contains(snippets[0].Content, "[truncated]") {
		t.Error("truncated content should carry the marker")
	}
	if stats.TokensOut > 200 {
		t.Errorf("TokensOut = %d, want within budget", stats.TokensOut)
	}
}

func TestCompress_OversizedTopCandidateStillReturned(t *testing.T) {
	// Budget below the meaningful-fragment floor: nothing fits, but a
	// non-empty candidate set must never compress to zero snippets
	big := rankedWithContent("big", 1000, 1.0)

	snippets, stats := Compress([]RankedCandidate{big}, 5)
	if len(snippets) != 1 {
		t.Fatalf("Compress() returned %d snippets, want exactly 1", len(snippets))
	}
	if stats.BudgetRemaining >= 0 {
		t.Errorf("BudgetRemaining = %d, want negative in the oversized edge case", stats.BudgetRemaining)
	}
}

func TestCompress_DropsMeaninglessFragments(t *testing.T) {
	// First candidate fills the budget; the second cannot fit meaningfully
	ranked := []RankedCandidate{
		rankedWithContent("first", 100, 2.0),
		rankedWithContent("second", 100, 1.0),
	}

	snippets, _ := Compress(ranked, 105)
	if len(snippets) != 1 {
		t.Fatalf("Compress() returned %d snippets, want 1 (second dropped)", len(snippets))
	}
	if snippets[0].ID != "first" {
		t.Errorf("kept snippet = %s, want first", snippets[0].ID)
	}
}

func TestCompress_EmptyInput(t *testing.T) {
	snippets, stats := Compress(nil, 100)
	if len(snippets) != 0 {
		t.Errorf("Compress(nil) = %v, want empty", snippets)
	}
	if stats.BudgetRemaining != 100 {
		t.Errorf("BudgetRemaining = %d, want full budget", stats.BudgetRemaining)
	}
}
