// ABOUTME: Intent classification from message content and changed file paths
// ABOUTME: Keyword-cue scoring over the fixed purpose tags, defaulting to general
package continuity

import (
	"strings"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// intentCues maps each purpose to the phrases that signal it.
// Scoring counts cue hits; the highest count wins, general on no hits.
var intentCues = map[models.PurposeTag][]string{
	models.PurposeDebugging: {
		"bug", "error", "panic", "crash", "fail", "broken", "fix",
		"stack trace", "nil pointer", "doesn't work", "not working",
	},
	models.PurposeFeaturePlanning: {
		"plan", "design", "architecture", "should we", "proposal",
		"roadmap", "new feature", "approach",
	},
	models.PurposeCodeReview: {
		"review", "pull request", "lgtm", "nit", "refactor this",
		"looks good", "diff",
	},
	models.PurposeLearning: {
		"how does", "what is", "what does", "explain", "understand",
		"why does", "where is",
	},
	models.PurposeCodeGeneration: {
		"implement", "write a", "add a", "create a", "generate",
		"build a", "scaffold",
	},
}

// ClassifyIntent predicts the purpose of the current conversation span from
// new message content and the paths touched by accompanying code changes.
func ClassifyIntent(contents []string, changes []models.CodeChange) models.PurposeTag {
	text := strings.ToLower(strings.Join(contents, "\n"))

	scores := make(map[models.PurposeTag]int)
	for purpose, cues := range intentCues {
		for _, cue := range cues {
			scores[purpose] += strings.Count(text, cue)
		}
	}

	// Touching test files during a debugging-scored exchange reinforces
	// debugging; changes with no textual signal lean code-generation
	touchedTests := false
	for _, change := range changes {
		if strings.HasSuffix(change.FilePath, "_test.go") || strings.Contains(change.FilePath, "/test") {
			touchedTests = true
		}
	}
	if touchedTests && scores[models.PurposeDebugging] > 0 {
		scores[models.PurposeDebugging]++
	}
	if len(changes) > 0 && total(scores) == 0 {
		return models.PurposeCodeGeneration
	}

	best := models.PurposeGeneral
	bestScore := 0
	// Fixed order keeps classification deterministic on ties
	for _, purpose := range []models.PurposeTag{
		models.PurposeDebugging,
		models.PurposeFeaturePlanning,
		models.PurposeCodeReview,
		models.PurposeLearning,
		models.PurposeCodeGeneration,
	} {
		if scores[purpose] > bestScore {
			best = purpose
			bestScore = scores[purpose]
		}
	}
	return best
}

func total(scores map[models.PurposeTag]int) int {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return sum
}
