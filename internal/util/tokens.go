// ABOUTME: Token estimation for budget accounting during context assembly
// ABOUTME: Uses the rough 4-characters-per-token heuristic shared across the codebase
package util

// EstimateTokens approximates the token count of text as len/4, minimum 1
// for non-empty input. All budget accounting uses this same heuristic so
// compression decisions stay consistent.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := len(text) / 4
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
