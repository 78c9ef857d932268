// ABOUTME: Query tokenizer producing identifier-aware search terms
// ABOUTME: Splits camelCase and snake_case, drops stopwords, dedupes
package retrieval

import (
	"strings"
	"unicode"
)

// stopwords are common English and query words that carry no retrieval signal
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "can": true, "do": true, "does": true,
	"for": true, "from": true, "how": true, "i": true, "in": true, "is": true,
	"it": true, "me": true, "my": true, "of": true, "on": true, "or": true,
	"show": true, "that": true, "the": true, "this": true, "to": true,
	"was": true, "we": true, "what": true, "where": true, "which": true,
	"why": true, "with": true, "you": true,
}

// Tokenize splits a free-text query into lowercase search terms. Compound
// identifiers contribute both the whole identifier and their parts, so a
// query for "processBatch" also matches "process" and "batch". Empty input
// returns an empty slice, never nil.
func Tokenize(query string) []string {
	seen := make(map[string]bool)
	terms := []string{}

	add := func(term string) {
		term = strings.ToLower(term)
		if len(term) < 2 || stopwords[term] || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, word := range splitWords(query) {
		add(word)
		parts := splitIdentifier(word)
		if len(parts) > 1 {
			for _, part := range parts {
				add(part)
			}
		}
	}
	return terms
}

// splitWords breaks text on anything that is not part of an identifier
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// splitIdentifier breaks one identifier into its camelCase / snake_case parts
func splitIdentifier(word string) []string {
	var parts []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	runes := []rune(word)
	for i, r := range runes {
		switch {
		case r == '_':
			flush()
		case unicode.IsUpper(r):
			// Boundary at lower→Upper and at the last upper of an acronym run (HTTPServer → HTTP, Server)
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				flush()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return parts
}
