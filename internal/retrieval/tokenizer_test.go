// ABOUTME: Tests for identifier-aware query tokenization
// ABOUTME: Covers camelCase/snake_case splitting, stopwords, dedupe, and empty input
package retrieval

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", []string{}},
		{"only stopwords", "what is the", []string{}},
		{"plain words", "retry queue backoff", []string{"retry", "queue", "backoff"}},
		{"camelCase split", "processBatch", []string{"processbatch", "process", "batch"}},
		{"snake_case split", "fetch_pending_jobs", []string{"fetch_pending_jobs", "fetch", "pending", "jobs"}},
		{"acronym run", "HTTPServer", []string{"httpserver", "http", "server"}},
		{"dedupe", "queue Queue QUEUE", []string{"queue"}},
		{"punctuation stripped", "where does store.Save() fail?", []string{"store", "save", "fail"}},
		{"single letters dropped", "a b queue", []string{"queue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestTokenize_NeverNil(t *testing.T) {
	if got := Tokenize(""); got == nil {
		t.Error("Tokenize(\"\") = nil, want empty slice")
	}
}
