// ABOUTME: Tests for the tolerant enrichment response parser
// ABOUTME: Covers strict JSON, embedded JSON, labeled sections, and rejects
package llm

import (
	"testing"
)

func TestParseEnrichmentResponse_StrictJSON(t *testing.T) {
	raw := `{"summary": "Dispatches pending jobs to workers.", "keywords": [{"keyword": "Dispatch", "weight": 0.9}, {"keyword": "worker", "weight": 0.5}]}`

	result, err := ParseEnrichmentResponse(raw)
	if err != nil {
		t.Fatalf("ParseEnrichmentResponse() error = %v", err)
	}
	if result.Summary != "Dispatches pending jobs to workers." {
		t.Errorf("Summary = %q", result.Summary)
	}
	if len(result.Keywords) != 2 {
		t.Fatalf("Keywords = %v, want 2 entries", result.Keywords)
	}
	if result.Keywords[0].Keyword != "dispatch" {
		t.Errorf("Keyword = %q, want lowercased dispatch", result.Keywords[0].Keyword)
	}
	if result.Keywords[0].Weight != 0.9 {
		t.Errorf("Weight = %v, want 0.9", result.Keywords[0].Weight)
	}
}

func TestParseEnrichmentResponse_EmbeddedJSON(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"summary\": \"Parses config.\", \"keywords\": []}\n```"

	result, err := ParseEnrichmentResponse(raw)
	if err != nil {
		t.Fatalf("ParseEnrichmentResponse() error = %v", err)
	}
	if result.Summary != "Parses config." {
		t.Errorf("Summary = %q, want Parses config.", result.Summary)
	}
}

func TestParseEnrichmentResponse_LabeledSections(t *testing.T) {
	raw := "Summary: Manages the retry backoff schedule.\nKeywords: backoff (0.8), retry, Schedule (0.4)"

	result, err := ParseEnrichmentResponse(raw)
	if err != nil {
		t.Fatalf("ParseEnrichmentResponse() error = %v", err)
	}
	if result.Summary != "Manages the retry backoff schedule." {
		t.Errorf("Summary = %q", result.Summary)
	}
	if len(result.Keywords) != 3 {
		t.Fatalf("Keywords = %v, want 3 entries", result.Keywords)
	}
	if result.Keywords[0].Weight != 0.8 {
		t.Errorf("Weight = %v, want 0.8", result.Keywords[0].Weight)
	}
	if result.Keywords[1].Keyword != "retry" || result.Keywords[1].Weight != 1.0 {
		t.Errorf("bare keyword = %+v, want retry with weight 1.0", result.Keywords[1])
	}
	if result.Keywords[2].Keyword != "schedule" {
		t.Errorf("Keyword = %q, want lowercased schedule", result.Keywords[2].Keyword)
	}
}

func TestParseEnrichmentResponse_WeightClamping(t *testing.T) {
	raw := `{"summary": "s", "keywords": [{"keyword": "a", "weight": 7.0}, {"keyword": "b", "weight": -1}, {"keyword": "  ", "weight": 0.5}]}`

	result, err := ParseEnrichmentResponse(raw)
	if err != nil {
		t.Fatalf("ParseEnrichmentResponse() error = %v", err)
	}
	if len(result.Keywords) != 2 {
		t.Fatalf("Keywords = %v, want 2 (blank dropped)", result.Keywords)
	}
	for _, kw := range result.Keywords {
		if kw.Weight != 1.0 {
			t.Errorf("Weight = %v, want clamped to 1.0", kw.Weight)
		}
	}
}

func TestParseEnrichmentResponse_Rejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "no structure here at all", `{"keywords": []}`} {
		if _, err := ParseEnrichmentResponse(raw); err == nil {
			t.Errorf("ParseEnrichmentResponse(%q) expected error", raw)
		}
	}
}
