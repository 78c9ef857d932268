// ABOUTME: Tolerant parser for enrichment completions
// ABOUTME: JSON-first with a labeled-section fallback for models that add prose
package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

type enrichmentPayload struct {
	Summary  string            `json:"summary"`
	Keywords []WeightedKeyword `json:"keywords"`
}

// ParseEnrichmentResponse extracts a summary and keywords from raw model output.
// It tries strict JSON, then a JSON object embedded in surrounding prose, then
// a labeled "Summary:" / "Keywords:" section format.
func ParseEnrichmentResponse(raw string) (*EnrichmentResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}

	if result, ok := parseJSON(trimmed); ok {
		return result, nil
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			if result, ok := parseJSON(trimmed[start : end+1]); ok {
				return result, nil
			}
		}
	}
	if result, ok := parseLabeled(trimmed); ok {
		return result, nil
	}
	return nil, fmt.Errorf("response matched no known format")
}

func parseJSON(s string) (*EnrichmentResult, bool) {
	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return nil, false
	}
	if payload.Summary == "" {
		return nil, false
	}
	return &EnrichmentResult{
		Summary:  strings.TrimSpace(payload.Summary),
		Keywords: normalizeKeywords(payload.Keywords),
	}, true
}

// parseLabeled handles responses like:
//
//	Summary: does a thing
//	Keywords: alpha (0.9), beta, gamma (0.4)
func parseLabeled(s string) (*EnrichmentResult, bool) {
	var summary string
	var keywords []WeightedKeyword

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "summary:"):
			summary = strings.TrimSpace(line[len("summary:"):])
		case strings.HasPrefix(lower, "keywords:"):
			for _, part := range strings.Split(line[len("keywords:"):], ",") {
				kw := parseKeywordTerm(part)
				if kw.Keyword != "" {
					keywords = append(keywords, kw)
				}
			}
		}
	}
	if summary == "" {
		return nil, false
	}
	return &EnrichmentResult{Summary: summary, Keywords: normalizeKeywords(keywords)}, true
}

// parseKeywordTerm parses "alpha (0.9)" or a bare "alpha", defaulting the weight to 1.0
func parseKeywordTerm(part string) WeightedKeyword {
	part = strings.TrimSpace(part)
	weight := 1.0
	if open := strings.LastIndex(part, "("); open >= 0 && strings.HasSuffix(part, ")") {
		var w float64
		if _, err := fmt.Sscanf(part[open+1:len(part)-1], "%f", &w); err == nil {
			weight = w
			part = strings.TrimSpace(part[:open])
		}
	}
	return WeightedKeyword{Keyword: strings.ToLower(part), Weight: weight}
}

// normalizeKeywords lowercases terms, clamps weights into (0, 1], and drops empties
func normalizeKeywords(in []WeightedKeyword) []WeightedKeyword {
	out := make([]WeightedKeyword, 0, len(in))
	for _, kw := range in {
		term := strings.ToLower(strings.TrimSpace(kw.Keyword))
		if term == "" {
			continue
		}
		weight := kw.Weight
		if weight <= 0 || weight > 1 {
			weight = 1.0
		}
		out = append(out, WeightedKeyword{Keyword: term, Weight: weight})
	}
	return out
}
