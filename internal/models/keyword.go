// ABOUTME: EntityKeyword is a weighted keyword attached to a code entity or document
// ABOUTME: Supports extracted identifiers/n-grams and AI-assigned keywords
package models

import "time"

// KeywordKind distinguishes how a keyword was produced
type KeywordKind string

const (
	KeywordIdentifier KeywordKind = "identifier"
	KeywordNGram      KeywordKind = "ngram"
	KeywordAI         KeywordKind = "ai"
)

// EntityKeyword is unique per (entity, keyword, kind)
type EntityKeyword struct {
	EntityID  string      `json:"entity_id"`
	Keyword   string      `json:"keyword"`
	Weight    float64     `json:"weight"`
	Kind      KeywordKind `json:"kind"`
	CreatedAt time.Time   `json:"created_at"`
}
