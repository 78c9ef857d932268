// ABOUTME: CodeRelationship is a directed, typed edge between code entities
// ABOUTME: Target may be unresolved (symbol name only) for cross-file references
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// RelationshipType classifies an edge in the code relationship graph
type RelationshipType string

const (
	RelCalls        RelationshipType = "calls"
	RelExtends      RelationshipType = "extends"
	RelImplements   RelationshipType = "implements"
	RelImports      RelationshipType = "imports"
	RelReferences   RelationshipType = "references"
	RelDefinesChild RelationshipType = "defines_child"
)

// RelationshipDirection indicates traversal direction from a seed entity
type RelationshipDirection string

const (
	DirectionOutgoing RelationshipDirection = "outgoing"
	DirectionIncoming RelationshipDirection = "incoming"
)

// CodeRelationship is a directed edge between a source entity and either a
// resolved target entity or an unresolved target symbol name.
// Duplicates across (source, symbol, type) are possible; readers must tolerate them.
type CodeRelationship struct {
	ID               int64                 `json:"id"`
	SourceEntityID   string                `json:"source_entity_id"`
	TargetEntityID   string                `json:"target_entity_id,omitempty"`
	TargetSymbolName string                `json:"target_symbol_name,omitempty"`
	Type             RelationshipType      `json:"type"`
	Weight           float64               `json:"weight"`
	Metadata         *RelationshipMetadata `json:"metadata,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// MetadataKind discriminates the known relationship metadata shapes
type MetadataKind string

const (
	MetadataCallSite MetadataKind = "call_site"
	MetadataImport   MetadataKind = "import"
	MetadataGeneric  MetadataKind = "generic"
)

// RelationshipMetadata is a tagged union over the known metadata shapes.
// Exactly one of the shape fields is populated, selected by Kind.
// It is serialized to JSON only at the storage boundary.
type RelationshipMetadata struct {
	Kind     MetadataKind      `json:"kind"`
	CallSite *CallSiteMetadata `json:"call_site,omitempty"`
	Import   *ImportMetadata   `json:"import,omitempty"`
	Note     string            `json:"note,omitempty"`
}

// CallSiteMetadata records where a call occurs in the source entity
type CallSiteMetadata struct {
	Line         int    `json:"line"`
	ArgumentText string `json:"argument_text,omitempty"`
}

// ImportMetadata records the imported path and alias
type ImportMetadata struct {
	Path  string `json:"path"`
	Alias string `json:"alias,omitempty"`
}

// EncodeMetadata serializes metadata to its storage representation.
// A nil metadata encodes to the empty string.
func EncodeMetadata(m *RelationshipMetadata) (string, error) {
	if m == nil {
		return "", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode relationship metadata: %w", err)
	}
	return string(data), nil
}

// DecodeMetadata parses the storage representation back into a tagged union.
// Empty input decodes to nil; unknown kinds are preserved as generic.
func DecodeMetadata(raw string) (*RelationshipMetadata, error) {
	if raw == "" {
		return nil, nil
	}
	var m RelationshipMetadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("failed to decode relationship metadata: %w", err)
	}
	if m.Kind == "" {
		m.Kind = MetadataGeneric
	}
	return &m, nil
}
