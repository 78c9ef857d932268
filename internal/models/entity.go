// ABOUTME: CodeEntity represents an indexed unit of source code with position and content
// ABOUTME: Core data structure populated by language walkers and enriched asynchronously
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityType classifies an indexed code entity
type EntityType string

const (
	EntityFile      EntityType = "file"
	EntityFunction  EntityType = "function"
	EntityClass     EntityType = "class"
	EntityMethod    EntityType = "method"
	EntityVariable  EntityType = "variable"
	EntityInterface EntityType = "interface"
	EntityComment   EntityType = "comment"
)

// EnrichmentStatus tracks the AI enrichment lifecycle of an entity or document
type EnrichmentStatus string

const (
	EnrichmentPending   EnrichmentStatus = "pending"
	EnrichmentCompleted EnrichmentStatus = "completed"
	EnrichmentFailed    EnrichmentStatus = "failed"
	EnrichmentSkipped   EnrichmentStatus = "skipped"
)

// CodeEntity represents a single indexed unit of source code
type CodeEntity struct {
	ID               string           `json:"id"`
	FilePath         string           `json:"file_path"`
	Type             EntityType       `json:"type"`
	Name             string           `json:"name"`
	StartLine        int              `json:"start_line"`
	EndLine          int              `json:"end_line"`
	StartByte        int              `json:"start_byte"`
	EndByte          int              `json:"end_byte"`
	ContentHash      string           `json:"content_hash"`
	RawContent       string           `json:"raw_content"`
	Summary          string           `json:"summary,omitempty"`
	Language         string           `json:"language,omitempty"`
	ParentEntityID   string           `json:"parent_entity_id,omitempty"`
	EnrichmentStatus EnrichmentStatus `json:"enrichment_status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewCodeEntity creates a new CodeEntity with validation and a content hash
func NewCodeEntity(filePath string, entityType EntityType, name, content string) (*CodeEntity, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.New("file path cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("entity name cannot be empty")
	}
	now := time.Now().UTC()
	return &CodeEntity{
		ID:               generateEntityID(),
		FilePath:         filePath,
		Type:             entityType,
		Name:             name,
		RawContent:       content,
		ContentHash:      HashContent(content),
		EnrichmentStatus: EnrichmentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// HashContent returns the hex-encoded SHA-256 of content
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// generateEntityID generates a unique entity identifier
func generateEntityID() string {
	return fmt.Sprintf("ent_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
