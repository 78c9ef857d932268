// ABOUTME: ProjectDocument represents a non-code file (markdown, text, config prose)
// ABOUTME: Shares the enrichment lifecycle with CodeEntity but is keyed by file path
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectDocument represents a non-code project file, unique per file path
type ProjectDocument struct {
	ID               string           `json:"id"`
	FilePath         string           `json:"file_path"`
	Title            string           `json:"title,omitempty"`
	ContentHash      string           `json:"content_hash"`
	RawContent       string           `json:"raw_content"`
	Summary          string           `json:"summary,omitempty"`
	EnrichmentStatus EnrichmentStatus `json:"enrichment_status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewProjectDocument creates a new ProjectDocument with validation
func NewProjectDocument(filePath, title, content string) (*ProjectDocument, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.New("file path cannot be empty")
	}
	now := time.Now().UTC()
	return &ProjectDocument{
		ID:               generateDocumentID(),
		FilePath:         filePath,
		Title:            title,
		RawContent:       content,
		ContentHash:      HashContent(content),
		EnrichmentStatus: EnrichmentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// generateDocumentID generates a unique document identifier
func generateDocumentID() string {
	return fmt.Sprintf("doc_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
