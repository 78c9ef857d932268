// ABOUTME: Project document storage operations for SQLite
// ABOUTME: Documents are keyed uniquely by file path with the same enrichment lifecycle as entities
package sqlite

import (
	"database/sql"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// DocumentStore handles project document persistence
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save saves or updates a document, upserting on file path
func (s *DocumentStore) Save(doc *models.ProjectDocument) error {
	_, err := s.db.Exec(`
		INSERT INTO project_documents (id, file_path, title, content_hash, raw_content,
			summary, enrichment_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			title = excluded.title,
			content_hash = excluded.content_hash,
			raw_content = excluded.raw_content,
			summary = excluded.summary,
			enrichment_status = excluded.enrichment_status,
			updated_at = excluded.updated_at
	`, doc.ID, doc.FilePath, nullIfEmpty(doc.Title), doc.ContentHash,
		doc.RawContent, nullIfEmpty(doc.Summary), string(doc.EnrichmentStatus),
		doc.CreatedAt, doc.UpdatedAt)
	return err
}

// Get retrieves a document by ID, returning (nil, nil) when missing
func (s *DocumentStore) Get(docID string) (*models.ProjectDocument, error) {
	return s.getWhere("id = ?", docID)
}

// GetByPath retrieves a document by file path, returning (nil, nil) when missing
func (s *DocumentStore) GetByPath(filePath string) (*models.ProjectDocument, error) {
	return s.getWhere("file_path = ?", filePath)
}

func (s *DocumentStore) getWhere(where string, arg interface{}) (*models.ProjectDocument, error) {
	var (
		doc     models.ProjectDocument
		title   sql.NullString
		content sql.NullString
		summary sql.NullString
		status  string
	)

	err := s.db.QueryRow(`
		SELECT id, file_path, title, content_hash, raw_content, summary,
			enrichment_status, created_at, updated_at
		FROM project_documents
		WHERE `+where, arg).Scan(&doc.ID, &doc.FilePath, &title, &doc.ContentHash,
		&content, &summary, &status, &doc.CreatedAt, &doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc.Title = title.String
	doc.RawContent = content.String
	doc.Summary = summary.String
	doc.EnrichmentStatus = models.EnrichmentStatus(status)

	return &doc, nil
}

// UpdateEnrichment writes back an AI summary and the resulting status
func (s *DocumentStore) UpdateEnrichment(docID, summary string, status models.EnrichmentStatus) error {
	_, err := s.db.Exec(`
		UPDATE project_documents
		SET summary = ?, enrichment_status = ?, updated_at = ?
		WHERE id = ?
	`, summary, string(status), time.Now().UTC(), docID)
	return err
}

// Delete removes a document by ID
func (s *DocumentStore) Delete(docID string) error {
	_, err := s.db.Exec("DELETE FROM project_documents WHERE id = ?", docID)
	return err
}
