// ABOUTME: Code entity storage operations for SQLite
// ABOUTME: Implements CRUD and enrichment write-back for indexed code units
package sqlite

import (
	"database/sql"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// EntityStore handles code entity persistence
type EntityStore struct {
	db *DB
}

// NewEntityStore creates a new EntityStore
func NewEntityStore(db *DB) *EntityStore {
	return &EntityStore{db: db}
}

// Save saves or updates a code entity (upsert)
func (s *EntityStore) Save(entity *models.CodeEntity) error {
	_, err := s.db.Exec(`
		INSERT INTO code_entities (id, file_path, entity_type, name, start_line, end_line,
			start_byte, end_byte, content_hash, raw_content, summary, language,
			parent_entity_id, enrichment_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_path = excluded.file_path,
			entity_type = excluded.entity_type,
			name = excluded.name,
			start_line = excluded.start_line,
			end_line = excluded.end_line,
			start_byte = excluded.start_byte,
			end_byte = excluded.end_byte,
			content_hash = excluded.content_hash,
			raw_content = excluded.raw_content,
			summary = excluded.summary,
			language = excluded.language,
			parent_entity_id = excluded.parent_entity_id,
			enrichment_status = excluded.enrichment_status,
			updated_at = excluded.updated_at
	`, entity.ID, entity.FilePath, string(entity.Type), entity.Name,
		entity.StartLine, entity.EndLine, entity.StartByte, entity.EndByte,
		entity.ContentHash, entity.RawContent, nullIfEmpty(entity.Summary),
		nullIfEmpty(entity.Language), nullIfEmpty(entity.ParentEntityID),
		string(entity.EnrichmentStatus), entity.CreatedAt, entity.UpdatedAt)
	return err
}

// Get retrieves a code entity by ID, returning (nil, nil) when missing
func (s *EntityStore) Get(entityID string) (*models.CodeEntity, error) {
	row := s.db.QueryRow(`
		SELECT id, file_path, entity_type, name, start_line, end_line,
			start_byte, end_byte, content_hash, raw_content, summary, language,
			parent_entity_id, enrichment_status, created_at, updated_at
		FROM code_entities
		WHERE id = ?
	`, entityID)

	entity, err := scanEntity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetByFile retrieves all entities in a file, outermost first
func (s *EntityStore) GetByFile(filePath string) ([]models.CodeEntity, error) {
	rows, err := s.db.Query(`
		SELECT id, file_path, entity_type, name, start_line, end_line,
			start_byte, end_byte, content_hash, raw_content, summary, language,
			parent_entity_id, enrichment_status, created_at, updated_at
		FROM code_entities
		WHERE file_path = ?
		ORDER BY start_byte ASC
	`, filePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntities(rows)
}

// UpdateEnrichment writes back an AI summary and the resulting status
func (s *EntityStore) UpdateEnrichment(entityID, summary string, status models.EnrichmentStatus) error {
	_, err := s.db.Exec(`
		UPDATE code_entities
		SET summary = ?, enrichment_status = ?, updated_at = ?
		WHERE id = ?
	`, summary, string(status), time.Now().UTC(), entityID)
	return err
}

// Delete removes an entity; child entities cascade
func (s *EntityStore) Delete(entityID string) error {
	_, err := s.db.Exec("DELETE FROM code_entities WHERE id = ?", entityID)
	return err
}

// CountByStatus returns the number of entities in a given enrichment status
func (s *EntityStore) CountByStatus(status models.EnrichmentStatus) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM code_entities WHERE enrichment_status = ?",
		string(status),
	).Scan(&count)
	return count, err
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEntity scans one row into a CodeEntity
func scanEntity(row rowScanner) (*models.CodeEntity, error) {
	var (
		entity   models.CodeEntity
		eType    string
		status   string
		summary  sql.NullString
		language sql.NullString
		parentID sql.NullString
		content  sql.NullString
	)

	err := row.Scan(&entity.ID, &entity.FilePath, &eType, &entity.Name,
		&entity.StartLine, &entity.EndLine, &entity.StartByte, &entity.EndByte,
		&entity.ContentHash, &content, &summary, &language, &parentID,
		&status, &entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return nil, err
	}

	entity.Type = models.EntityType(eType)
	entity.EnrichmentStatus = models.EnrichmentStatus(status)
	entity.RawContent = content.String
	entity.Summary = summary.String
	entity.Language = language.String
	entity.ParentEntityID = parentID.String

	return &entity, nil
}

// scanEntities scans rows into a slice of CodeEntity
func scanEntities(rows *sql.Rows) ([]models.CodeEntity, error) {
	var entities []models.CodeEntity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}
	return entities, rows.Err()
}

// nullIfEmpty maps the empty string to SQL NULL
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
