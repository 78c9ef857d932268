// ABOUTME: FTS5 full-text search across code entities and project documents
// ABOUTME: Returns store-native relevance scores and highlighted excerpts
package sqlite

import (
	"database/sql"
	"strings"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// SearchStore runs full-text queries against the FTS5 indexes
type SearchStore struct {
	db *DB
}

// NewSearchStore creates a new SearchStore
func NewSearchStore(db *DB) *SearchStore {
	return &SearchStore{db: db}
}

// EntityTextMatch is one full-text hit over code entities
type EntityTextMatch struct {
	Entity  models.CodeEntity
	Score   float64
	Excerpt string
}

// DocumentTextMatch is one full-text hit over project documents
type DocumentTextMatch struct {
	Document models.ProjectDocument
	Score    float64
	Excerpt  string
}

// SearchEntities runs a full-text query over entity name, content, and
// summary. Empty terms return nil.
func (s *SearchStore) SearchEntities(terms []string, limit int) ([]EntityTextMatch, error) {
	match := buildMatchQuery(terms)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT e.id, e.file_path, e.entity_type, e.name, e.start_line, e.end_line,
			e.start_byte, e.end_byte, e.content_hash, e.raw_content, e.summary,
			e.language, e.parent_entity_id, e.enrichment_status, e.created_at, e.updated_at,
			-bm25(entities_fts) AS score,
			snippet(entities_fts, 1, '[', ']', '…', 12) AS excerpt
		FROM entities_fts
		JOIN code_entities e ON e.rowid = entities_fts.rowid
		WHERE entities_fts MATCH ?
		ORDER BY bm25(entities_fts)
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []EntityTextMatch
	for rows.Next() {
		var (
			m        EntityTextMatch
			eType    string
			status   string
			content  sql.NullString
			summary  sql.NullString
			language sql.NullString
			parentID sql.NullString
		)
		e := &m.Entity
		if err := rows.Scan(&e.ID, &e.FilePath, &eType, &e.Name,
			&e.StartLine, &e.EndLine, &e.StartByte, &e.EndByte,
			&e.ContentHash, &content, &summary, &language, &parentID,
			&status, &e.CreatedAt, &e.UpdatedAt, &m.Score, &m.Excerpt); err != nil {
			return nil, err
		}
		e.Type = models.EntityType(eType)
		e.EnrichmentStatus = models.EnrichmentStatus(status)
		e.RawContent = content.String
		e.Summary = summary.String
		e.Language = language.String
		e.ParentEntityID = parentID.String
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// SearchDocuments runs a full-text query over document title, content, and
// summary. Empty terms return nil.
func (s *SearchStore) SearchDocuments(terms []string, limit int) ([]DocumentTextMatch, error) {
	match := buildMatchQuery(terms)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT d.id, d.file_path, d.title, d.content_hash, d.raw_content, d.summary,
			d.enrichment_status, d.created_at, d.updated_at,
			-bm25(documents_fts) AS score,
			snippet(documents_fts, 1, '[', ']', '…', 12) AS excerpt
		FROM documents_fts
		JOIN project_documents d ON d.rowid = documents_fts.rowid
		WHERE documents_fts MATCH ?
		ORDER BY bm25(documents_fts)
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []DocumentTextMatch
	for rows.Next() {
		var (
			m       DocumentTextMatch
			title   sql.NullString
			content sql.NullString
			summary sql.NullString
			status  string
		)
		if err := rows.Scan(&m.Document.ID, &m.Document.FilePath, &title,
			&m.Document.ContentHash, &content, &summary, &status,
			&m.Document.CreatedAt, &m.Document.UpdatedAt, &m.Score, &m.Excerpt); err != nil {
			return nil, err
		}
		m.Document.Title = title.String
		m.Document.RawContent = content.String
		m.Document.Summary = summary.String
		m.Document.EnrichmentStatus = models.EnrichmentStatus(status)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// buildMatchQuery turns query terms into an FTS5 MATCH expression.
// Terms are quoted so identifier punctuation is not parsed as syntax.
func buildMatchQuery(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " OR ")
}
