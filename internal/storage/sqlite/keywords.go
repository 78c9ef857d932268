// ABOUTME: Weighted keyword index storage and lookup
// ABOUTME: Keyword matches rank by (match_count DESC, total_weight DESC) per entity
package sqlite

import (
	"strings"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// KeywordStore handles the per-entity weighted keyword index
type KeywordStore struct {
	db *DB
}

// NewKeywordStore creates a new KeywordStore
func NewKeywordStore(db *DB) *KeywordStore {
	return &KeywordStore{db: db}
}

// Upsert inserts or updates a keyword's weight for (entity, keyword, kind)
func (s *KeywordStore) Upsert(kw *models.EntityKeyword) error {
	_, err := s.db.Exec(`
		INSERT INTO entity_keywords (entity_id, keyword, weight, kind, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity_id, keyword, kind) DO UPDATE SET
			weight = excluded.weight
	`, kw.EntityID, strings.ToLower(kw.Keyword), kw.Weight, string(kw.Kind), kw.CreatedAt)
	return err
}

// ReplaceForEntity replaces all keywords of a given kind for an entity
func (s *KeywordStore) ReplaceForEntity(entityID string, kind models.KeywordKind, keywords []models.EntityKeyword) error {
	_, err := s.db.Exec(
		"DELETE FROM entity_keywords WHERE entity_id = ? AND kind = ?",
		entityID, string(kind),
	)
	if err != nil {
		return err
	}

	for _, kw := range keywords {
		if err := s.Upsert(&kw); err != nil {
			return err
		}
	}
	return nil
}

// KeywordMatch aggregates keyword hits for one entity
type KeywordMatch struct {
	EntityID    string
	MatchCount  int
	TotalWeight float64
}

// Search returns entities whose keywords match any of the given terms,
// ranked by (match_count DESC, total_weight DESC). Empty terms return nil.
func (s *KeywordStore) Search(terms []string, limit int) ([]KeywordMatch, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(terms))
	args := make([]interface{}, 0, len(terms)+1)
	for i, term := range terms {
		placeholders[i] = "?"
		args = append(args, strings.ToLower(term))
	}
	args = append(args, limit)

	rows, err := s.db.Query(`
		SELECT entity_id, COUNT(*) AS match_count, SUM(weight) AS total_weight
		FROM entity_keywords
		WHERE keyword IN (`+strings.Join(placeholders, ", ")+`)
		GROUP BY entity_id
		ORDER BY match_count DESC, total_weight DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []KeywordMatch
	for rows.Next() {
		var m KeywordMatch
		if err := rows.Scan(&m.EntityID, &m.MatchCount, &m.TotalWeight); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// GetForEntity returns all keywords attached to an entity
func (s *KeywordStore) GetForEntity(entityID string) ([]models.EntityKeyword, error) {
	rows, err := s.db.Query(`
		SELECT entity_id, keyword, weight, kind, created_at
		FROM entity_keywords
		WHERE entity_id = ?
		ORDER BY weight DESC, keyword ASC
	`, entityID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keywords []models.EntityKeyword
	for rows.Next() {
		var (
			kw        models.EntityKeyword
			kind      string
			createdAt time.Time
		)
		if err := rows.Scan(&kw.EntityID, &kw.Keyword, &kw.Weight, &kind, &createdAt); err != nil {
			return nil, err
		}
		kw.Kind = models.KeywordKind(kind)
		kw.CreatedAt = createdAt
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}
