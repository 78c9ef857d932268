// ABOUTME: Code relationship storage and one-hop graph expansion queries
// ABOUTME: Edges are directed; expansion reads both directions from a seed entity
package sqlite

import (
	"database/sql"
	"strings"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// RelationshipStore handles code relationship persistence
type RelationshipStore struct {
	db *DB
}

// NewRelationshipStore creates a new RelationshipStore
func NewRelationshipStore(db *DB) *RelationshipStore {
	return &RelationshipStore{db: db}
}

// RelatedEntity is one edge found by one-hop expansion from a seed entity
type RelatedEntity struct {
	Relationship models.CodeRelationship
	Direction    models.RelationshipDirection
	// NeighborEntityID is the entity on the far side of the edge from the seed.
	// Empty when the target is an unresolved symbol.
	NeighborEntityID string
}

// Save inserts a relationship edge and returns its assigned ID
func (s *RelationshipStore) Save(rel *models.CodeRelationship) (int64, error) {
	metadata, err := models.EncodeMetadata(rel.Metadata)
	if err != nil {
		return 0, err
	}

	result, err := s.db.Exec(`
		INSERT INTO code_relationships (source_entity_id, target_entity_id,
			target_symbol_name, relationship_type, weight, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rel.SourceEntityID, nullIfEmpty(rel.TargetEntityID),
		nullIfEmpty(rel.TargetSymbolName), string(rel.Type), rel.Weight,
		nullIfEmpty(metadata), rel.CreatedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetRelated returns one-hop neighbors of an entity in both directions,
// optionally filtered by relationship type, ordered by
// (relationship_type ASC, weight DESC).
func (s *RelationshipStore) GetRelated(entityID string, typeFilter []models.RelationshipType) ([]RelatedEntity, error) {
	query := `
		SELECT id, source_entity_id, target_entity_id, target_symbol_name,
			relationship_type, weight, metadata, created_at
		FROM code_relationships
		WHERE (source_entity_id = ? OR target_entity_id = ?)`
	args := []interface{}{entityID, entityID}

	if len(typeFilter) > 0 {
		placeholders := make([]string, len(typeFilter))
		for i, t := range typeFilter {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		query += " AND relationship_type IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += " ORDER BY relationship_type ASC, weight DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var related []RelatedEntity
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}

		entry := RelatedEntity{Relationship: *rel}
		if rel.SourceEntityID == entityID {
			entry.Direction = models.DirectionOutgoing
			entry.NeighborEntityID = rel.TargetEntityID
		} else {
			entry.Direction = models.DirectionIncoming
			entry.NeighborEntityID = rel.SourceEntityID
		}
		related = append(related, entry)
	}

	return related, rows.Err()
}

// GetBySource returns all edges originating at an entity
func (s *RelationshipStore) GetBySource(entityID string) ([]models.CodeRelationship, error) {
	rows, err := s.db.Query(`
		SELECT id, source_entity_id, target_entity_id, target_symbol_name,
			relationship_type, weight, metadata, created_at
		FROM code_relationships
		WHERE source_entity_id = ?
		ORDER BY relationship_type ASC, weight DESC
	`, entityID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var rels []models.CodeRelationship
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		rels = append(rels, *rel)
	}
	return rels, rows.Err()
}

// DeleteBySource removes all edges originating at an entity
func (s *RelationshipStore) DeleteBySource(entityID string) error {
	_, err := s.db.Exec("DELETE FROM code_relationships WHERE source_entity_id = ?", entityID)
	return err
}

// scanRelationship scans one row into a CodeRelationship
func scanRelationship(rows *sql.Rows) (*models.CodeRelationship, error) {
	var (
		rel      models.CodeRelationship
		targetID sql.NullString
		symbol   sql.NullString
		relType  string
		metadata sql.NullString
	)

	err := rows.Scan(&rel.ID, &rel.SourceEntityID, &targetID, &symbol,
		&relType, &rel.Weight, &metadata, &rel.CreatedAt)
	if err != nil {
		return nil, err
	}

	rel.TargetEntityID = targetID.String
	rel.TargetSymbolName = symbol.String
	rel.Type = models.RelationshipType(relType)

	if metadata.Valid && metadata.String != "" {
		decoded, err := models.DecodeMetadata(metadata.String)
		if err == nil {
			rel.Metadata = decoded
		}
	}

	return &rel, nil
}
