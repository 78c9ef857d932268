// ABOUTME: Candidate generation across independent retrieval sources
// ABOUTME: Each sub-search is isolated; one failing source degrades to empty, never errors
package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
)

// Source identifies which sub-search produced a candidate
type Source string

const (
	SourceEntityText   Source = "entity_text"
	SourceDocumentText Source = "document_text"
	SourceKeywordIndex Source = "keyword_index"
	SourceRelationship Source = "relationship"
	SourceConversation Source = "conversation"
	SourceTopic        Source = "topic"
	SourceCommit       Source = "commit"
)

// CandidateKind identifies what a candidate refers to
type CandidateKind string

const (
	CandidateEntity   CandidateKind = "entity"
	CandidateDocument CandidateKind = "document"
	CandidateMessage  CandidateKind = "message"
	CandidateTopic    CandidateKind = "topic"
	CandidateCommit   CandidateKind = "commit"
)

// RelationshipContext carries the provenance of a relationship-derived candidate
type RelationshipContext struct {
	RelatedToSeedEntityID string                       `json:"related_to_seed_entity_id"`
	RelationshipType      models.RelationshipType      `json:"relationship_type"`
	Direction             models.RelationshipDirection `json:"direction"`
	Metadata              *models.RelationshipMetadata `json:"metadata,omitempty"`
}

// Candidate is one unranked retrieval hit from a single source
type Candidate struct {
	Kind     CandidateKind
	ID       string
	FilePath string
	Content  string
	Summary  string
	Excerpt  string
	// Score is the source-native score; scales differ per source and are
	// normalized by the ranker
	Score     float64
	Source    Source
	UpdatedAt time.Time
	// SeedScore is the source-native score of the seed entity a relationship
	// candidate was expanded from; zero for non-relationship candidates
	SeedScore           float64
	RelationshipContext *RelationshipContext
}

// Constraints narrow a generation call
type Constraints struct {
	// PerSourceLimit caps each sub-search's result count; 0 uses the default
	PerSourceLimit int
	// RelationshipTypes filters one-hop expansion; nil means all types
	RelationshipTypes []models.RelationshipType
}

const defaultPerSourceLimit = 20

// Generator fans a tokenized query out across the store's retrieval sources
type Generator struct {
	store           *sqlite.Store
	maxSeedEntities int
}

// NewGenerator creates a candidate generator over the given store
func NewGenerator(store *sqlite.Store, maxSeedEntities int) *Generator {
	if maxSeedEntities <= 0 {
		maxSeedEntities = 5
	}
	return &Generator{store: store, maxSeedEntities: maxSeedEntities}
}

// Generate tokenizes the query and runs every sub-search, tagging candidates
// with their source. An empty term list returns an empty slice without error.
// A failure in one source is logged and treated as empty.
func (g *Generator) Generate(ctx context.Context, query, conversationID string, constraints Constraints) ([]Candidate, error) {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return []Candidate{}, nil
	}
	limit := constraints.PerSourceLimit
	if limit <= 0 {
		limit = defaultPerSourceLimit
	}

	var candidates []Candidate

	entityHits := g.searchEntities(terms, limit)
	candidates = append(candidates, entityHits...)
	candidates = append(candidates, g.searchDocuments(terms, limit)...)

	keywordHits := g.searchKeywords(terms, limit)
	candidates = append(candidates, keywordHits...)

	candidates = append(candidates, g.expandRelationships(entityHits, keywordHits, constraints.RelationshipTypes)...)
	candidates = append(candidates, g.searchConversations(terms, conversationID, limit)...)
	candidates = append(candidates, g.searchTopics(terms, limit)...)
	candidates = append(candidates, g.searchCommits(terms, limit)...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (g *Generator) searchEntities(terms []string, limit int) []Candidate {
	matches, err := g.store.Search.SearchEntities(terms, limit)
	if err != nil {
		log.Printf("[Retrieval] entity text search failed: %v", err)
		return nil
	}
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, Candidate{
			Kind:      CandidateEntity,
			ID:        m.Entity.ID,
			FilePath:  m.Entity.FilePath,
			Content:   m.Entity.RawContent,
			Summary:   m.Entity.Summary,
			Excerpt:   m.Excerpt,
			Score:     m.Score,
			Source:    SourceEntityText,
			UpdatedAt: m.Entity.UpdatedAt,
		})
	}
	return candidates
}

func (g *Generator) searchDocuments(terms []string, limit int) []Candidate {
	matches, err := g.store.Search.SearchDocuments(terms, limit)
	if err != nil {
		log.Printf("[Retrieval] document text search failed: %v", err)
		return nil
	}
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, Candidate{
			Kind:      CandidateDocument,
			ID:        m.Document.ID,
			FilePath:  m.Document.FilePath,
			Content:   m.Document.RawContent,
			Summary:   m.Document.Summary,
			Excerpt:   m.Excerpt,
			Score:     m.Score,
			Source:    SourceDocumentText,
			UpdatedAt: m.Document.UpdatedAt,
		})
	}
	return candidates
}

func (g *Generator) searchKeywords(terms []string, limit int) []Candidate {
	matches, err := g.store.Keywords.Search(terms, limit)
	if err != nil {
		log.Printf("[Retrieval] keyword index search failed: %v", err)
		return nil
	}
	var candidates []Candidate
	for _, m := range matches {
		entity, err := g.store.Entities.Get(m.EntityID)
		if err != nil {
			log.Printf("[Retrieval] keyword hit load failed for %s: %v", m.EntityID, err)
			continue
		}
		if entity == nil {
			continue
		}
		candidates = append(candidates, Candidate{
			Kind:     CandidateEntity,
			ID:       entity.ID,
			FilePath: entity.FilePath,
			Content:  entity.RawContent,
			Summary:  entity.Summary,
			// Match count dominates, weight breaks ties within a count
			Score:     float64(m.MatchCount) + m.TotalWeight/(m.TotalWeight+1),
			Source:    SourceKeywordIndex,
			UpdatedAt: entity.UpdatedAt,
		})
	}
	return candidates
}

// expandRelationships walks one hop out from the strongest direct hits
func (g *Generator) expandRelationships(entityHits, keywordHits []Candidate, typeFilter []models.RelationshipType) []Candidate {
	seeds := pickSeeds(entityHits, keywordHits, g.maxSeedEntities)

	var candidates []Candidate
	for _, seed := range seeds {
		related, err := g.store.Relationships.GetRelated(seed.ID, typeFilter)
		if err != nil {
			log.Printf("[Retrieval] relationship expansion failed for %s: %v", seed.ID, err)
			continue
		}
		for _, rel := range related {
			relCtx := &RelationshipContext{
				RelatedToSeedEntityID: seed.ID,
				RelationshipType:      rel.Relationship.Type,
				Direction:             rel.Direction,
				Metadata:              rel.Relationship.Metadata,
			}
			if rel.NeighborEntityID == "" {
				// Unresolved symbol: no entity row to load, surface the symbol itself
				candidates = append(candidates, Candidate{
					Kind:                CandidateEntity,
					ID:                  fmt.Sprintf("symbol:%s", rel.Relationship.TargetSymbolName),
					Content:             rel.Relationship.TargetSymbolName,
					Score:               rel.Relationship.Weight,
					Source:              SourceRelationship,
					SeedScore:           seed.Score,
					RelationshipContext: relCtx,
				})
				continue
			}
			neighbor, err := g.store.Entities.Get(rel.NeighborEntityID)
			if err != nil || neighbor == nil {
				continue
			}
			candidates = append(candidates, Candidate{
				Kind:                CandidateEntity,
				ID:                  neighbor.ID,
				FilePath:            neighbor.FilePath,
				Content:             neighbor.RawContent,
				Summary:             neighbor.Summary,
				Score:               rel.Relationship.Weight,
				Source:              SourceRelationship,
				UpdatedAt:           neighbor.UpdatedAt,
				SeedScore:           seed.Score,
				RelationshipContext: relCtx,
			})
		}
	}
	return candidates
}

// pickSeeds takes the strongest distinct entity hits across text and keyword
// sources, up to max
func pickSeeds(entityHits, keywordHits []Candidate, max int) []Candidate {
	var seeds []Candidate
	seen := make(map[string]bool)
	for _, hits := range [][]Candidate{entityHits, keywordHits} {
		for _, hit := range hits {
			if len(seeds) >= max {
				return seeds
			}
			if seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			seeds = append(seeds, hit)
		}
	}
	return seeds
}

func (g *Generator) searchConversations(terms []string, conversationID string, limit int) []Candidate {
	messages, err := g.store.Conversations.SearchMessages(terms, conversationID, limit)
	if err != nil {
		log.Printf("[Retrieval] conversation search failed: %v", err)
		return nil
	}
	candidates := make([]Candidate, 0, len(messages))
	for i, msg := range messages {
		candidates = append(candidates, Candidate{
			Kind:    CandidateMessage,
			ID:      msg.ID,
			Content: msg.Content,
			// Results arrive already ordered; encode position as the score
			Score:     float64(len(messages) - i),
			Source:    SourceConversation,
			UpdatedAt: msg.Timestamp,
		})
	}
	return candidates
}

func (g *Generator) searchTopics(terms []string, limit int) []Candidate {
	topics, err := g.store.Conversations.SearchTopics(terms, limit)
	if err != nil {
		log.Printf("[Retrieval] topic search failed: %v", err)
		return nil
	}
	candidates := make([]Candidate, 0, len(topics))
	for i, topic := range topics {
		content := topic.Summary
		if content == "" {
			content = strings.Join(topic.Keywords, ", ")
		}
		candidates = append(candidates, Candidate{
			Kind:      CandidateTopic,
			ID:        topic.ID,
			Content:   content,
			Score:     float64(len(topics) - i),
			Source:    SourceTopic,
			UpdatedAt: topic.StartedAt,
		})
	}
	return candidates
}

func (g *Generator) searchCommits(terms []string, limit int) []Candidate {
	matches, err := g.store.Commits.Search(terms, limit)
	if err != nil {
		log.Printf("[Retrieval] commit search failed: %v", err)
		return nil
	}
	candidates := make([]Candidate, 0, len(matches))
	for i, m := range matches {
		content := m.Commit.Message
		if len(m.ChangedPaths) > 0 {
			content = fmt.Sprintf("%s (%s)", m.Commit.Message, strings.Join(m.ChangedPaths, ", "))
		}
		candidates = append(candidates, Candidate{
			Kind:      CandidateCommit,
			ID:        m.Commit.Hash,
			Content:   content,
			Score:     float64(len(matches) - i),
			Source:    SourceCommit,
			UpdatedAt: m.Commit.Committed,
		})
	}
	return candidates
}
