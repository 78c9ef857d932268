// ABOUTME: Merges per-source candidate scores into one ranked, deduplicated list
// ABOUTME: Weighted sum over normalized scores with recency decay and focus boost
package retrieval

import (
	"sort"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// RankWeights holds the per-source multipliers applied after normalization.
// Direct text and keyword hits dominate; graph expansion and historical
// sources contribute but never lead on their own.
type RankWeights struct {
	EntityText   float64
	DocumentText float64
	KeywordIndex float64
	Relationship float64
	Conversation float64
	Topic        float64
	Commit       float64
}

// DefaultRankWeights returns the documented default source weights
func DefaultRankWeights() RankWeights {
	return RankWeights{
		EntityText:   1.0,
		DocumentText: 0.9,
		KeywordIndex: 0.8,
		Relationship: 0.7,
		Conversation: 0.5,
		Topic:        0.5,
		Commit:       0.4,
	}
}

func (w RankWeights) forSource(source Source) float64 {
	switch source {
	case SourceEntityText:
		return w.EntityText
	case SourceDocumentText:
		return w.DocumentText
	case SourceKeywordIndex:
		return w.KeywordIndex
	case SourceRelationship:
		return w.Relationship
	case SourceConversation:
		return w.Conversation
	case SourceTopic:
		return w.Topic
	case SourceCommit:
		return w.Commit
	default:
		return 0.1
	}
}

// RankedCandidate is a candidate with its merged score and unioned provenance
type RankedCandidate struct {
	Candidate
	FinalScore float64
	Sources    []Source
}

// Ranker merges heterogeneous candidates into one ordered list
type Ranker struct {
	Weights RankWeights
	// DecayRate controls how fast old candidates lose relevance, per day
	DecayRate float64
	// FocusBoost multiplies the score of candidates matching the active focus
	FocusBoost float64
	// ProximityFactor caps relationship candidates at this fraction of their
	// seed's normalized score, so expansion never outranks a direct hit
	ProximityFactor float64
}

// NewRanker creates a ranker with the given decay rate and default weights
func NewRanker(decayRate float64) *Ranker {
	return &Ranker{
		Weights:         DefaultRankWeights(),
		DecayRate:       decayRate,
		FocusBoost:      1.5,
		ProximityFactor: 0.8,
	}
}

// Rank normalizes, decays, boosts, merges, and orders candidates.
// Candidates referring to the same id are deduplicated keeping the highest
// merged score with provenance unioned.
func (r *Ranker) Rank(candidates []Candidate, focus *models.Focus) []RankedCandidate {
	if len(candidates) == 0 {
		return []RankedCandidate{}
	}

	sourceMax := maxScorePerSource(candidates)
	now := time.Now().UTC()

	merged := make(map[string]*RankedCandidate)
	var order []string
	for _, c := range candidates {
		score := r.score(c, sourceMax, focus, now)

		existing, ok := merged[c.ID]
		if !ok {
			rc := &RankedCandidate{Candidate: c, FinalScore: score, Sources: []Source{c.Source}}
			merged[c.ID] = rc
			order = append(order, c.ID)
			continue
		}
		if score > existing.FinalScore {
			// Keep the strongest representation but union every source
			sources := existing.Sources
			existing.Candidate = c
			existing.FinalScore = score
			existing.Sources = sources
		}
		existing.Sources = appendSource(existing.Sources, c.Source)
	}

	ranked := make([]RankedCandidate, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, *merged[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		if !ranked[i].UpdatedAt.Equal(ranked[j].UpdatedAt) {
			return ranked[i].UpdatedAt.After(ranked[j].UpdatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// score computes one candidate's merged score:
//
//	normalized × sourceWeight × recency × focusBoost, capped for expansion hits
func (r *Ranker) score(c Candidate, sourceMax map[Source]float64, focus *models.Focus, now time.Time) float64 {
	score := normalize(c.Score, sourceMax[c.Source])
	score *= r.Weights.forSource(c.Source)
	score *= r.recencyMultiplier(c.UpdatedAt, now)

	if focus != nil && matchesFocus(c, focus) {
		score *= r.FocusBoost
	}

	if c.Source == SourceRelationship {
		// Seed scores share the entity-text scale
		seedScale := sourceMax[SourceEntityText]
		if seedScale == 0 {
			seedScale = sourceMax[SourceKeywordIndex]
		}
		ceiling := r.ProximityFactor * normalize(c.SeedScore, seedScale) * r.Weights.EntityText
		if score > ceiling {
			score = ceiling
		}
	}
	return score
}

func (r *Ranker) recencyMultiplier(updatedAt time.Time, now time.Time) float64 {
	if updatedAt.IsZero() || r.DecayRate <= 0 {
		return 1.0
	}
	ageDays := now.Sub(updatedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return 1.0 / (1.0 + r.DecayRate*ageDays)
}

func normalize(score, max float64) float64 {
	if max <= 0 {
		return 0
	}
	n := score / max
	if n > 1 {
		n = 1
	}
	if n < 0 {
		n = 0
	}
	return n
}

func maxScorePerSource(candidates []Candidate) map[Source]float64 {
	maxes := make(map[Source]float64)
	for _, c := range candidates {
		if c.Score > maxes[c.Source] {
			maxes[c.Source] = c.Score
		}
	}
	return maxes
}

func matchesFocus(c Candidate, focus *models.Focus) bool {
	if focus.Identifier == "" {
		return false
	}
	return c.ID == focus.Identifier || c.FilePath == focus.Identifier
}

func appendSource(sources []Source, source Source) []Source {
	for _, s := range sources {
		if s == source {
			return sources
		}
	}
	return append(sources, source)
}
