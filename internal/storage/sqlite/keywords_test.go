// ABOUTME: Tests for the weighted keyword index
// ABOUTME: Verifies upsert uniqueness and (match_count, total_weight) ranking
package sqlite

import (
	"testing"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

func addKeyword(t *testing.T, store *Store, entityID, keyword string, weight float64, kind models.KeywordKind) {
	t.Helper()
	err := store.Keywords.Upsert(&models.EntityKeyword{
		EntityID:  entityID,
		Keyword:   keyword,
		Weight:    weight,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
}

func TestKeywordStore_UpsertUniqueness(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	addKeyword(t, store, "ent_1", "retry", 1.0, models.KeywordIdentifier)
	addKeyword(t, store, "ent_1", "retry", 2.5, models.KeywordIdentifier)
	addKeyword(t, store, "ent_1", "retry", 0.8, models.KeywordAI)

	keywords, err := store.Keywords.GetForEntity("ent_1")
	if err != nil {
		t.Fatalf("GetForEntity() error = %v", err)
	}
	if len(keywords) != 2 {
		t.Fatalf("GetForEntity() returned %d keywords, want 2 (one per kind)", len(keywords))
	}
	if keywords[0].Weight != 2.5 {
		t.Errorf("Weight = %v, want 2.5 (upsert replaces weight)", keywords[0].Weight)
	}
}

func TestKeywordStore_SearchRanking(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	// ent_both matches two terms; ent_heavy matches one with a high weight
	addKeyword(t, store, "ent_both", "queue", 1.0, models.KeywordIdentifier)
	addKeyword(t, store, "ent_both", "worker", 1.0, models.KeywordIdentifier)
	addKeyword(t, store, "ent_heavy", "queue", 10.0, models.KeywordAI)

	matches, err := store.Keywords.Search([]string{"queue", "worker"}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Search() returned %d matches, want 2", len(matches))
	}
	if matches[0].EntityID != "ent_both" {
		t.Errorf("top match = %s, want ent_both (match count beats weight)", matches[0].EntityID)
	}
	if matches[0].MatchCount != 2 {
		t.Errorf("MatchCount = %d, want 2", matches[0].MatchCount)
	}
}

func TestKeywordStore_SearchEmptyTerms(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	matches, err := store.Keywords.Search(nil, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if matches != nil {
		t.Errorf("Search(nil) = %v, want nil", matches)
	}
}

func TestKeywordStore_SearchCaseInsensitive(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	addKeyword(t, store, "ent_1", "Retriever", 1.0, models.KeywordIdentifier)

	matches, err := store.Keywords.Search([]string{"retriever"}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Search() returned %d matches, want 1 (keywords stored lowercase)", len(matches))
	}
}

func TestKeywordStore_ReplaceForEntity(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	addKeyword(t, store, "ent_1", "old", 1.0, models.KeywordAI)
	addKeyword(t, store, "ent_1", "stays", 1.0, models.KeywordIdentifier)

	err = store.Keywords.ReplaceForEntity("ent_1", models.KeywordAI, []models.EntityKeyword{
		{EntityID: "ent_1", Keyword: "fresh", Weight: 2.0, Kind: models.KeywordAI, CreatedAt: time.Now().UTC()},
	})
	if err != nil {
		t.Fatalf("ReplaceForEntity() error = %v", err)
	}

	keywords, err := store.Keywords.GetForEntity("ent_1")
	if err != nil {
		t.Fatalf("GetForEntity() error = %v", err)
	}
	if len(keywords) != 2 {
		t.Fatalf("GetForEntity() returned %d keywords, want 2", len(keywords))
	}
	for _, kw := range keywords {
		if kw.Keyword == "old" {
			t.Error("old AI keyword should be replaced")
		}
	}
}
