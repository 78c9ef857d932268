// ABOUTME: Tests for candidate generation against an in-memory store
// ABOUTME: Verifies source tagging, empty-query behavior, and relationship expansion
package retrieval

import (
	"context"
	"testing"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func saveEntity(t *testing.T, store *sqlite.Store, filePath, name, content string) *models.CodeEntity {
	t.Helper()
	entity, err := models.NewCodeEntity(filePath, models.EntityFunction, name, content)
	if err != nil {
		t.Fatalf("NewCodeEntity() error = %v", err)
	}
	if err := store.Entities.Save(entity); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return entity
}

func TestGenerator_EmptyQuery(t *testing.T) {
	store := newTestStore(t)
	gen := NewGenerator(store, 5)

	candidates, err := gen.Generate(context.Background(), "", "conv_1", Constraints{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if candidates == nil || len(candidates) != 0 {
		t.Errorf("Generate(empty) = %v, want empty slice", candidates)
	}
}

func TestGenerator_TagsSources(t *testing.T) {
	store := newTestStore(t)
	saveEntity(t, store, "internal/jobs/queue.go", "dispatchBatch", "func dispatchBatch() { drainQueue() }")

	doc, err := models.NewProjectDocument("docs/queue.md", "Queue", "The dispatch loop drains the queue each tick.")
	if err != nil {
		t.Fatalf("NewProjectDocument() error = %v", err)
	}
	if err := store.Documents.Save(doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	gen := NewGenerator(store, 5)
	candidates, err := gen.Generate(context.Background(), "dispatch queue", "conv_1", Constraints{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	sources := make(map[Source]int)
	for _, c := range candidates {
		sources[c.Source]++
	}
	if sources[SourceEntityText] == 0 {
		t.Error("expected an entity_text candidate")
	}
	if sources[SourceDocumentText] == 0 {
		t.Error("expected a document_text candidate")
	}
}

func TestGenerator_RelationshipExpansion(t *testing.T) {
	store := newTestStore(t)
	seed := saveEntity(t, store, "a.go", "parseConfig", "func parseConfig() { validate() }")
	neighbor := saveEntity(t, store, "b.go", "validate", "func validate() {}")

	_, err := store.Relationships.Save(&models.CodeRelationship{
		SourceEntityID: seed.ID,
		TargetEntityID: neighbor.ID,
		Type:           models.RelCalls,
		Weight:         1.0,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	gen := NewGenerator(store, 5)
	candidates, err := gen.Generate(context.Background(), "parseConfig", "conv_1", Constraints{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var expansion *Candidate
	for i := range candidates {
		if candidates[i].Source == SourceRelationship {
			expansion = &candidates[i]
			break
		}
	}
	if expansion == nil {
		t.Fatal("expected a relationship-derived candidate")
	}
	if expansion.ID != neighbor.ID {
		t.Errorf("expansion id = %s, want %s", expansion.ID, neighbor.ID)
	}
	rc := expansion.RelationshipContext
	if rc == nil {
		t.Fatal("relationship candidate missing RelationshipContext")
	}
	if rc.RelatedToSeedEntityID != seed.ID {
		t.Errorf("RelatedToSeedEntityID = %s, want %s", rc.RelatedToSeedEntityID, seed.ID)
	}
	if rc.RelationshipType != models.RelCalls {
		t.Errorf("RelationshipType = %v, want calls", rc.RelationshipType)
	}
	if rc.Direction != models.DirectionOutgoing {
		t.Errorf("Direction = %v, want outgoing", rc.Direction)
	}
}

func TestGenerator_ExpansionTypeFilter(t *testing.T) {
	store := newTestStore(t)
	seed := saveEntity(t, store, "a.go", "handler", "func handler() { helper() }")
	callee := saveEntity(t, store, "b.go", "helper", "func helper() {}")
	imported := saveEntity(t, store, "c.go", "pkg", "package pkg")

	for _, rel := range []*models.CodeRelationship{
		{SourceEntityID: seed.ID, TargetEntityID: callee.ID, Type: models.RelCalls, Weight: 1.0},
		{SourceEntityID: seed.ID, TargetEntityID: imported.ID, Type: models.RelImports, Weight: 1.0},
	} {
		if _, err := store.Relationships.Save(rel); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	gen := NewGenerator(store, 5)
	candidates, err := gen.Generate(context.Background(), "handler", "conv_1", Constraints{
		RelationshipTypes: []models.RelationshipType{models.RelCalls},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, c := range candidates {
		if c.Source != SourceRelationship {
			continue
		}
		if c.RelationshipContext.RelationshipType != models.RelCalls {
			t.Errorf("type filter leaked %v", c.RelationshipContext.RelationshipType)
		}
	}
}

func TestRetriever_EndToEnd(t *testing.T) {
	store := newTestStore(t)
	saveEntity(t, store, "internal/retrieval/ranker.go", "mergeScores", "func mergeScores(candidates []Candidate) {}")

	retriever := NewRetriever(store, 0.05, 5, 4000)
	result, err := retriever.Retrieve(context.Background(), "mergeScores", "conv_1", Options{TokenBudget: 500})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Snippets) == 0 {
		t.Fatal("Retrieve() returned no snippets")
	}
	if result.Stats.BudgetGiven != 500 {
		t.Errorf("BudgetGiven = %d, want 500", result.Stats.BudgetGiven)
	}
	if result.Stats.TokensOut > 500 {
		t.Errorf("TokensOut = %d, want within budget", result.Stats.TokensOut)
	}
}
