// ABOUTME: Tests for SQLite database connection and schema initialization
// ABOUTME: Verifies database creation, schema objects, and FTS index wiring
package sqlite

import (
	"path/filepath"
	"testing"
)

func TestOpenInMemory(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Conn() == nil {
		t.Error("Conn() should not be nil")
	}

	if db.Path() != ":memory:" {
		t.Errorf("Path() = %v, want :memory:", db.Path())
	}
}

func TestSchemaInitialization(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	tables := []string{
		"code_entities", "project_documents", "code_relationships",
		"entity_keywords", "conversation_messages", "conversation_topics",
		"background_jobs", "commits", "commit_files",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}

	// FTS virtual tables
	for _, table := range []string{"entities_fts", "documents_fts"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("FTS table %s does not exist: %v", table, err)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "subdir", "nested", "context.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", db.Path(), dbPath)
	}
}

func TestNewStoreInMemory(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.Entities == nil || store.Documents == nil || store.Relationships == nil ||
		store.Keywords == nil || store.Conversations == nil || store.Jobs == nil ||
		store.Commits == nil || store.Search == nil {
		t.Error("all store surfaces should be wired")
	}
}
