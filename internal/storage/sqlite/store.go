// ABOUTME: Store bundles all per-table stores behind one explicit capability object
// ABOUTME: Created at process startup and passed by reference to every component
package sqlite

// Store aggregates the knowledge store's query surfaces over one connection
type Store struct {
	db            *DB
	Entities      *EntityStore
	Documents     *DocumentStore
	Relationships *RelationshipStore
	Keywords      *KeywordStore
	Conversations *ConversationStore
	Jobs          *JobStore
	Commits       *CommitStore
	Search        *SearchStore
}

// NewStore opens the database at path and wires all stores
func NewStore(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return newStore(db), nil
}

// NewStoreInMemory creates an in-memory store (for testing)
func NewStoreInMemory() (*Store, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStore(db), nil
}

func newStore(db *DB) *Store {
	return &Store{
		db:            db,
		Entities:      NewEntityStore(db),
		Documents:     NewDocumentStore(db),
		Relationships: NewRelationshipStore(db),
		Keywords:      NewKeywordStore(db),
		Conversations: NewConversationStore(db),
		Jobs:          NewJobStore(db),
		Commits:       NewCommitStore(db),
		Search:        NewSearchStore(db),
	}
}

// DB returns the underlying database handle
func (s *Store) DB() *DB {
	return s.db
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}
