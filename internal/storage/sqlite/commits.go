// ABOUTME: Commit history storage and keyword search over messages, authors, and paths
// ABOUTME: Populated by the repository scan; the retrieval path only reads
package sqlite

import (
	"strings"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// CommitStore handles commit history persistence
type CommitStore struct {
	db *DB
}

// NewCommitStore creates a new CommitStore
func NewCommitStore(db *DB) *CommitStore {
	return &CommitStore{db: db}
}

// Save stores a commit and its changed files (upsert on hash)
func (s *CommitStore) Save(commit *models.CommitRecord, files []models.CommitFileChange) error {
	_, err := s.db.Exec(`
		INSERT INTO commits (hash, author, message, committed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			author = excluded.author,
			message = excluded.message,
			committed_at = excluded.committed_at
	`, commit.Hash, commit.Author, commit.Message, commit.Committed)
	if err != nil {
		return err
	}

	_, err = s.db.Exec("DELETE FROM commit_files WHERE commit_hash = ?", commit.Hash)
	if err != nil {
		return err
	}

	for _, f := range files {
		_, err = s.db.Exec(`
			INSERT INTO commit_files (commit_hash, file_path, change_kind)
			VALUES (?, ?, ?)
		`, commit.Hash, f.FilePath, string(f.Kind))
		if err != nil {
			return err
		}
	}
	return nil
}

// CommitMatch is a commit matched by keyword search, with the paths it touched
type CommitMatch struct {
	Commit       models.CommitRecord
	ChangedPaths []string
}

// Search finds commits whose message, author, or changed paths match any term,
// newest first. Empty terms return nil.
func (s *CommitStore) Search(terms []string, limit int) ([]CommitMatch, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(terms)*3)
	args := make([]interface{}, 0, len(terms)*3+1)
	for _, term := range terms {
		pattern := "%" + term + "%"
		conditions = append(conditions, "c.message LIKE ?", "c.author LIKE ?", "f.file_path LIKE ?")
		args = append(args, pattern, pattern, pattern)
	}
	args = append(args, limit)

	rows, err := s.db.Query(`
		SELECT DISTINCT c.hash, c.author, c.message, c.committed_at
		FROM commits c
		LEFT JOIN commit_files f ON f.commit_hash = c.hash
		WHERE `+strings.Join(conditions, " OR ")+`
		ORDER BY c.committed_at DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []CommitMatch
	for rows.Next() {
		var m CommitMatch
		if err := rows.Scan(&m.Commit.Hash, &m.Commit.Author, &m.Commit.Message,
			&m.Commit.Committed); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach changed paths for each matched commit
	for i := range matches {
		paths, err := s.changedPaths(matches[i].Commit.Hash)
		if err != nil {
			return nil, err
		}
		matches[i].ChangedPaths = paths
	}

	return matches, nil
}

// changedPaths returns the file paths touched by a commit
func (s *CommitStore) changedPaths(hash string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT file_path FROM commit_files WHERE commit_hash = ? ORDER BY file_path",
		hash,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
