// ABOUTME: Commit history records used as a retrieval source
// ABOUTME: Populated by the repository scan; read-only for the retrieval path
package models

import "time"

// CommitRecord is one commit from the project's history
type CommitRecord struct {
	Hash      string    `json:"hash"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	Committed time.Time `json:"committed"`
}

// ChangeKind classifies a file change within a commit
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeRenamed  ChangeKind = "renamed"
)

// CommitFileChange is one changed path within a commit
type CommitFileChange struct {
	CommitHash string     `json:"commit_hash"`
	FilePath   string     `json:"file_path"`
	Kind       ChangeKind `json:"kind"`
}

// CodeChange describes a file touched during the current conversation turn.
// Supplied by the caller of the context update operation.
type CodeChange struct {
	FilePath string     `json:"file_path"`
	Kind     ChangeKind `json:"kind"`
	Summary  string     `json:"summary,omitempty"`
}
