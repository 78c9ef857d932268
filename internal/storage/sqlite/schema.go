// ABOUTME: SQLite schema for the project knowledge store
// ABOUTME: Creates all tables, indexes, FTS5 virtual tables, and sync triggers
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Code entities (files, functions, classes, methods, ...)
CREATE TABLE IF NOT EXISTS code_entities (
    id TEXT PRIMARY KEY,
    file_path TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    name TEXT NOT NULL,
    start_line INTEGER DEFAULT 0,
    end_line INTEGER DEFAULT 0,
    start_byte INTEGER DEFAULT 0,
    end_byte INTEGER DEFAULT 0,
    content_hash TEXT NOT NULL,
    raw_content TEXT,
    summary TEXT,
    language TEXT,
    parent_entity_id TEXT REFERENCES code_entities(id) ON DELETE CASCADE,
    enrichment_status TEXT NOT NULL DEFAULT 'pending',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Non-code project documents, unique per file path
CREATE TABLE IF NOT EXISTS project_documents (
    id TEXT PRIMARY KEY,
    file_path TEXT NOT NULL UNIQUE,
    title TEXT,
    content_hash TEXT NOT NULL,
    raw_content TEXT,
    summary TEXT,
    enrichment_status TEXT NOT NULL DEFAULT 'pending',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Directed, typed edges between entities; target may be an unresolved symbol.
-- Duplicates across (source, symbol, type) are allowed; readers tolerate them.
CREATE TABLE IF NOT EXISTS code_relationships (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_entity_id TEXT NOT NULL REFERENCES code_entities(id) ON DELETE CASCADE,
    target_entity_id TEXT REFERENCES code_entities(id) ON DELETE CASCADE,
    target_symbol_name TEXT,
    relationship_type TEXT NOT NULL,
    weight REAL DEFAULT 1.0,
    metadata TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Weighted keyword index, unique per (entity, keyword, kind)
CREATE TABLE IF NOT EXISTS entity_keywords (
    entity_id TEXT NOT NULL,
    keyword TEXT NOT NULL,
    weight REAL DEFAULT 1.0,
    kind TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(entity_id, keyword, kind)
);

-- Append-only conversation messages
CREATE TABLE IF NOT EXISTS conversation_messages (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    topic_id TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Hierarchical conversation topic segments
CREATE TABLE IF NOT EXISTS conversation_topics (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    summary TEXT,
    keywords TEXT,
    purpose TEXT NOT NULL DEFAULT 'general',
    start_message_id TEXT,
    end_message_id TEXT,
    parent_topic_id TEXT,
    started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    ended_at DATETIME
);

-- Background enrichment jobs
CREATE TABLE IF NOT EXISTS background_jobs (
    id TEXT PRIMARY KEY,
    target_id TEXT NOT NULL,
    target_type TEXT NOT NULL,
    task_type TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    attempts INTEGER DEFAULT 0,
    max_attempts INTEGER DEFAULT 3,
    last_attempted_at DATETIME,
    error_message TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Commit history used as a retrieval source
CREATE TABLE IF NOT EXISTS commits (
    hash TEXT PRIMARY KEY,
    author TEXT,
    message TEXT,
    committed_at DATETIME
);

CREATE TABLE IF NOT EXISTS commit_files (
    commit_hash TEXT NOT NULL REFERENCES commits(hash) ON DELETE CASCADE,
    file_path TEXT NOT NULL,
    change_kind TEXT NOT NULL DEFAULT 'modified'
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_entities_path ON code_entities(file_path);
CREATE INDEX IF NOT EXISTS idx_entities_parent ON code_entities(parent_entity_id);
CREATE INDEX IF NOT EXISTS idx_entities_status ON code_entities(enrichment_status);
CREATE INDEX IF NOT EXISTS idx_relationships_source ON code_relationships(source_entity_id);
CREATE INDEX IF NOT EXISTS idx_relationships_target ON code_relationships(target_entity_id);
CREATE INDEX IF NOT EXISTS idx_keywords_keyword ON entity_keywords(keyword);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON conversation_messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_topics_conversation ON conversation_topics(conversation_id);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON background_jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_target ON background_jobs(target_id);
CREATE INDEX IF NOT EXISTS idx_commit_files_path ON commit_files(file_path);

-- Full-text index over entity name, content, and summary
CREATE VIRTUAL TABLE IF NOT EXISTS entities_fts USING fts5(
    name, raw_content, summary,
    content='code_entities',
    content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS entities_fts_insert AFTER INSERT ON code_entities BEGIN
    INSERT INTO entities_fts(rowid, name, raw_content, summary)
    VALUES (new.rowid, new.name, new.raw_content, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS entities_fts_delete AFTER DELETE ON code_entities BEGIN
    INSERT INTO entities_fts(entities_fts, rowid, name, raw_content, summary)
    VALUES ('delete', old.rowid, old.name, old.raw_content, old.summary);
END;

CREATE TRIGGER IF NOT EXISTS entities_fts_update AFTER UPDATE ON code_entities BEGIN
    INSERT INTO entities_fts(entities_fts, rowid, name, raw_content, summary)
    VALUES ('delete', old.rowid, old.name, old.raw_content, old.summary);
    INSERT INTO entities_fts(rowid, name, raw_content, summary)
    VALUES (new.rowid, new.name, new.raw_content, new.summary);
END;

-- Full-text index over document title, content, and summary
CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    title, raw_content, summary,
    content='project_documents',
    content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS documents_fts_insert AFTER INSERT ON project_documents BEGIN
    INSERT INTO documents_fts(rowid, title, raw_content, summary)
    VALUES (new.rowid, new.title, new.raw_content, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS documents_fts_delete AFTER DELETE ON project_documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, title, raw_content, summary)
    VALUES ('delete', old.rowid, old.title, old.raw_content, old.summary);
END;

CREATE TRIGGER IF NOT EXISTS documents_fts_update AFTER UPDATE ON project_documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, title, raw_content, summary)
    VALUES ('delete', old.rowid, old.title, old.raw_content, old.summary);
    INSERT INTO documents_fts(rowid, title, raw_content, summary)
    VALUES (new.rowid, new.title, new.raw_content, new.summary);
END;
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
