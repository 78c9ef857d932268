// ABOUTME: Conversation message and topic storage operations
// ABOUTME: Messages are append-only; topics bound message spans with purpose tags
package sqlite

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// ConversationStore handles conversation message and topic persistence
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// SaveMessage appends a message to a conversation
func (s *ConversationStore) SaveMessage(msg *models.ConversationMessage) error {
	_, err := s.db.Exec(`
		INSERT INTO conversation_messages (id, conversation_id, role, content, topic_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, string(msg.Role), msg.Content,
		nullIfEmpty(msg.TopicID), msg.Timestamp)
	return err
}

// GetRecentMessages returns the newest messages of a conversation, oldest first
func (s *ConversationStore) GetRecentMessages(conversationID string, limit int) ([]models.ConversationMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, conversation_id, role, content, topic_id, created_at
		FROM (
			SELECT id, conversation_id, role, content, topic_id, created_at
			FROM conversation_messages
			WHERE conversation_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		)
		ORDER BY created_at ASC
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// SearchMessages finds messages matching any term, prioritizing the active
// conversation, newest first. Empty terms return nil.
func (s *ConversationStore) SearchMessages(terms []string, activeConversationID string, limit int) ([]models.ConversationMessage, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	conditions := make([]string, len(terms))
	args := make([]interface{}, 0, len(terms)+2)
	for i, term := range terms {
		conditions[i] = "content LIKE ?"
		args = append(args, "%"+term+"%")
	}
	args = append(args, activeConversationID, limit)

	rows, err := s.db.Query(`
		SELECT id, conversation_id, role, content, topic_id, created_at
		FROM conversation_messages
		WHERE `+strings.Join(conditions, " OR ")+`
		ORDER BY (conversation_id = ?) DESC, created_at DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// SaveTopic saves or updates a conversation topic
func (s *ConversationStore) SaveTopic(topic *models.ConversationTopic) error {
	keywordsJSON, err := json.Marshal(topic.Keywords)
	if err != nil {
		return err
	}

	var endedAt interface{}
	if topic.EndedAt != nil {
		endedAt = *topic.EndedAt
	}

	_, err = s.db.Exec(`
		INSERT INTO conversation_topics (id, conversation_id, summary, keywords, purpose,
			start_message_id, end_message_id, parent_topic_id, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			summary = excluded.summary,
			keywords = excluded.keywords,
			purpose = excluded.purpose,
			start_message_id = excluded.start_message_id,
			end_message_id = excluded.end_message_id,
			ended_at = excluded.ended_at
	`, topic.ID, topic.ConversationID, nullIfEmpty(topic.Summary), string(keywordsJSON),
		string(topic.Purpose), nullIfEmpty(topic.StartMessageID), nullIfEmpty(topic.EndMessageID),
		nullIfEmpty(topic.ParentTopicID), topic.StartedAt, endedAt)
	return err
}

// GetOpenTopic returns the newest topic of a conversation without an end bound,
// or (nil, nil) when the conversation has no open topic
func (s *ConversationStore) GetOpenTopic(conversationID string) (*models.ConversationTopic, error) {
	rows, err := s.db.Query(`
		SELECT id, conversation_id, summary, keywords, purpose,
			start_message_id, end_message_id, parent_topic_id, started_at, ended_at
		FROM conversation_topics
		WHERE conversation_id = ? AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	topics, err := scanTopics(rows)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, nil
	}
	return &topics[0], nil
}

// CloseTopic marks a topic as ended at the given message
func (s *ConversationStore) CloseTopic(topicID, endMessageID string) error {
	_, err := s.db.Exec(`
		UPDATE conversation_topics
		SET end_message_id = ?, ended_at = ?
		WHERE id = ?
	`, nullIfEmpty(endMessageID), time.Now().UTC(), topicID)
	return err
}

// SearchTopics finds topics whose summary or keywords match any term.
// Empty terms return nil.
func (s *ConversationStore) SearchTopics(terms []string, limit int) ([]models.ConversationTopic, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(terms)*2)
	args := make([]interface{}, 0, len(terms)*2+1)
	for _, term := range terms {
		conditions = append(conditions, "summary LIKE ?", "keywords LIKE ?")
		pattern := "%" + term + "%"
		args = append(args, pattern, pattern)
	}
	args = append(args, limit)

	rows, err := s.db.Query(`
		SELECT id, conversation_id, summary, keywords, purpose,
			start_message_id, end_message_id, parent_topic_id, started_at, ended_at
		FROM conversation_topics
		WHERE `+strings.Join(conditions, " OR ")+`
		ORDER BY started_at DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTopics(rows)
}

// scanMessages scans rows into a slice of ConversationMessage
func scanMessages(rows *sql.Rows) ([]models.ConversationMessage, error) {
	var messages []models.ConversationMessage
	for rows.Next() {
		var (
			msg     models.ConversationMessage
			role    string
			topicID sql.NullString
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content,
			&topicID, &msg.Timestamp); err != nil {
			return nil, err
		}
		msg.Role = models.MessageRole(role)
		msg.TopicID = topicID.String
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// scanTopics scans rows into a slice of ConversationTopic
func scanTopics(rows *sql.Rows) ([]models.ConversationTopic, error) {
	var topics []models.ConversationTopic
	for rows.Next() {
		var (
			topic        models.ConversationTopic
			summary      sql.NullString
			keywordsJSON sql.NullString
			purpose      string
			startMsg     sql.NullString
			endMsg       sql.NullString
			parentID     sql.NullString
			endedAt      sql.NullTime
		)
		if err := rows.Scan(&topic.ID, &topic.ConversationID, &summary, &keywordsJSON,
			&purpose, &startMsg, &endMsg, &parentID, &topic.StartedAt, &endedAt); err != nil {
			return nil, err
		}

		topic.Summary = summary.String
		topic.Purpose = models.PurposeTag(purpose)
		topic.StartMessageID = startMsg.String
		topic.EndMessageID = endMsg.String
		topic.ParentTopicID = parentID.String

		if keywordsJSON.Valid && keywordsJSON.String != "" {
			if err := json.Unmarshal([]byte(keywordsJSON.String), &topic.Keywords); err != nil {
				topic.Keywords = []string{}
			}
		} else {
			topic.Keywords = []string{}
		}

		if endedAt.Valid {
			t := endedAt.Time
			topic.EndedAt = &t
		}

		topics = append(topics, topic)
	}
	return topics, rows.Err()
}
