// ABOUTME: Conversation messages and hierarchical topic segments
// ABOUTME: Messages are append-only; topics bound a span of messages with a purpose tag
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the author of a conversation message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ConversationMessage is one append-only message in a conversation
type ConversationMessage struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	TopicID        string      `json:"topic_id,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// NewConversationMessage creates a message with validation
func NewConversationMessage(conversationID string, role MessageRole, content string) (*ConversationMessage, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, errors.New("conversation id cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("message content cannot be empty")
	}
	return &ConversationMessage{
		ID:             fmt.Sprintf("msg_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8]),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// PurposeTag classifies the intent of a conversation span
type PurposeTag string

const (
	PurposeDebugging       PurposeTag = "debugging"
	PurposeFeaturePlanning PurposeTag = "feature-planning"
	PurposeCodeReview      PurposeTag = "code-review"
	PurposeLearning        PurposeTag = "learning"
	PurposeCodeGeneration  PurposeTag = "code-generation"
	PurposeGeneral         PurposeTag = "general"
)

// ConversationTopic is a segmented span of a conversation.
// Start/end bounds are optional while the topic is still open.
type ConversationTopic struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	Summary        string     `json:"summary,omitempty"`
	Keywords       []string   `json:"keywords,omitempty"`
	Purpose        PurposeTag `json:"purpose"`
	StartMessageID string     `json:"start_message_id,omitempty"`
	EndMessageID   string     `json:"end_message_id,omitempty"`
	ParentTopicID  string     `json:"parent_topic_id,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

// NewConversationTopic creates an open topic for a conversation
func NewConversationTopic(conversationID string, purpose PurposeTag, keywords []string) *ConversationTopic {
	return &ConversationTopic{
		ID:             fmt.Sprintf("topic_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8]),
		ConversationID: conversationID,
		Purpose:        purpose,
		Keywords:       keywords,
		StartedAt:      time.Now().UTC(),
	}
}
