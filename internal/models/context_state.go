// ABOUTME: ActiveContextState is the per-conversation working focus and recent context
// ABOUTME: Process-local only; owned exclusively by the continuity manager
package models

import "time"

// FocusType classifies what kind of thing the conversation is centered on
type FocusType string

const (
	FocusFile   FocusType = "file"
	FocusEntity FocusType = "entity"
	FocusTopic  FocusType = "topic"
)

// Focus identifies the current center of attention for a conversation
type Focus struct {
	Type       FocusType `json:"type"`
	Identifier string    `json:"identifier"`
}

// ContextItemKind classifies a recent-context item
type ContextItemKind string

const (
	ContextItemCode     ContextItemKind = "code"
	ContextItemFile     ContextItemKind = "file"
	ContextItemDocument ContextItemKind = "document"
	ContextItemNote     ContextItemKind = "note"
)

// ContextItem is one entry in the ordered recent-context list
type ContextItem struct {
	Kind       ContextItemKind `json:"kind"`
	Identifier string          `json:"identifier"`
	Content    string          `json:"content,omitempty"`
	Priority   float64         `json:"priority"`
	AddedAt    time.Time       `json:"added_at"`
}

// IntegrationLevel selects how old context is merged after a topic shift
type IntegrationLevel string

const (
	IntegrationMinimal    IntegrationLevel = "minimal"
	IntegrationBalanced   IntegrationLevel = "balanced"
	IntegrationAggressive IntegrationLevel = "aggressive"
)

// ContextPhase is the lifecycle phase of a conversation's context state
type ContextPhase string

const (
	PhaseEmpty     ContextPhase = "empty"
	PhaseActive    ContextPhase = "active"
	PhaseFinalized ContextPhase = "finalized"
)

// ActiveContextState holds the mutable per-conversation context.
// Not persisted across restarts. Single writer per conversation.
type ActiveContextState struct {
	ConversationID string        `json:"conversation_id"`
	Phase          ContextPhase  `json:"phase"`
	Focus          *Focus        `json:"focus,omitempty"`
	RecentItems    []ContextItem `json:"recent_items"`
	Intent         PurposeTag    `json:"intent"`
	CurrentTopicID string        `json:"current_topic_id,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewActiveContextState creates an empty context state for a conversation
func NewActiveContextState(conversationID string) *ActiveContextState {
	return &ActiveContextState{
		ConversationID: conversationID,
		Phase:          PhaseEmpty,
		RecentItems:    []ContextItem{},
		Intent:         PurposeGeneral,
		UpdatedAt:      time.Now().UTC(),
	}
}
