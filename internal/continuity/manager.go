// ABOUTME: Per-conversation focus, topic-shift detection, and context integration
// ABOUTME: Exclusive owner of ActiveContextState; callers serialize updates per conversation
package continuity

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
	"github.com/mandelbro/devcontext-local-sub001/internal/retrieval"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
)

// balancedRecencyWindow is how recently an item must have been added to
// survive a balanced-policy topic shift on recency alone
const balancedRecencyWindow = 10 * time.Minute

// NewMessage is one incoming message in an update call
type NewMessage struct {
	Role    models.MessageRole `json:"role"`
	Content string             `json:"content"`
}

// ContextContinuity describes what an update did to the conversation's context
type ContextContinuity struct {
	TopicShift       bool `json:"topic_shift"`
	IntentTransition bool `json:"intent_transition"`
	ContextPreserved bool `json:"context_preserved"`
}

// UpdateResult is the outcome of one context update
type UpdateResult struct {
	UpdatedFocus *models.Focus     `json:"updated_focus,omitempty"`
	Continuity   ContextContinuity `json:"context_continuity"`
	Synthesis    string            `json:"synthesis"`
}

// Manager tracks ActiveContextState for every live conversation.
// The map is guarded for concurrent access across conversations, but updates
// to one conversation must not overlap; there is no per-conversation lock.
type Manager struct {
	store          *sqlite.Store
	shiftThreshold float64

	mu     sync.Mutex
	states map[string]*models.ActiveContextState
}

// NewManager creates a continuity manager over the given store.
// shiftThreshold is the keyword-overlap ratio below which new messages are
// treated as a topic shift.
func NewManager(store *sqlite.Store, shiftThreshold float64) *Manager {
	if shiftThreshold <= 0 {
		shiftThreshold = 0.3
	}
	return &Manager{
		store:          store,
		shiftThreshold: shiftThreshold,
		states:         make(map[string]*models.ActiveContextState),
	}
}

// Init creates (or returns) the active context state for a conversation
func (m *Manager) Init(conversationID string) (*models.ActiveContextState, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("conversation id cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[conversationID]; ok {
		return state, nil
	}
	state := models.NewActiveContextState(conversationID)
	m.states[conversationID] = state
	return state, nil
}

// State returns the current state for a conversation, or nil if not initialized
func (m *Manager) State(conversationID string) *models.ActiveContextState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[conversationID]
}

// Update records new messages, detects topic shifts and intent transitions,
// applies the integration policy, and recomputes focus.
func (m *Manager) Update(conversationID string, newMessages []NewMessage, codeChanges []models.CodeChange, level models.IntegrationLevel) (*UpdateResult, error) {
	state, err := m.Init(conversationID)
	if err != nil {
		return nil, err
	}
	if level == "" {
		level = models.IntegrationBalanced
	}

	contents := m.recordMessages(state, newMessages)

	newTerms := Tokenize(strings.Join(contents, " "))
	shift := m.detectTopicShift(state, newTerms)

	newIntent := ClassifyIntent(contents, codeChanges)
	intentTransition := newIntent != state.Intent && newIntent != models.PurposeGeneral

	preserved := true
	if shift {
		preserved = m.applyIntegrationPolicy(state, level, codeChanges, newIntent)
		m.rolloverTopic(state, newTerms, newIntent)
	} else {
		m.ensureTopic(state, newTerms, newIntent)
	}
	if intentTransition || newIntent != models.PurposeGeneral {
		state.Intent = newIntent
	}

	m.recomputeFocus(state, codeChanges, newTerms)
	m.recordCodeChanges(state, codeChanges)
	state.Phase = models.PhaseActive
	state.UpdatedAt = time.Now().UTC()

	return &UpdateResult{
		UpdatedFocus: state.Focus,
		Continuity: ContextContinuity{
			TopicShift:       shift,
			IntentTransition: intentTransition,
			ContextPreserved: preserved,
		},
		Synthesis: synthesize(state, shift, intentTransition, len(newMessages), len(codeChanges)),
	}, nil
}

// Finalize closes the conversation's open topic and drops its state
func (m *Manager) Finalize(conversationID string) error {
	m.mu.Lock()
	state, ok := m.states[conversationID]
	if ok {
		delete(m.states, conversationID)
	}
	m.mu.Unlock()
	if !ok {
		return nil
	}
	if state.CurrentTopicID != "" {
		if err := m.store.Conversations.CloseTopic(state.CurrentTopicID, ""); err != nil {
			return fmt.Errorf("closing topic %s: %w", state.CurrentTopicID, err)
		}
	}
	state.Phase = models.PhaseFinalized
	return nil
}

// recordMessages persists incoming messages and returns their contents.
// A failed write is logged and skipped; context tracking degrades rather
// than failing the whole update.
func (m *Manager) recordMessages(state *models.ActiveContextState, newMessages []NewMessage) []string {
	contents := make([]string, 0, len(newMessages))
	for _, nm := range newMessages {
		contents = append(contents, nm.Content)
		msg, err := models.NewConversationMessage(state.ConversationID, nm.Role, nm.Content)
		if err != nil {
			log.Printf("[Continuity] skipping invalid message: %v", err)
			continue
		}
		msg.TopicID = state.CurrentTopicID
		if err := m.store.Conversations.SaveMessage(msg); err != nil {
			log.Printf("[Continuity] message write failed: %v", err)
		}
	}
	return contents
}

// detectTopicShift compares new message terms against the current topic's
// keywords. Overlap below the threshold is a shift. No current topic or no
// extractable terms is never a shift.
func (m *Manager) detectTopicShift(state *models.ActiveContextState, newTerms []string) bool {
	if state.CurrentTopicID == "" || len(newTerms) == 0 {
		return false
	}
	topic, err := m.store.Conversations.GetOpenTopic(state.ConversationID)
	if err != nil {
		log.Printf("[Continuity] topic load failed: %v", err)
		return false
	}
	if topic == nil || len(topic.Keywords) == 0 {
		return false
	}

	topicSet := make(map[string]bool, len(topic.Keywords))
	for _, kw := range topic.Keywords {
		topicSet[strings.ToLower(kw)] = true
	}
	matches := 0
	for _, term := range newTerms {
		if topicSet[term] {
			matches++
		}
	}
	overlap := float64(matches) / float64(len(newTerms))
	return overlap < m.shiftThreshold
}

// applyIntegrationPolicy merges old context into the new topic.
// Returns whether any prior context was preserved.
func (m *Manager) applyIntegrationPolicy(state *models.ActiveContextState, level models.IntegrationLevel, codeChanges []models.CodeChange, newIntent models.PurposeTag) bool {
	switch level {
	case models.IntegrationMinimal:
		state.RecentItems = []models.ContextItem{}
		return false
	case models.IntegrationAggressive:
		return len(state.RecentItems) > 0
	default:
		return m.applyBalanced(state, codeChanges, newIntent)
	}
}

// applyBalanced keeps items still tied to the new focus, to touched files,
// or recent enough to matter, and re-prioritizes surviving code items.
func (m *Manager) applyBalanced(state *models.ActiveContextState, codeChanges []models.CodeChange, newIntent models.PurposeTag) bool {
	touched := make(map[string]bool, len(codeChanges))
	for _, change := range codeChanges {
		touched[change.FilePath] = true
	}
	cutoff := time.Now().UTC().Add(-balancedRecencyWindow)

	kept := state.RecentItems[:0]
	for _, item := range state.RecentItems {
		switch {
		case state.Focus != nil && item.Identifier == state.Focus.Identifier:
		case touched[item.Identifier]:
		case item.AddedAt.After(cutoff):
		default:
			continue
		}
		if item.Kind == models.ContextItemCode || item.Kind == models.ContextItemFile {
			// Code context matters more when the new intent is code-centric
			if newIntent == models.PurposeDebugging || newIntent == models.PurposeCodeGeneration {
				item.Priority *= 1.25
			} else {
				item.Priority *= 0.75
			}
		}
		kept = append(kept, item)
	}
	state.RecentItems = kept
	return len(kept) > 0
}

// rolloverTopic closes the current topic row and opens one for the new terms
func (m *Manager) rolloverTopic(state *models.ActiveContextState, newTerms []string, intent models.PurposeTag) {
	if state.CurrentTopicID != "" {
		if err := m.store.Conversations.CloseTopic(state.CurrentTopicID, ""); err != nil {
			log.Printf("[Continuity] topic close failed: %v", err)
		}
	}
	topic := models.NewConversationTopic(state.ConversationID, intent, topKeywords(newTerms, 10))
	topic.ParentTopicID = state.CurrentTopicID
	if err := m.store.Conversations.SaveTopic(topic); err != nil {
		log.Printf("[Continuity] topic open failed: %v", err)
		return
	}
	state.CurrentTopicID = topic.ID
}

// ensureTopic opens the conversation's first topic when none exists yet
func (m *Manager) ensureTopic(state *models.ActiveContextState, newTerms []string, intent models.PurposeTag) {
	if state.CurrentTopicID != "" || len(newTerms) == 0 {
		return
	}
	topic := models.NewConversationTopic(state.ConversationID, intent, topKeywords(newTerms, 10))
	if err := m.store.Conversations.SaveTopic(topic); err != nil {
		log.Printf("[Continuity] topic open failed: %v", err)
		return
	}
	state.CurrentTopicID = topic.ID
}

// recomputeFocus prefers the most recently changed file, then the topic area
func (m *Manager) recomputeFocus(state *models.ActiveContextState, codeChanges []models.CodeChange, newTerms []string) {
	if len(codeChanges) > 0 {
		state.Focus = &models.Focus{
			Type:       models.FocusFile,
			Identifier: codeChanges[len(codeChanges)-1].FilePath,
		}
		return
	}
	if state.Focus == nil && len(newTerms) > 0 {
		state.Focus = &models.Focus{
			Type:       models.FocusTopic,
			Identifier: newTerms[0],
		}
	}
}

// recordCodeChanges appends changed files to the recent-context list
func (m *Manager) recordCodeChanges(state *models.ActiveContextState, codeChanges []models.CodeChange) {
	now := time.Now().UTC()
	for _, change := range codeChanges {
		state.RecentItems = append(state.RecentItems, models.ContextItem{
			Kind:       models.ContextItemFile,
			Identifier: change.FilePath,
			Content:    change.Summary,
			Priority:   1.0,
			AddedAt:    now,
		})
	}
}

func synthesize(state *models.ActiveContextState, shift, intentTransition bool, messageCount, changeCount int) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("recorded %d message(s) and %d code change(s)", messageCount, changeCount))
	if shift {
		parts = append(parts, "topic shift absorbed")
	}
	if intentTransition {
		parts = append(parts, fmt.Sprintf("intent now %s", state.Intent))
	}
	if state.Focus != nil {
		parts = append(parts, fmt.Sprintf("focus on %s", state.Focus.Identifier))
	}
	return strings.Join(parts, "; ")
}

// topKeywords keeps the first n distinct terms
func topKeywords(terms []string, n int) []string {
	if len(terms) <= n {
		return terms
	}
	return terms[:n]
}

// Tokenize re-exports the retrieval tokenizer so topic-shift detection and
// retrieval agree on what a term is
func Tokenize(text string) []string {
	return retrieval.Tokenize(text)
}
