// ABOUTME: MCP tool handler implementations for the context engine server
// ABOUTME: Handlers never error across the boundary; failures become processed_ok:false results
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mandelbro/devcontext-local-sub001/internal/config"
	"github.com/mandelbro/devcontext-local-sub001/internal/continuity"
	"github.com/mandelbro/devcontext-local-sub001/internal/jobs"
	"github.com/mandelbro/devcontext-local-sub001/internal/models"
	"github.com/mandelbro/devcontext-local-sub001/internal/retrieval"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store     *sqlite.Store
	retriever *retrieval.Retriever
	manager   *continuity.Manager
	queue     *jobs.Queue
	cfg       *config.Config
}

// RetrieveRelevantContext handles the retrieve_relevant_context tool
func (h *Handlers) RetrieveRelevantContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	conversationID := request.GetString("conversation_id", "")
	tokenBudget := request.GetInt("token_budget", h.cfg.DefaultTokenBudget)

	opts := retrieval.Options{TokenBudget: tokenBudget}
	if conversationID != "" {
		if state := h.manager.State(conversationID); state != nil {
			opts.Focus = state.Focus
		}
	}
	for _, name := range stringArrayArg(request, "relationship_types") {
		opts.Constraints.RelationshipTypes = append(opts.Constraints.RelationshipTypes, models.RelationshipType(name))
	}

	result, err := h.retriever.Retrieve(ctx, query, conversationID, opts)
	if err != nil {
		return failureResult("retrieval failed", err)
	}

	return successResult(map[string]interface{}{
		"context_snippets":  result.Snippets,
		"retrieval_summary": result.Stats,
		"processed_ok":      true,
	})
}

// UpdateConversationContext handles the update_conversation_context tool
func (h *Handlers) UpdateConversationContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}

	args := request.GetArguments()
	newMessages := parseMessages(args["new_messages"])
	codeChanges := parseCodeChanges(args["code_changes"])
	level := models.IntegrationLevel(request.GetString("integration_level", string(models.IntegrationBalanced)))
	switch level {
	case models.IntegrationMinimal, models.IntegrationBalanced, models.IntegrationAggressive:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown integration_level %q", level)), nil
	}

	result, err := h.manager.Update(conversationID, newMessages, codeChanges, level)
	if err != nil {
		return failureResult("context update failed", err)
	}

	return successResult(map[string]interface{}{
		"updated_focus":      result.UpdatedFocus,
		"context_continuity": result.Continuity,
		"synthesis":          result.Synthesis,
		"processed_ok":       true,
	})
}

// InitializeConversationContext handles the initialize_conversation_context tool
func (h *Handlers) InitializeConversationContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}

	state, err := h.manager.Init(conversationID)
	if err != nil {
		return failureResult("initialization failed", err)
	}

	return successResult(map[string]interface{}{
		"conversation_id": state.ConversationID,
		"phase":           string(state.Phase),
		"processed_ok":    true,
	})
}

// FinalizeConversationContext handles the finalize_conversation_context tool
func (h *Handlers) FinalizeConversationContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}

	if err := h.manager.Finalize(conversationID); err != nil {
		return failureResult("finalization failed", err)
	}

	return successResult(map[string]interface{}{
		"conversation_id": conversationID,
		"processed_ok":    true,
	})
}

// EnqueueEnrichmentJob handles the enqueue_enrichment_job tool
func (h *Handlers) EnqueueEnrichmentJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetID, err := request.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError("target_id argument is required and must be a string"), nil
	}

	targetType := models.TargetType(request.GetString("target_type", string(models.TargetEntity)))
	taskType := models.TaskEnrichEntity
	switch targetType {
	case models.TargetEntity:
	case models.TargetDocument:
		taskType = models.TaskEnrichDocument
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown target_type %q", targetType)), nil
	}

	job, err := models.NewBackgroundJob(targetID, targetType, taskType, h.cfg.JobMaxAttempts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.queue.Enqueue(job); err != nil {
		return failureResult("enqueue failed", err)
	}

	return successResult(map[string]interface{}{
		"job_id":       job.ID,
		"status":       string(job.Status),
		"processed_ok": true,
	})
}

// CancelEntityJobs handles the cancel_entity_jobs tool
func (h *Handlers) CancelEntityJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityID, err := request.RequireString("entity_id")
	if err != nil {
		return mcp.NewToolResultError("entity_id argument is required and must be a string"), nil
	}

	deleted, err := h.queue.CancelForEntity(entityID)
	if err != nil {
		return failureResult("cancellation failed", err)
	}

	return successResult(map[string]interface{}{
		"deleted_count": deleted,
		"processed_ok":  true,
	})
}

// successResult marshals a response map into a text tool result
func successResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// failureResult reports an operational failure as a structured processed_ok:false
// payload instead of erroring across the protocol boundary
func failureResult(message string, err error) (*mcp.CallToolResult, error) {
	log.Printf("[MCP] %s: %v", message, err)
	return successResult(map[string]interface{}{
		"processed_ok": false,
		"error":        fmt.Sprintf("%s: %v", message, err),
	})
}

// stringArrayArg reads an optional array-of-strings argument
func stringArrayArg(request mcp.CallToolRequest, key string) []string {
	val, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	arr, ok := val.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// parseMessages decodes the new_messages argument, defaulting roles to user
func parseMessages(val interface{}) []continuity.NewMessage {
	arr, ok := val.([]interface{})
	if !ok {
		return nil
	}
	messages := make([]continuity.NewMessage, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		content, _ := obj["content"].(string)
		if content == "" {
			continue
		}
		role, _ := obj["role"].(string)
		if role == "" {
			role = string(models.RoleUser)
		}
		messages = append(messages, continuity.NewMessage{
			Role:    models.MessageRole(role),
			Content: content,
		})
	}
	return messages
}

// parseCodeChanges decodes the code_changes argument
func parseCodeChanges(val interface{}) []models.CodeChange {
	arr, ok := val.([]interface{})
	if !ok {
		return nil
	}
	changes := make([]models.CodeChange, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		filePath, _ := obj["file_path"].(string)
		if filePath == "" {
			continue
		}
		kind, _ := obj["kind"].(string)
		if kind == "" {
			kind = string(models.ChangeModified)
		}
		summary, _ := obj["summary"].(string)
		changes = append(changes, models.CodeChange{
			FilePath: filePath,
			Kind:     models.ChangeKind(kind),
			Summary:  summary,
		})
	}
	return changes
}
