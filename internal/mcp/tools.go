// ABOUTME: MCP tool definitions and registration for the context engine server
// ABOUTME: Defines JSON schemas for the retrieval, continuity, and job lifecycle tools
package mcp

import (
	"github.com/mandelbro/devcontext-local-sub001/internal/config"
	"github.com/mandelbro/devcontext-local-sub001/internal/continuity"
	"github.com/mandelbro/devcontext-local-sub001/internal/jobs"
	"github.com/mandelbro/devcontext-local-sub001/internal/retrieval"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Store, retriever *retrieval.Retriever, manager *continuity.Manager, queue *jobs.Queue, cfg *config.Config) *Handlers {
	handlers := &Handlers{
		store:     store,
		retriever: retriever,
		manager:   manager,
		queue:     queue,
		cfg:       cfg,
	}

	// 1. retrieve_relevant_context - assemble budget-fitted context for a query
	server.AddTool(mcp.Tool{
		Name:        "retrieve_relevant_context",
		Description: "Retrieve a ranked, deduplicated, token-budget-fitted set of context snippets for a free-text query, drawn from code entities, documents, keywords, the relationship graph, conversation history, and commits.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text query to retrieve context for",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation whose focus and history prioritize results",
				},
				"token_budget": map[string]interface{}{
					"type":        "number",
					"description": "Maximum combined snippet size in estimated tokens (default from config)",
				},
				"relationship_types": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional filter for one-hop relationship expansion (calls, extends, implements, imports, references, defines_child)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.RetrieveRelevantContext)

	// 2. update_conversation_context - record messages/changes, track focus and topic shifts
	server.AddTool(mcp.Tool{
		Name:        "update_conversation_context",
		Description: "Record new conversation messages and code changes, detect topic shifts and intent transitions, and update the conversation's focus under an integration policy.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to update",
				},
				"new_messages": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"role":    map[string]interface{}{"type": "string"},
							"content": map[string]interface{}{"type": "string"},
						},
						"required": []string{"content"},
					},
					"description": "Messages added since the last update",
				},
				"code_changes": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"file_path": map[string]interface{}{"type": "string"},
							"kind":      map[string]interface{}{"type": "string"},
							"summary":   map[string]interface{}{"type": "string"},
						},
						"required": []string{"file_path"},
					},
					"description": "Files touched during this turn",
				},
				"integration_level": map[string]interface{}{
					"type":        "string",
					"description": "How to merge old context on a topic shift: minimal, balanced (default), or aggressive",
				},
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.UpdateConversationContext)

	// 3. initialize_conversation_context - create the per-conversation state
	server.AddTool(mcp.Tool{
		Name:        "initialize_conversation_context",
		Description: "Initialize active context tracking for a conversation. Idempotent.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to start tracking",
				},
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.InitializeConversationContext)

	// 4. finalize_conversation_context - close topics and drop state
	server.AddTool(mcp.Tool{
		Name:        "finalize_conversation_context",
		Description: "Finalize a conversation: close its open topic and discard its active context state.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to finalize",
				},
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.FinalizeConversationContext)

	// 5. enqueue_enrichment_job - schedule background summary/keyword generation
	server.AddTool(mcp.Tool{
		Name:        "enqueue_enrichment_job",
		Description: "Enqueue a background job that generates an AI summary and keywords for a code entity or project document.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"target_id": map[string]interface{}{
					"type":        "string",
					"description": "Entity or document id to enrich",
				},
				"target_type": map[string]interface{}{
					"type":        "string",
					"description": "What the target id refers to: entity (default) or document",
				},
			},
			Required: []string{"target_id"},
		},
	}, handlers.EnqueueEnrichmentJob)

	// 6. cancel_entity_jobs - drop pending work for an entity
	server.AddTool(mcp.Tool{
		Name:        "cancel_entity_jobs",
		Description: "Cancel pending and retrying enrichment jobs for an entity. Completed and failed jobs are untouched.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"entity_id": map[string]interface{}{
					"type":        "string",
					"description": "Entity whose cancellable jobs are deleted",
				},
			},
			Required: []string{"entity_id"},
		},
	}, handlers.CancelEntityJobs)

	return handlers
}
