// ABOUTME: Main entry point for the DevContext MCP server with stdio transport
// ABOUTME: Initializes storage, retrieval, continuity, and the job queue with all tools
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mandelbro/devcontext-local-sub001/internal/config"
	"github.com/mandelbro/devcontext-local-sub001/internal/continuity"
	"github.com/mandelbro/devcontext-local-sub001/internal/jobs"
	"github.com/mandelbro/devcontext-local-sub001/internal/llm"
	"github.com/mandelbro/devcontext-local-sub001/internal/mcp"
	"github.com/mandelbro/devcontext-local-sub001/internal/retrieval"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	store, err := sqlite.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	retriever := retrieval.NewRetriever(store, cfg.ContextDecayRate, cfg.MaxSeedEntities, cfg.DefaultTokenBudget)
	manager := continuity.NewManager(store, cfg.TopicShiftThreshold)
	queue := jobs.NewQueue(store)

	// Enrichment is optional: without a key, jobs wait until a service exists
	if cfg.OpenAIKey != "" {
		client, err := llm.NewClientWithConfig(&llm.ClientConfig{
			APIKey:    cfg.OpenAIKey,
			ChatModel: cfg.ChatModel,
			Timeout:   cfg.Timeout,
		})
		if err != nil {
			log.Printf("Warning: failed to initialize OpenAI client: %v", err)
		} else {
			queue.SetEnrichmentService(client)
		}
	} else {
		log.Println("Warning: OPENAI_API_KEY not set - enrichment jobs will stay pending")
	}

	queue.Start(jobs.Options{
		PollInterval:  cfg.JobPollInterval,
		Concurrency:   cfg.JobConcurrency,
		BatchSize:     10,
		DispatchDelay: cfg.JobDispatchDelay,
	})

	server := mcpserver.NewMCPServer(
		"DevContext",
		"0.1.0",
	)
	mcp.RegisterTools(server, store, retriever, manager, queue, cfg)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("DevContext MCP server starting on stdio...")
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received, gracefully shutting down...")
		queue.Stop()
		drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := queue.Drain(drainCtx); err != nil {
			log.Printf("Warning: jobs still in flight at shutdown: %v", err)
		}
		log.Println("Shutdown complete")
	case err := <-serverErr:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}
