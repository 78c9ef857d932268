// ABOUTME: Serve command starts the MCP server on stdio
// ABOUTME: Enables coding assistants to use the context engine via MCP
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mandelbro/devcontext-local-sub001/internal/config"
	"github.com/mandelbro/devcontext-local-sub001/internal/continuity"
	"github.com/mandelbro/devcontext-local-sub001/internal/jobs"
	"github.com/mandelbro/devcontext-local-sub001/internal/llm"
	"github.com/mandelbro/devcontext-local-sub001/internal/mcp"
	"github.com/mandelbro/devcontext-local-sub001/internal/retrieval"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server for coding assistants",
		Long: `Start the context engine as an MCP (Model Context Protocol) server
on stdio, exposing retrieval, conversation continuity, and enrichment
job tools to coding assistants.`,
		RunE: runServe,
		Example: `  # Start the MCP server (typically launched by the assistant)
  devcontext serve

  # Configure in the assistant's MCP config:
  # {
  #   "mcpServers": {
  #     "devcontext": {
  #       "command": "devcontext",
  #       "args": ["serve"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	retriever := retrieval.NewRetriever(store, cfg.ContextDecayRate, cfg.MaxSeedEntities, cfg.DefaultTokenBudget)
	manager := continuity.NewManager(store, cfg.TopicShiftThreshold)
	queue := jobs.NewQueue(store)

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
			if verbose {
				log.Println("OpenAI enrichment client initialized")
			}
		}
	} else if !quiet {
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

	if !quiet {
		log.Println("DevContext MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
		queue.Stop()
		drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := queue.Drain(drainCtx); err != nil {
			log.Printf("Warning: jobs still in flight at shutdown: %v", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

// openStore opens the project database from the --db flag, the config, or
// the default XDG location
func openStore(cfg *config.Config) (*sqlite.Store, error) {
	path := dbPath
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		path = sqlite.DefaultDBPath()
	}
	store, err := sqlite.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}
