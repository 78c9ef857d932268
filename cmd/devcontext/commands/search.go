// ABOUTME: CLI command for one-shot context retrieval against a project database
// ABOUTME: Runs the full generate/rank/compress pipeline and prints the snippets
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mandelbro/devcontext-local-sub001/internal/config"
	"github.com/mandelbro/devcontext-local-sub001/internal/retrieval"
)

var (
	searchBudget int
	searchJSON   bool
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Retrieve relevant context for a query",
		Long: `Retrieve a ranked, token-budget-fitted set of context snippets
for a free-text query from the project database.

Examples:
  devcontext search "retry backoff"
  devcontext search --budget 1000 "job queue concurrency"
  devcontext search --json "topic shift detection"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchBudget, "budget", 0, "Token budget for returned snippets (default from config)")
	cmd.Flags().BoolVar(&searchJSON, "json", false, "Print the full result as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

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
	result, err := retriever.Retrieve(cmd.Context(), args[0], "", retrieval.Options{TokenBudget: searchBudget})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if searchJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(result.Snippets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching context found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTYPE\tID\tFILE")
	for _, snippet := range result.Snippets {
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n", snippet.Score, snippet.Kind, truncate(snippet.ID, 40), snippet.FilePath)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stats := result.Stats
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d snippets within %d tokens (%d remaining)\n",
		stats.SnippetsAfter, stats.SnippetsBefore, stats.BudgetGiven, stats.BudgetRemaining)
	return nil
}
