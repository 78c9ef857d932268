// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for serve, search, jobs, and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	dbPath  string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devcontext",
		Short: "Project-scoped context engine for AI coding assistants",
		Long: `DevContext keeps continuously-updated, project-scoped context for AI
coding assistants: indexed code entities and their relationships, enriched
summaries and keywords, conversation topics and focus, and a background
job queue that keeps it all fresh.

Run "devcontext serve" to expose the engine over MCP on stdio, or use the
one-shot commands to inspect a project database directly.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the project database (defaults to the XDG data dir)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewJobsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
