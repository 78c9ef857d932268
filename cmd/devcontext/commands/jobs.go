// ABOUTME: CLI command showing background enrichment job status counts
// ABOUTME: Reads the job table directly; the queue itself runs inside serve
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mandelbro/devcontext-local-sub001/internal/config"
	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// NewJobsCmd creates the jobs command
func NewJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show enrichment job queue status",
		Long: `Show background enrichment job counts by status.

Examples:
  devcontext jobs
  devcontext jobs --db ./project.db`,
		RunE: runJobs,
	}

	return cmd
}

func runJobs(cmd *cobra.Command, args []string) error {
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

	counts, err := store.Jobs.CountByStatus()
	if err != nil {
		return fmt.Errorf("reading job counts: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tCOUNT")
	total := 0
	for _, status := range []models.JobStatus{models.JobPending, models.JobRetryAI, models.JobCompleted, models.JobFailed} {
		fmt.Fprintf(w, "%s\t%d\n", status, counts[status])
		total += counts[status]
	}
	fmt.Fprintf(w, "total\t%d\n", total)
	return w.Flush()
}
