package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/search-pr/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is cached for a repository",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	repo, err := resolveRepo(cmd.Context())
	if err != nil {
		return err
	}
	if err := ensureServices(cmd, false); err != nil {
		return err
	}

	status, err := syncOrchestrator.Status(cmd.Context(), repo)
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	cmd.Printf("Repository:    %s\n", status.Repo)
	if status.Watermark == nil {
		cmd.Println("Watermark:     never synchronised")
	} else {
		cmd.Printf("Watermark:     %s\n", domain.FormatTimestamp(status.Watermark.Timestamp))
		cmd.Printf("Tie IDs:       %v\n", status.Watermark.TieIDs)
	}
	cmd.Printf("Indexed PRs:   %d\n", status.IndexedPRs)

	if run := status.LastRun; run != nil {
		cmd.Printf("Last run:      %s (%s) at %s\n", run.ID, run.Mode, run.FinishedAt.Local().Format(time.DateTime))
		cmd.Printf("               %d refreshed, %d retired, %d unchanged\n", run.Refreshed, run.Retired, run.Skipped)
	}
	return nil
}
