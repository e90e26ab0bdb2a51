package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded training runs",
		Long: `History lists past training runs recorded in the local database.

Each row shows the run id, timestamp, classifier, dataset, holdout
accuracy, and the artifact digest the run produced.

Examples:
  phishguard history
  phishguard history --limit 50
  phishguard history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10, "Maximum number of runs to list (0 = all)")
	cmd.Flags().BoolP("json", "j", false, "Output the run list as JSON")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	setupLogger(getVerboseFlag(cmd))

	// Listing never creates the database.
	opts := history.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := history.Open(dbDir, opts)
	if err != nil {
		if errors.Is(err, history.ErrDatabaseNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No training runs recorded yet.")
			return nil
		}
		return err
	}
	defer db.Close() //nolint:errcheck // Best effort close

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No training runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "%-5s %-20s %-18s %-9s %-14s %s\n",
		"ID", "DATE", "CLASSIFIER", "ACCURACY", "DIGEST", "DATASET")
	for _, r := range runs {
		digest := r.ArtifactDigest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		fmt.Fprintf(out, "%-5d %-20s %-18s %-9s %-14s %s\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.ClassifierKind,
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			digest,
			r.DatasetPath,
		)
	}
	return nil
}
