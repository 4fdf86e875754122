package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amertu/ocr-converter/internal/storage"
)

func HistoryCmd(store *storage.Store) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if store == nil {
				return fmt.Errorf("run history store is unavailable")
			}
			limit, _ := cmd.Flags().GetInt("limit")

			runs, err := store.ListRecent(limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			fmt.Println("--- Recent runs ---")
			fmt.Println("Started\t\t\tInputs\tProcessed\tSkipped\tFailed\tTook\tLog")
			for _, run := range runs {
				fmt.Printf("%s\t%d\t%d\t\t%d\t%d\t%.1fs\t%s\n",
					run.StartedAt.Format("2006-01-02 15:04:05"),
					run.Inputs, run.Processed, run.Skipped, run.Failed,
					storage.RunDuration(run).Seconds(), run.LogPath)
			}
			return nil
		},
	}
	historyCmd.Flags().Int("limit", 10, "Maximum number of runs to show")

	totalsCmd := &cobra.Command{
		Use:   "totals",
		Short: "Show aggregate counts across all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if store == nil {
				return fmt.Errorf("run history store is unavailable")
			}
			totals, err := store.Totals()
			if err != nil {
				return fmt.Errorf("failed to get totals: %w", err)
			}

			fmt.Println("--- Run totals ---")
			for _, key := range []string{"runs", "inputs", "processed", "skipped", "failed"} {
				fmt.Printf("%s: \t%d\n", key, totals[key])
			}
			return nil
		},
	}
	historyCmd.AddCommand(totalsCmd)

	return historyCmd
}
