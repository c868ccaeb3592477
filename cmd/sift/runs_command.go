package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sift/internal/journal"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent pipeline runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortRunID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					formatCount(run.Workers),
					formatCount(run.Received),
					formatCount(run.Sent),
					run.Elapsed.Round(time.Millisecond).String(),
					yesNo(run.Clean),
				})
			}
			headers := []string{"Run", "Started", "Workers", "Received", "Sent", "Elapsed", "Clean"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
