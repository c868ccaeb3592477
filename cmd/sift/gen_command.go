package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sift/internal/config"
	"sift/internal/dataset"
)

func newGenCommand(ctx *commandContext) *cobra.Command {
	var count int
	var seed int64
	var outputPath string

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a server dataset file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = filepath.Join(cfg.Paths.DataDir, "servers.json")
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				target = expanded
			}

			records := dataset.Generate(count, seed)
			if err := dataset.Save(target, records); err != nil {
				return fmt.Errorf("save dataset: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s records to %s\n", formatCount(len(records)), target)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 100, "Number of server records to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Generator seed; identical seeds reproduce identical datasets")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Dataset file (defaults to servers.json in the data directory)")
	return cmd
}
