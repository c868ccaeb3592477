package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sift/internal/config"
	"sift/internal/dataset"
	"sift/internal/logging"
	"sift/internal/transport"
	"sift/internal/wire"
)

func newFeedCommand(ctx *commandContext) *cobra.Command {
	var datasetPath string
	var count int
	var seed int64
	var outputPath string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Emulate the peer: push a dataset and collect the results",
		Long: `Feed takes the peer's side of both endpoints: it binds the results PULL
socket, pushes one task frame per dataset record to the pipeline's ingest
endpoint, and collects scored results until the pipeline signals
end-of-stream. Start "sift run" first in another terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runFeed(cmd.Context(), cfg, feedOptions{
				datasetPath: datasetPath,
				count:       count,
				seed:        seed,
				outputPath:  outputPath,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset file to feed (generated when omitted)")
	cmd.Flags().IntVar(&count, "count", 100, "Records to generate when no dataset is given")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Generator seed when no dataset is given")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report file (defaults to a timestamped file in the results directory)")
	return cmd
}

type feedOptions struct {
	datasetPath string
	count       int
	seed        int64
	outputPath  string
}

func runFeed(cmdCtx context.Context, cfg *config.Config, opts feedOptions, out io.Writer) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logging.NewComponentLogger(logger, "feed")

	records, err := loadOrGenerate(cfg, opts, logger)
	if err != nil {
		return err
	}

	collector := transport.NewReceiver(signalCtx, cfg.Endpoints.DispatchConnect)
	if err := collector.Bind(); err != nil {
		return fmt.Errorf("bind results endpoint: %w", err)
	}
	defer collector.Close()

	feeder := transport.NewSender(signalCtx, cfg.Endpoints.IngestBind)
	if err := connectWithRetry(feeder, cfg, logger); err != nil {
		return err
	}
	defer feeder.Close()

	var results []wire.Result
	group, _ := errgroup.WithContext(signalCtx)
	group.Go(func() error {
		for _, record := range records {
			if err := feeder.Send(wire.EncodeTask(record.Task())); err != nil {
				return fmt.Errorf("push task %d: %w", record.ID, err)
			}
		}
		if err := feeder.Send(wire.StopFrame()); err != nil {
			return fmt.Errorf("push end-of-stream: %w", err)
		}
		logger.Info("dataset pushed", logging.Int("records", len(records)))
		return nil
	})
	group.Go(func() error {
		for {
			frame, err := collector.Recv()
			if err != nil {
				return fmt.Errorf("collect results: %w", err)
			}
			if wire.IsStop(frame) {
				return nil
			}
			result, err := wire.DecodeResult(frame)
			if err != nil {
				return fmt.Errorf("collect results: %w", err)
			}
			results = append(results, result)
		}
	})
	if err := group.Wait(); err != nil {
		return err
	}

	outputPath, err := writeReport(cfg, opts.outputPath, records, results)
	if err != nil {
		return err
	}

	writeFeedSummary(out, len(records), len(results), outputPath)
	return nil
}

func loadOrGenerate(cfg *config.Config, opts feedOptions, logger *slog.Logger) ([]dataset.Record, error) {
	if strings.TrimSpace(opts.datasetPath) != "" {
		path, err := config.ExpandPath(opts.datasetPath)
		if err != nil {
			return nil, err
		}
		records, err := dataset.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		logger.Info("dataset loaded", logging.String("path", path), logging.Int("records", len(records)))
		return records, nil
	}

	records := dataset.Generate(opts.count, opts.seed)
	path := filepath.Join(cfg.Paths.DataDir, "servers.json")
	if err := dataset.Save(path, records); err != nil {
		return nil, fmt.Errorf("save generated dataset: %w", err)
	}
	logger.Info("dataset generated", logging.String("path", path), logging.Int("records", len(records)))
	return records, nil
}

func connectWithRetry(feeder *transport.Sender, cfg *config.Config, logger *slog.Logger) error {
	backoff := time.Duration(cfg.Dispatch.ConnectBackoffSeconds) * time.Second
	attempts := cfg.Dispatch.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = feeder.Connect()
		if err == nil {
			return nil
		}
		logger.Warn("ingest endpoint not ready",
			logging.Int("attempt", attempt),
			logging.Int("attempts", attempts),
			logging.Error(err),
		)
		if attempt < attempts {
			time.Sleep(backoff)
		}
	}
	return fmt.Errorf("connect to ingest endpoint: %w", err)
}

// writeReport joins the collected scores back onto the dataset records and
// writes the pass/fail report: statistics, the full initial data, and the
// records that passed the filter with their scores.
func writeReport(cfg *config.Config, outputPath string, records []dataset.Record, results []wire.Result) (string, error) {
	if strings.TrimSpace(outputPath) == "" {
		name := fmt.Sprintf("report-%s.txt", time.Now().UTC().Format("20060102T150405Z"))
		outputPath = filepath.Join(cfg.Paths.ResultsDir, name)
	} else {
		expanded, err := config.ExpandPath(outputPath)
		if err != nil {
			return "", err
		}
		outputPath = expanded
	}

	scores := make(map[int32]float32, len(results))
	for _, result := range results {
		scores[result.ID] = result.Score
	}

	var report strings.Builder
	report.WriteString("STATISTICS\n")
	statRows := [][]string{
		{"Total", formatCount(len(records))},
		{"Passed", formatCount(len(results))},
		{"Failed", formatCount(len(records) - len(results))},
	}
	report.WriteString(renderTable([]string{"Metric", "Value"}, statRows, []columnAlignment{alignLeft, alignRight}))
	report.WriteString("\n\nINITIAL DATA\n")

	dataAligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight}
	dataRows := make([][]string, 0, len(records))
	for _, record := range records {
		dataRows = append(dataRows, []string{
			fmt.Sprintf("%d", record.ID),
			record.Location,
			fmt.Sprintf("%d", record.Uptime),
			fmt.Sprintf("%.2f", record.Load),
		})
	}
	report.WriteString(renderTable([]string{"ID", "Location", "Uptime", "Load"}, dataRows, dataAligns))
	report.WriteString("\n\nFILTERED RESULTS\n")

	passedAligns := append(dataAligns, alignRight)
	passedRows := make([][]string, 0, len(results))
	for _, record := range records {
		score, ok := scores[record.ID]
		if !ok {
			continue
		}
		passedRows = append(passedRows, []string{
			fmt.Sprintf("%d", record.ID),
			record.Location,
			fmt.Sprintf("%d", record.Uptime),
			fmt.Sprintf("%.2f", record.Load),
			fmt.Sprintf("%.4f", score),
		})
	}
	report.WriteString(renderTable([]string{"ID", "Location", "Uptime", "Load", "Score"}, passedRows, passedAligns))
	report.WriteString("\n")

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(report.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return outputPath, nil
}

func writeFeedSummary(out io.Writer, fed, passed int, outputPath string) {
	for _, line := range renderHeading("Feed summary", shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}

	rate := "n/a"
	if fed > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(passed)/float64(fed)*100)
	}
	rows := [][]string{
		{"Fed", formatCount(fed)},
		{"Passed", formatCount(passed)},
		{"Pass rate", rate},
		{"Report", outputPath},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}
