package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sift/internal/config"
	"sift/internal/journal"
	"sift/internal/logging"
	"sift/internal/pipeline"
	"sift/internal/runlock"
	"sift/internal/scoring"
	"sift/internal/transport"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var singleWorker bool
	var halfCPU bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest, score, and dispatch one stream of task frames",
		Long: `Run binds the inbound PULL endpoint, scores every task frame the peer
pushes to it, and forwards passing results to the outbound PUSH endpoint.
The run ends when the peer sends its end-of-stream marker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if halfCPU {
				cfg.Workers.HalfCapacity = true
			}
			return runPipeline(cmd.Context(), cfg, singleWorker, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&singleWorker, "single-worker", false, "Score with a single worker regardless of CPU count")
	cmd.Flags().BoolVar(&halfCPU, "half-cpu", false, "Size the scoring pool to half the available CPUs")
	return cmd
}

func runPipeline(cmdCtx context.Context, cfg *config.Config, singleWorker bool, out io.Writer) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lock, err := runlock.Acquire(cfg.Paths.LogDir)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	workers := cfg.WorkerCount(singleWorker)
	source := transport.NewReceiver(signalCtx, cfg.Endpoints.IngestBind)
	sink := transport.NewSender(signalCtx, cfg.Endpoints.DispatchConnect)

	coordinator, err := pipeline.New(pipeline.Options{
		Source:          source,
		Sink:            sink,
		Workers:         workers,
		Scorer:          scoring.New(cfg.Scoring.Iterations),
		Threshold:       cfg.Scoring.Threshold,
		ChannelCapacity: cfg.Pipeline.ChannelCapacity,
		ConnectAttempts: cfg.Dispatch.ConnectAttempts,
		ConnectBackoff:  time.Duration(cfg.Dispatch.ConnectBackoffSeconds) * time.Second,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	logger.Info("pipeline starting",
		logging.String(logging.FieldComponent, "cli"),
		logging.Int("workers", workers),
		logging.Float64("threshold", cfg.Scoring.Threshold),
		logging.String("ingest", cfg.Endpoints.IngestBind),
		logging.String("dispatch", cfg.Endpoints.DispatchConnect),
	)

	stats, runErr := coordinator.Run()

	if cfg.Journal.Enabled {
		recordRun(signalCtx, cfg, logger, stats, runErr == nil)
	}

	writeRunSummary(out, cfg, stats)
	return runErr
}

func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, stats pipeline.Stats, clean bool) {
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		logger.Warn("journal unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	run := journal.Run{
		StartedAt:  stats.StartedAt,
		FinishedAt: stats.StartedAt.Add(stats.Elapsed),
		Workers:    stats.Workers,
		Received:   stats.Received,
		Sent:       stats.Sent,
		Elapsed:    stats.Elapsed,
		Clean:      clean,
	}
	recorded, err := store.Record(ctx, run)
	if err != nil {
		logger.Warn("journal write failed", logging.Error(err))
		return
	}
	logger.Info("run recorded",
		logging.String(logging.FieldRunID, recorded.ID),
		logging.Int64("elapsed_ms", stats.Elapsed.Milliseconds()),
	)
}

func writeRunSummary(out io.Writer, cfg *config.Config, stats pipeline.Stats) {
	for _, line := range renderHeading("Run summary", shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}

	rows := [][]string{
		{"Workers", formatCount(stats.Workers)},
		{"Iterations", formatCount(cfg.Scoring.Iterations)},
		{"Threshold", fmt.Sprintf("%.1f", cfg.Scoring.Threshold)},
		{"Received", formatCount(stats.Received)},
		{"Dispatched", formatCount(stats.Sent)},
		{"Elapsed", stats.Elapsed.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}
