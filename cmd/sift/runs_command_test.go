package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sift/internal/journal"
)

func TestRunsReportsEmptyJournal(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestRunsListsRecordedRuns(t *testing.T) {
	configPath := writeTestConfig(t)

	// Seed the journal the run command would normally write.
	logDir := filepath.Dir(configPath)
	store, err := journal.Open(filepath.Join(logDir, "logs", "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	run := journal.Run{
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Workers:    4,
		Received:   100,
		Sent:       57,
		Elapsed:    time.Minute,
		Clean:      true,
	}
	if _, err := store.Record(context.Background(), run); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	out, err := runCLI(t, configPath, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "57")
	requireContains(t, out, "yes")
}
