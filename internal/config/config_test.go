package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sift/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Scoring.Threshold != 50.0 {
		t.Fatalf("default threshold = %v, want 50.0", cfg.Scoring.Threshold)
	}
	if cfg.Scoring.Iterations != 600_000 {
		t.Fatalf("default iterations = %d, want 600000", cfg.Scoring.Iterations)
	}
}

func TestLoadAppliesFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[endpoints]
ingest_bind = "tcp://127.0.0.1:7001"

[workers]
count = 3

[scoring]
threshold = 42.5

[dispatch]
connect_attempts = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v, want %q true", resolved, exists, path)
	}
	if cfg.Endpoints.IngestBind != "tcp://127.0.0.1:7001" {
		t.Fatalf("ingest_bind = %q", cfg.Endpoints.IngestBind)
	}
	if cfg.Workers.Count != 3 || cfg.Scoring.Threshold != 42.5 || cfg.Dispatch.ConnectAttempts != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched sections keep defaults.
	if cfg.Endpoints.DispatchConnect != "tcp://127.0.0.1:5558" {
		t.Fatalf("dispatch_connect = %q, want default", cfg.Endpoints.DispatchConnect)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("exists=true for absent file")
	}
	if cfg.Pipeline.ChannelCapacity != 1024 {
		t.Fatalf("channel_capacity = %d, want default", cfg.Pipeline.ChannelCapacity)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad endpoint scheme", func(c *config.Config) { c.Endpoints.IngestBind = "udp://host:1" }, "ingest_bind"},
		{"identical endpoints", func(c *config.Config) {
			c.Endpoints.IngestBind = "tcp://127.0.0.1:5557"
			c.Endpoints.DispatchConnect = "tcp://127.0.0.1:5557"
		}, "must differ"},
		{"negative workers", func(c *config.Config) { c.Workers.Count = -1 }, "workers.count"},
		{"threshold out of range", func(c *config.Config) { c.Scoring.Threshold = 150 }, "threshold"},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestWorkerCountModes(t *testing.T) {
	cfg := config.Default()

	if got := cfg.WorkerCount(true); got != 1 {
		t.Fatalf("single-worker mode = %d, want 1", got)
	}

	cfg.Workers.Count = 6
	if got := cfg.WorkerCount(false); got != 6 {
		t.Fatalf("fixed count = %d, want 6", got)
	}

	cfg.Workers.Count = 0
	if got := cfg.WorkerCount(false); got < 1 {
		t.Fatalf("derived count = %d, want >= 1", got)
	}

	cfg.Workers.HalfCapacity = true
	if got := cfg.WorkerCount(false); got < 1 {
		t.Fatalf("half-capacity count = %d, want >= 1", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ResultsDir = filepath.Join(base, "results")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.ResultsDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("directory %q missing after EnsureDirectories", dir)
		}
	}
}
