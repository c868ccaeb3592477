// Package testsupport provides helpers for building isolated test fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"sift/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Endpoints.IngestBind = "tcp://127.0.0.1:0"
	cfgVal.Endpoints.DispatchConnect = "tcp://127.0.0.1:1"
	cfgVal.Scoring.Iterations = 100
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.ResultsDir = filepath.Join(base, "results")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Journal.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithJournal enables the SQLite run journal on the test config.
func WithJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = true
	}
}
