package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Endpoints contains the two ZeroMQ channel addresses.
type Endpoints struct {
	// IngestBind is the PULL address the pipeline binds; the peer pushes
	// task frames to it.
	IngestBind string `toml:"ingest_bind"`
	// DispatchConnect is the PUSH address the pipeline connects to; the
	// peer binds it and pulls result frames.
	DispatchConnect string `toml:"dispatch_connect"`
}

// Workers contains worker-pool sizing configuration.
type Workers struct {
	// Count fixes the pool size. Zero derives it from available CPUs.
	Count int `toml:"count"`
	// HalfCapacity halves the derived pool size (ignored when Count is set).
	HalfCapacity bool `toml:"half_capacity"`
}

// Scoring contains the stability-score parameters.
type Scoring struct {
	Iterations int     `toml:"iterations"`
	Threshold  float64 `toml:"threshold"`
}

// Pipeline contains in-process channel configuration.
type Pipeline struct {
	// ChannelCapacity buffers the task and result channels. Producers block
	// once a channel fills; there is no other backpressure signal.
	ChannelCapacity int `toml:"channel_capacity"`
}

// Dispatch contains outbound connection retry configuration.
type Dispatch struct {
	ConnectAttempts       int `toml:"connect_attempts"`
	ConnectBackoffSeconds int `toml:"connect_backoff_seconds"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	ResultsDir string `toml:"results_dir"`
	LogDir     string `toml:"log_dir"`
}

// Journal contains run-history configuration.
type Journal struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for sift.
//
// Configuration sections by subsystem:
//   - Endpoints: inbound bind and outbound connect addresses
//   - Workers: scoring pool sizing
//   - Scoring: recurrence iterations and forwarding threshold
//   - Pipeline: in-process channel capacity
//   - Dispatch: outbound connection retry policy
//   - Paths: dataset, results, and log directories
//   - Journal: SQLite run history
//   - Logging: log format and level
type Config struct {
	Endpoints Endpoints `toml:"endpoints"`
	Workers   Workers   `toml:"workers"`
	Scoring   Scoring   `toml:"scoring"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Dispatch  Dispatch  `toml:"dispatch"`
	Paths     Paths     `toml:"paths"`
	Journal   Journal   `toml:"journal"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sift/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sift.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ResultsDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WorkerCount resolves the scoring pool size. singleWorker forces one unit
// and overrides every other setting.
func (c *Config) WorkerCount(singleWorker bool) int {
	if singleWorker {
		return 1
	}
	if c.Workers.Count > 0 {
		return c.Workers.Count
	}
	cpus := runtime.NumCPU()
	if c.Workers.HalfCapacity {
		return max(1, cpus/2)
	}
	return max(1, cpus-1)
}

// JournalPath returns the SQLite run-journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.LogDir, "journal.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
