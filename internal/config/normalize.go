package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEndpoints()
	c.normalizeScoring()
	c.normalizePipeline()
	c.normalizeDispatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.ResultsDir, err = expandPath(c.Paths.ResultsDir); err != nil {
		return fmt.Errorf("paths.results_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEndpoints() {
	c.Endpoints.IngestBind = strings.TrimSpace(c.Endpoints.IngestBind)
	if c.Endpoints.IngestBind == "" {
		c.Endpoints.IngestBind = defaultIngestBind
	}
	c.Endpoints.DispatchConnect = strings.TrimSpace(c.Endpoints.DispatchConnect)
	if c.Endpoints.DispatchConnect == "" {
		c.Endpoints.DispatchConnect = defaultDispatchConnect
	}
}

func (c *Config) normalizeScoring() {
	if c.Scoring.Iterations <= 0 {
		c.Scoring.Iterations = defaultScoringIterations
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.ChannelCapacity <= 0 {
		c.Pipeline.ChannelCapacity = defaultChannelCapacity
	}
}

func (c *Config) normalizeDispatch() {
	if c.Dispatch.ConnectAttempts <= 0 {
		c.Dispatch.ConnectAttempts = defaultConnectAttempts
	}
	if c.Dispatch.ConnectBackoffSeconds < 0 {
		c.Dispatch.ConnectBackoffSeconds = defaultConnectBackoffSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
