package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateWorkers(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	for name, addr := range map[string]string{
		"endpoints.ingest_bind":      c.Endpoints.IngestBind,
		"endpoints.dispatch_connect": c.Endpoints.DispatchConnect,
	} {
		if !validEndpoint(addr) {
			return fmt.Errorf("%s must be a tcp://, ipc:// or inproc:// address, got %q", name, addr)
		}
	}
	if c.Endpoints.IngestBind == c.Endpoints.DispatchConnect {
		return errors.New("endpoints.ingest_bind and endpoints.dispatch_connect must differ")
	}
	return nil
}

func validEndpoint(addr string) bool {
	for _, scheme := range []string{"tcp://", "ipc://", "inproc://"} {
		if strings.HasPrefix(addr, scheme) && len(addr) > len(scheme) {
			return true
		}
	}
	return false
}

func (c *Config) validateWorkers() error {
	if c.Workers.Count < 0 {
		return errors.New("workers.count must not be negative")
	}
	return nil
}

func (c *Config) validateScoring() error {
	if c.Scoring.Threshold < 0 || c.Scoring.Threshold > 100 {
		return errors.New("scoring.threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
