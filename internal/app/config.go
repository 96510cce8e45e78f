package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SnapshotPath string   // .json editor save or .hcl graph
	ScenePaths   []string // hcl entity files, offline host only

	HostURL            string
	HostNamespace      string
	HostTimeout        time.Duration
	InsecureSkipVerify bool
	ProbePaths         bool

	LogFormat       string
	LogLevel        string
	Color           bool
	HealthcheckPort int
}

// NewConfig validates cfg and returns a copy ready for NewApp.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log level '%s': must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format '%s': must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.HostURL != "" && len(cfg.ScenePaths) > 0 {
		return nil, errors.New("scene files and a host URL cannot be combined: the live host provides the scene")
	}
	if cfg.HostURL != "" && cfg.ProbePaths {
		return nil, errors.New("path probing checks the local filesystem and cannot be combined with a host URL")
	}
	if cfg.HostTimeout < 0 {
		return nil, fmt.Errorf("host timeout must not be negative, got %v", cfg.HostTimeout)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
