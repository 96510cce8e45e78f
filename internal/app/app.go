package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/feedback"
	"github.com/vk/streamgraph/internal/host"
	"github.com/vk/streamgraph/internal/metrics"
	"github.com/vk/streamgraph/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	metrics    *metrics.Recorder
	feedback   *feedback.Log
	host       host.Host
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, catalog and
// metrics registry. When no modules are given the core modules are used.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.NewWithModules(modules...)
	logger.Debug("All Go modules registered.", "modules", len(modules), "kinds", reg.Len())

	if err := reg.Validate(ctx); err != nil {
		// A broken catalog is a programmer error, so we panic.
		panic(err)
	}

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  metrics.New(),
		feedback: feedback.NewLog(),
	}
}

// Registry returns the application's node catalog.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the recorder the executor reports to.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// Feedback returns the log every stream run appends to.
func (a *App) Feedback() *feedback.Log {
	return a.feedback
}

// SetHost replaces the configured host with h. Used by embedders that own
// the host connection, and by tests.
func (a *App) SetHost(h host.Host) {
	a.host = h
}
