// Package cmd implements the source-protection command line.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauern/source-protection/internal/config"
	"github.com/klauern/source-protection/internal/core"
	_ "github.com/klauern/source-protection/internal/hooks" // registers built-in hooks
	"github.com/klauern/source-protection/internal/wiki"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// Runtime is the hook dispatcher wired to a wiki site, plus the resources it owns.
type Runtime struct {
	Settings   *config.Settings
	Store      *wiki.Store
	Dispatcher *core.Dispatcher
	Logger     *logrus.Logger
	Metrics    *core.Metrics

	closer io.Closer
}

// NewRuntime builds the hook context from settings, binds it to store and files the built-in
// hooks. Metrics are registered with reg when it is non-nil.
func NewRuntime(settings *config.Settings, store *wiki.Store, reg prometheus.Registerer) (*Runtime, error) {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	logger, closer, err := core.NewLogger(settings.Logging)
	if err != nil {
		return nil, err
	}
	if settings.Logging.Enabled {
		logDir := filepath.Dir(settings.Logging.LogPath())
		if err := config.CleanupOldLogs(logDir, settings.Logging.Rotation.MaxAge); err != nil {
			logger.WithError(err).Warn("failed to clean up old logs")
		}
	}

	ctx := &core.HookContext{
		Permissions:     store,
		Messages:        store,
		Policy:          settings.Policy.Build(),
		SettingsChecker: settings.IsPluginEnabled,
		Logger:          logger,
		LoggingEnabled:  settings.Logging.Enabled,
	}

	metrics := core.NewMetrics(reg)
	dispatcher, err := core.NewBuiltinRegistry(ctx).BuildDispatcher(metrics)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to build hook dispatcher: %w", err)
	}

	return &Runtime{
		Settings:   settings,
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		closer:     closer,
	}, nil
}

// Close releases the log file.
func (r *Runtime) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// loadSite picks the site fixture from the flag value or the configured default.
func loadSite(flagValue string, settings *config.Settings) (*wiki.Store, error) {
	path := flagValue
	if path == "" && settings != nil {
		path = settings.Server.Site
	}
	if path == "" {
		return nil, fmt.Errorf("no site fixture given: pass --site or set server.site in settings")
	}
	return wiki.LoadSite(path)
}

// writer returns the root command's output, defaulting to stdout.
func writer(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if root := cmd.Root(); root != nil && root.Writer != nil {
			return root.Writer
		}
	}
	return os.Stdout
}
