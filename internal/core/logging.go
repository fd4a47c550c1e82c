package core

import (
	"fmt"
	"io"
	"time"

	"github.com/klauern/source-protection/internal/config"
	"github.com/klauern/source-protection/internal/host"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the hook event logger. Disabled logging discards output; enabled logging
// writes JSON lines (or indented JSON for the pretty format) to a rotating file.
// The returned closer releases the log file.
func NewLogger(cfg config.LoggingConfig) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		PrettyPrint:     cfg.Format == config.LoggingFormatPretty,
	})

	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		logger.SetLevel(level)
	}

	if !cfg.Enabled {
		logger.SetOutput(io.Discard)
		return logger, nopCloser{}, nil
	}

	rotating := config.SetupLogRotation(cfg.LogPath(), cfg.Rotation)
	if rotating == nil {
		return nil, nil, fmt.Errorf("failed to set up log file %s", cfg.LogPath())
	}
	logger.SetOutput(rotating)
	return logger, rotating, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// hookFields builds the common structured fields for a hook event.
func hookFields(hookKey, event string, rc *host.RequestContext) logrus.Fields {
	fields := logrus.Fields{
		"hook_key": hookKey,
		"event":    event,
	}
	if rc == nil {
		return fields
	}
	if rc.Title != nil {
		fields["page"] = rc.Title.Text()
	}
	if rc.User != nil {
		fields["user"] = rc.User.Name()
	}
	if rc.Has("action") {
		fields["action"] = rc.Get("action")
	}
	return fields
}

// LogHookEvent records a structured hook event. It is a no-op if LoggingEnabled is false.
func (h *BaseHook) LogHookEvent(event string, rc *host.RequestContext, details map[string]interface{}) {
	if !h.context.LoggingEnabled || h.context.Logger == nil {
		return
	}
	h.context.Logger.WithFields(hookFields(h.key, event, rc)).WithFields(logrus.Fields(details)).Info(event)
}

// LogError logs a standard error event
func (h *BaseHook) LogError(event string, rc *host.RequestContext, err error) {
	if !h.context.LoggingEnabled || h.context.Logger == nil {
		return
	}
	h.context.Logger.WithFields(hookFields(h.key, event, rc)).WithError(err).Error(event)
}

// LogApproval logs a standard approval event
func (h *BaseHook) LogApproval(event string, rc *host.RequestContext, details map[string]interface{}) {
	h.LogHookEvent(event, rc, details)
}

// LogBlock logs a standard block event
func (h *BaseHook) LogBlock(event string, rc *host.RequestContext, details map[string]interface{}) {
	if !h.context.LoggingEnabled || h.context.Logger == nil {
		return
	}
	h.context.Logger.WithFields(hookFields(h.key, event, rc)).WithFields(logrus.Fields(details)).Warn(event)
}
