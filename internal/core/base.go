// Package core provides the hook interfaces, base implementation, dispatch table and execution context
package core

import (
	"io"

	"github.com/klauern/source-protection/internal/host"
	"github.com/klauern/source-protection/internal/policy"
	"github.com/sirupsen/logrus"
)

// Hook defines the interface that all hook implementations must satisfy
type Hook interface {
	// Key returns the unique identifier for this hook
	Key() string
	// Name returns the human-readable name for this hook
	Name() string
	// Description returns a description of what this hook does
	Description() string
	// Point returns the host hook point this hook is invoked at
	Point() HookPoint
	// IsEnabled checks if this hook is enabled in the current context
	IsEnabled() bool
}

// BaseHook provides common functionality for all hooks
type BaseHook struct {
	key         string
	name        string
	description string
	point       HookPoint
	context     *HookContext
}

// Key returns the hook key
func (h *BaseHook) Key() string {
	return h.key
}

// Name returns the hook name
func (h *BaseHook) Name() string {
	return h.name
}

// Description returns the hook description
func (h *BaseHook) Description() string {
	return h.description
}

// Point returns the hook point
func (h *BaseHook) Point() HookPoint {
	return h.point
}

// IsEnabled checks if the hook is enabled by consulting settings
func (h *BaseHook) IsEnabled() bool {
	return h.context.SettingsChecker(h.key)
}

// Context returns the hook context
func (h *BaseHook) Context() *HookContext {
	return h.context
}

// NewBaseHook creates a new BaseHook with the given metadata
func NewBaseHook(key, name, description string, point HookPoint, ctx *HookContext) *BaseHook {
	if ctx == nil {
		ctx = DefaultHookContext()
	}
	return &BaseHook{
		key:         key,
		name:        name,
		description: description,
		point:       point,
		context:     ctx,
	}
}

// HookContext provides the host services hooks need
type HookContext struct {
	Permissions     host.PermissionManager
	Messages        host.MessageLocalizer
	Policy          *policy.Policy
	SettingsChecker func(string) bool
	Logger          *logrus.Logger
	LoggingEnabled  bool
}

// DefaultHookContext returns a context that denies every permission query and discards logs.
// Hosts replace Permissions and Messages before building a dispatcher.
func DefaultHookContext() *HookContext {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &HookContext{
		Permissions:     denyAll{},
		Messages:        keyMessages{},
		Policy:          policy.Default(),
		SettingsChecker: defaultIsPluginEnabled,
		Logger:          logger,
		LoggingEnabled:  false,
	}
}

// defaultIsPluginEnabled is the default implementation - always returns true
func defaultIsPluginEnabled(_ string) bool {
	return true
}

// denyAll fails closed when no permission manager is wired.
type denyAll struct{}

func (denyAll) UserCan(string, host.User, host.Title) bool     { return false }
func (denyAll) UserPermissions(host.User, host.Title) []string { return nil }

// keyMessages returns messages without text; Message.String renders the key.
type keyMessages struct{}

func (keyMessages) Msg(key string, params ...any) *host.Message {
	return &host.Message{Key: key, Params: params}
}
