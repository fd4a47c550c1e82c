// Package config loads source-protection settings from YAML, TOML or JSON files.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/policy"
	yaml "gopkg.in/yaml.v3"
)

// PluginConfig stores per-hook settings.
// A nil Enabled means default (enabled). If Enabled=false, the hook is disabled.
type PluginConfig struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
}

// PolicyConfig overrides the built-in lists. A nil list keeps the default.
type PolicyConfig struct {
	HiddenViews     []string `json:"hiddenViews,omitempty" yaml:"hiddenViews,omitempty" toml:"hiddenViews,omitempty"`
	EditorOnlyViews []string `json:"editorOnlyViews,omitempty" yaml:"editorOnlyViews,omitempty" toml:"editorOnlyViews,omitempty"`
	DeniedActions   []string `json:"deniedActions,omitempty" yaml:"deniedActions,omitempty" toml:"deniedActions,omitempty"`
	DenyDiff        *bool    `json:"denyDiff,omitempty" yaml:"denyDiff,omitempty" toml:"denyDiff,omitempty"`
}

// Build returns the effective policy.
func (c PolicyConfig) Build() *policy.Policy {
	p := policy.Default()
	if c.HiddenViews != nil {
		p.HiddenViews = slices.Clone(c.HiddenViews)
	}
	if c.EditorOnlyViews != nil {
		p.EditorOnlyViews = slices.Clone(c.EditorOnlyViews)
	}
	if c.DeniedActions != nil {
		p.DeniedActions = slices.Clone(c.DeniedActions)
	}
	if c.DenyDiff != nil {
		p.DenyDiff = *c.DenyDiff
	}
	return p
}

// ServerConfig configures the reference wiki host.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" toml:"addr,omitempty" validate:"omitempty,hostname_port"`
	Site string `json:"site,omitempty" yaml:"site,omitempty" toml:"site,omitempty"`
}

// Settings is the root settings document.
type Settings struct {
	Plugins map[string]PluginConfig `json:"plugins,omitempty" yaml:"plugins,omitempty" toml:"plugins,omitempty"`
	Policy  PolicyConfig            `json:"policy" yaml:"policy" toml:"policy"`
	Logging LoggingConfig           `json:"logging" yaml:"logging" toml:"logging"`
	Server  ServerConfig            `json:"server" yaml:"server" toml:"server"`

	// Path is the file the settings were loaded from; empty for defaults.
	Path string `json:"-" yaml:"-" toml:"-"`
}

// DefaultAddr is the reference host listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// DefaultSettings returns settings with every hook enabled and the built-in policy.
func DefaultSettings() *Settings {
	return &Settings{
		Plugins: make(map[string]PluginConfig),
		Logging: DefaultLoggingConfig(),
		Server:  ServerConfig{Addr: DefaultAddr},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints and the consistency of the policy lists.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := s.Policy.Build().Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// IsPluginEnabled returns true if the hook is enabled (default) or explicitly enabled.
// Returns false if explicitly disabled in settings.
func (s *Settings) IsPluginEnabled(key string) bool {
	if s == nil || s.Plugins == nil {
		return true
	}
	cfg, ok := s.Plugins[key]
	if !ok || cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}

// SetPluginEnabled records an explicit enablement for key.
func (s *Settings) SetPluginEnabled(key string, enabled bool) {
	if s.Plugins == nil {
		s.Plugins = make(map[string]PluginConfig)
	}
	s.Plugins[key] = PluginConfig{Enabled: &enabled}
}

// GetSettingsPath returns the settings file for the project (./.source-protection) or the
// global XDG directory. The first existing file in extension order wins; when none exists the
// YAML path is returned.
func GetSettingsPath(global bool) (string, error) {
	var candidates []string
	if global {
		x := NewXDGConfig()
		for _, ext := range constants.SettingsExtensions {
			candidates = append(candidates, x.GetGlobalConfigPath(ext))
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %v", err)
		}
		for _, ext := range constants.SettingsExtensions {
			candidates = append(candidates, constants.GetConfigPath(cwd, ext))
		}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return candidates[0], nil
}

// LoadSettings reads settingsPath, returning defaults if the file doesn't exist.
func LoadSettings(settingsPath string) (*Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return settings, nil
	}

	data, err := os.ReadFile(settingsPath) // #nosec G304 - controlled settings paths
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := decode(settingsPath, data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", settingsPath, err)
	}
	if settings.Plugins == nil {
		settings.Plugins = make(map[string]PluginConfig)
	}
	settings.Path = settingsPath

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// LoadEffectiveSettings loads project settings when present, then global settings, then
// falls back to defaults.
func LoadEffectiveSettings() (*Settings, error) {
	for _, global := range []bool{false, true} {
		path, err := GetSettingsPath(global)
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadSettings(path)
	}
	return DefaultSettings(), nil
}

// SaveSettings writes settings in the format implied by the file extension.
func SaveSettings(settingsPath string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	data, err := Encode(settingsPath, settings)
	if err != nil {
		return err
	}

	if err := os.WriteFile(settingsPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %v", err)
	}
	return nil
}

// Encode renders settings in the format implied by the extension of name.
func Encode(name string, settings *Settings) ([]byte, error) {
	switch format(name) {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
			return nil, fmt.Errorf("failed to marshal settings: %w", err)
		}
		return buf.Bytes(), nil
	case "json":
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings: %w", err)
		}
		return data, nil
	default:
		data, err := yaml.Marshal(settings)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings: %w", err)
		}
		return data, nil
	}
}

func decode(name string, data []byte, settings *Settings) error {
	switch format(name) {
	case "toml":
		return toml.Unmarshal(data, settings)
	case "json":
		return json.Unmarshal(data, settings)
	default:
		return yaml.Unmarshal(data, settings)
	}
}

func format(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}
