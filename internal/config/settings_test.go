package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Server.Addr != DefaultAddr {
		t.Errorf("Expected default addr, got %q", s.Server.Addr)
	}
	if s.Logging.Format != LoggingFormatJSONL {
		t.Errorf("Expected jsonl format, got %q", s.Logging.Format)
	}
	if s.Path != "" {
		t.Errorf("Expected empty path for defaults, got %q", s.Path)
	}
}

func TestLoadSettingsFormats(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "settings.yml",
			content: `plugins:
  read-only-form:
    enabled: false
policy:
  deniedActions: [edit, history, raw]
  denyDiff: false
logging:
  enabled: true
  format: pretty
server:
  addr: "0.0.0.0:9090"
`,
		},
		{
			name: "toml",
			file: "settings.toml",
			content: `[plugins.read-only-form]
enabled = false

[policy]
deniedActions = ["edit", "history", "raw"]
denyDiff = false

[logging]
enabled = true
format = "pretty"

[server]
addr = "0.0.0.0:9090"
`,
		},
		{
			name: "json",
			file: "settings.json",
			content: `{
  "plugins": {"read-only-form": {"enabled": false}},
  "policy": {"deniedActions": ["edit", "history", "raw"], "denyDiff": false},
  "logging": {"enabled": true, "format": "pretty"},
  "server": {"addr": "0.0.0.0:9090"}
}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			writeFile(t, path, tc.content)

			s, err := LoadSettings(path)
			if err != nil {
				t.Fatalf("LoadSettings failed: %v", err)
			}
			if s.IsPluginEnabled("read-only-form") {
				t.Error("Expected read-only-form to be disabled")
			}
			if !s.IsPluginEnabled("hide-source") {
				t.Error("Expected hide-source to default to enabled")
			}
			p := s.Policy.Build()
			if !reflect.DeepEqual(p.DeniedActions, []string{"edit", "history", "raw"}) {
				t.Errorf("Unexpected denied actions: %v", p.DeniedActions)
			}
			if p.DenyDiff {
				t.Error("Expected denyDiff override to be false")
			}
			if len(p.EditorOnlyViews) != 2 {
				t.Errorf("Expected default editor-only views, got %v", p.EditorOnlyViews)
			}
			if !s.Logging.Enabled || s.Logging.Format != LoggingFormatPretty {
				t.Errorf("Unexpected logging config: %+v", s.Logging)
			}
			// Unset nested fields keep their defaults
			if s.Logging.Rotation.MaxBackups != 5 {
				t.Errorf("Expected default rotation to survive, got %+v", s.Logging.Rotation)
			}
			if s.Server.Addr != "0.0.0.0:9090" {
				t.Errorf("Unexpected addr %q", s.Server.Addr)
			}
			if s.Path != path {
				t.Errorf("Expected path %q, got %q", path, s.Path)
			}
		})
	}
}

func TestLoadSettingsRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad format", "logging:\n  format: xml\n", "Format"},
		{"bad level", "logging:\n  level: loud\n", "Level"},
		{"negative rotation", "logging:\n  rotation:\n    maxAge: -1\n", "MaxAge"},
		{"bad addr", "server:\n  addr: nope\n", "Addr"},
		{"history unguarded", "policy:\n  deniedActions: [edit, raw]\n", "history"},
		{"malformed yaml", "plugins: [", "failed to parse"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yml")
			writeFile(t, path, tc.content)

			_, err := LoadSettings(path)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSaveSettingsRoundTripYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yml")
	s := DefaultSettings()
	s.SetPluginEnabled("disable-actions", false)
	s.Server.Site = "site.yml"

	if err := SaveSettings(path, s); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded.IsPluginEnabled("disable-actions") {
		t.Error("Expected disable-actions to stay disabled")
	}
	if loaded.Server.Site != "site.yml" {
		t.Errorf("Expected site to persist, got %q", loaded.Server.Site)
	}
}

func TestIsPluginEnabledNil(t *testing.T) {
	var s *Settings
	if !s.IsPluginEnabled("anything") {
		t.Error("Expected nil settings to enable everything")
	}
}

func TestGetSettingsPathPrefersExistingFile(t *testing.T) {
	projectDir := t.TempDir()
	t.Chdir(projectDir)

	path, err := GetSettingsPath(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Ext(path) != ".yml" {
		t.Errorf("Expected yml fallback path, got %s", path)
	}

	tomlPath := filepath.Join(projectDir, ".source-protection", "settings.toml")
	writeFile(t, tomlPath, "[server]\naddr = \"127.0.0.1:1\"\n")

	path, err = GetSettingsPath(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "settings.toml" {
		t.Errorf("Expected existing toml file to be found, got %s", path)
	}
}

func TestLoadEffectiveSettingsPrecedence(t *testing.T) {
	projectDir := t.TempDir()
	xdgDir := t.TempDir()
	t.Chdir(projectDir)
	t.Setenv("XDG_CONFIG_HOME", xdgDir)

	s, err := LoadEffectiveSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Path != "" {
		t.Errorf("Expected defaults without any file, got %s", s.Path)
	}

	globalPath := filepath.Join(xdgDir, "source-protection", "settings.yml")
	writeFile(t, globalPath, "server:\n  addr: \"127.0.0.1:2000\"\n")
	s, err = LoadEffectiveSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Server.Addr != "127.0.0.1:2000" {
		t.Errorf("Expected global settings, got %q", s.Server.Addr)
	}

	projectPath := filepath.Join(projectDir, ".source-protection", "settings.yml")
	writeFile(t, projectPath, "server:\n  addr: \"127.0.0.1:3000\"\n")
	s, err = LoadEffectiveSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Server.Addr != "127.0.0.1:3000" {
		t.Errorf("Expected project settings to win, got %q", s.Server.Addr)
	}
}
