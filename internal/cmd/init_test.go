package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/source-protection/internal/config"
	"github.com/klauern/source-protection/internal/core"
	"github.com/klauern/source-protection/internal/generator"
)

func TestRunInitThenCheck(t *testing.T) {
	dir := t.TempDir()
	g := generator.NewGenerator(dir, false)

	var buf bytes.Buffer
	if err := runInit(&buf, g, generator.DefaultTemplateData("Test Wiki", core.GetHookKeys()), true); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}
	if strings.Count(buf.String(), "Generated: ") != 2 {
		t.Errorf("Expected two generated files, got:\n%s", buf.String())
	}

	settings, err := config.LoadSettings(filepath.Join(dir, "settings.yml"))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	store, err := loadSite("", settings)
	if err != nil {
		t.Fatalf("loadSite failed: %v", err)
	}
	rt, err := NewRuntime(settings, store, nil)
	if err != nil {
		t.Fatalf("NewRuntime failed: %v", err)
	}
	defer func() { _ = rt.Close() }()

	buf.Reset()
	if err := runCheck(&buf, rt, checkOptions{User: "Visitor", Page: "Main Page", Action: "raw"}); err != nil {
		t.Fatalf("runCheck failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Gate:    denied (action)") {
		t.Errorf("Expected raw to be denied, got:\n%s", buf.String())
	}
}

func TestRunInitSettingsOnly(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := runInit(&buf, generator.NewGenerator(dir, false), generator.DefaultTemplateData("", nil), false); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}
	if strings.Contains(buf.String(), "site.yml") {
		t.Errorf("Expected no site fixture, got:\n%s", buf.String())
	}

	settings, err := config.LoadSettings(filepath.Join(dir, "settings.yml"))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.Server.Site != "" {
		t.Errorf("Expected no server.site without a fixture, got %q", settings.Server.Site)
	}
	if _, err := loadSite("", settings); err == nil || !strings.Contains(err.Error(), "pass --site") {
		t.Errorf("Expected loadSite to ask for --site, got %v", err)
	}
}
