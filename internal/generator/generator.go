// Package generator writes starter settings and site fixtures from embedded templates.
package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/klauern/source-protection/internal/config"
	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/policy"
)

//go:embed templates/*
var templates embed.FS

// ErrExists is returned when a target file exists and overwriting was not requested.
var ErrExists = errors.New("file already exists")

// TemplateData holds data for template rendering
type TemplateData struct {
	SiteName        string
	SitePath        string
	Hooks           []string
	HiddenViews     []string
	EditorOnlyViews []string
	DeniedActions   []string
	LogDir          string
	Addr            string
}

// Generator writes scaffold files under a directory
type Generator struct {
	outputDir string
	force     bool
}

// NewGenerator creates a generator writing into outputDir. An empty outputDir means the
// project settings directory.
func NewGenerator(outputDir string, force bool) *Generator {
	if outputDir == "" {
		outputDir = constants.ConfigDir
	}
	return &Generator{outputDir: outputDir, force: force}
}

// DefaultTemplateData fills the template data from the built-in policy and hooks.
func DefaultTemplateData(siteName string, hooks []string) TemplateData {
	if strings.TrimSpace(siteName) == "" {
		siteName = "My Wiki"
	}
	return TemplateData{
		SiteName:        siteName,
		Hooks:           hooks,
		HiddenViews:     policy.AlwaysHiddenViews,
		EditorOnlyViews: policy.EditorOnlyViews,
		DeniedActions:   policy.DeniedActions,
		LogDir:          constants.DefaultLogDir,
		Addr:            config.DefaultAddr,
	}
}

// GenerateSettings writes settings.yml and returns its path. The rendered file is loaded
// back and validated before anything is written. server.site is only set when
// data.SitePath is.
func (g *Generator) GenerateSettings(data TemplateData) (string, error) {
	content, err := render("settings.yml.tmpl", data)
	if err != nil {
		return "", err
	}
	path := filepath.Join(g.outputDir, constants.SettingsBaseName+".yml")
	if err := validateSettings(path, content); err != nil {
		return "", err
	}
	return path, g.write(path, content)
}

// GenerateSite writes a sample site fixture and returns its path.
func (g *Generator) GenerateSite(data TemplateData) (string, error) {
	content, err := render("site.yml.tmpl", data)
	if err != nil {
		return "", err
	}
	path := g.SitePath()
	return path, g.write(path, content)
}

// SitePath returns where GenerateSite writes the fixture.
func (g *Generator) SitePath() string {
	return filepath.Join(g.outputDir, "site.yml")
}

func render(templateName string, data TemplateData) ([]byte, error) {
	templateContent, err := templates.ReadFile("templates/" + templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %v", templateName, err)
	}

	tmpl, err := template.New(templateName).Parse(string(templateContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %v", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) write(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil && !g.force {
		return fmt.Errorf("%s: %w (use --force to overwrite)", path, ErrExists)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(g.outputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to create output file %s: %v", path, err)
	}
	return nil
}

func validateSettings(path string, content []byte) error {
	tmp, err := os.CreateTemp("", "settings-*.yml")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if _, err := config.LoadSettings(tmp.Name()); err != nil {
		return fmt.Errorf("generated %s is invalid: %w", path, err)
	}
	return nil
}
