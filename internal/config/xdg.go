package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauern/source-protection/internal/constants"
)

// XDGConfig handles XDG Base Directory Specification compliant configuration
type XDGConfig struct {
	BaseDir string
}

// NewXDGConfig creates a new XDG configuration manager
func NewXDGConfig() *XDGConfig {
	baseDir := os.Getenv("XDG_CONFIG_HOME")
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home directory cannot be determined
			baseDir = ".config"
		} else {
			baseDir = filepath.Join(homeDir, ".config")
		}
	}

	return &XDGConfig{
		BaseDir: filepath.Join(baseDir, constants.BinaryName),
	}
}

// GetConfigDir returns the XDG configuration directory
func (x *XDGConfig) GetConfigDir() string {
	return x.BaseDir
}

// GetGlobalConfigPath returns the path to the global settings file for the given extension
func (x *XDGConfig) GetGlobalConfigPath(ext string) string {
	if ext == "" {
		ext = ".yml"
	}
	return filepath.Join(x.BaseDir, constants.SettingsBaseName+ext)
}

// EnsureDirectories creates the XDG configuration directory
func (x *XDGConfig) EnsureDirectories() error {
	if err := os.MkdirAll(x.GetConfigDir(), 0o750); err != nil { // #nosec G301 - XDG directories should be user-only accessible
		return fmt.Errorf("failed to create directory %s: %w", x.GetConfigDir(), err)
	}
	return nil
}
