package constants

import "path/filepath"

// Application constants - single source of truth for naming throughout the codebase
const (
	// Core application identity
	AppName    = "Source Protection"
	BinaryName = "source-protection"

	// Source repository
	RepositoryURL = "https://github.com/klauern/source-protection"

	// Configuration files
	ConfigDir        = ".source-protection"
	SettingsBaseName = "settings"

	// Log files
	DefaultLogFile = "source-protection.log"
	DefaultLogDir  = ".source-protection/logs"

	// Message keys
	MsgNoAccess = "sourceprotection-no-access"

	// Metrics
	MetricsNamespace = "source_protection"

	// Request header the reference host reads the acting user from
	UserHeader = "X-Wiki-User"
)

// Hook keys
const (
	HookHideSource     = "hide-source"
	HookDisableActions = "disable-actions"
	HookReadOnlyForm   = "read-only-form"
)

// SettingsExtensions lists the settings formats in lookup order.
var SettingsExtensions = []string{".yml", ".yaml", ".toml", ".json"}

// GetConfigPath returns the settings file path under baseDir for the given extension
func GetConfigPath(baseDir, ext string) string {
	return filepath.Join(baseDir, ConfigDir, SettingsBaseName+ext)
}
