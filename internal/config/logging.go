package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/klauern/source-protection/internal/constants"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging format constants
const (
	LoggingFormatJSONL  = "jsonl"
	LoggingFormatPretty = "pretty"
)

// IsValidLoggingFormat returns true if the provided format is supported.
func IsValidLoggingFormat(f string) bool {
	return f == LoggingFormatJSONL || f == LoggingFormatPretty
}

// LogRotationConfig holds configuration for log rotation
type LogRotationConfig struct {
	MaxAge     int  `json:"maxAge" yaml:"maxAge" toml:"maxAge" validate:"gte=0"`             // Maximum number of days to retain log files
	MaxSize    int  `json:"maxSize" yaml:"maxSize" toml:"maxSize" validate:"gte=0"`          // Maximum size in megabytes before rotation
	MaxBackups int  `json:"maxBackups" yaml:"maxBackups" toml:"maxBackups" validate:"gte=0"` // Maximum number of backup files to retain
	Compress   bool `json:"compress" yaml:"compress" toml:"compress"`                        // Whether to compress rotated files
}

// DefaultLogRotationConfig returns sensible defaults for log rotation
func DefaultLogRotationConfig() LogRotationConfig {
	return LogRotationConfig{
		MaxAge:     30,   // 30 days default retention
		MaxSize:    10,   // 10MB per file
		MaxBackups: 5,    // Keep 5 backup files
		Compress:   true, // Compress old files
	}
}

// LoggingConfig controls where hook decisions are logged and in which format.
type LoggingConfig struct {
	Enabled  bool              `json:"enabled" yaml:"enabled" toml:"enabled"`
	Dir      string            `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
	Format   string            `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty" validate:"omitempty,oneof=jsonl pretty"`
	Level    string            `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Rotation LogRotationConfig `json:"rotation" yaml:"rotation" toml:"rotation"`
}

// DefaultLoggingConfig returns logging disabled with jsonl output under the project log dir.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Enabled:  false,
		Dir:      constants.DefaultLogDir,
		Format:   LoggingFormatJSONL,
		Level:    "info",
		Rotation: DefaultLogRotationConfig(),
	}
}

// LogPath returns the log file path for this configuration.
func (c LoggingConfig) LogPath() string {
	dir := c.Dir
	if dir == "" {
		dir = constants.DefaultLogDir
	}
	return filepath.Join(dir, constants.DefaultLogFile)
}

// SetupLogRotation configures log rotation for a given log file path
func SetupLogRotation(logPath string, config LogRotationConfig) *lumberjack.Logger {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		log.Printf("Failed to create log directory: %v", err)
		return nil
	}

	logger := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
		LocalTime:  true, // Use local time for timestamps
	}

	return logger
}

// CleanupOldLogs manually removes log files older than the specified number of days
// This provides additional cleanup beyond lumberjack's built-in MaxAge
func CleanupOldLogs(logDir string, maxAgeDays int) error {
	if maxAgeDays <= 0 {
		return nil // No cleanup if maxAge is 0 or negative
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	return filepath.Walk(logDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		// Only consider .log files and compressed log files
		if filepath.Ext(path) == ".log" || filepath.Ext(path) == ".gz" {
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(path); err != nil {
					log.Printf("Failed to remove old log file %s: %v", path, err)
				}
			}
		}

		return nil
	})
}
