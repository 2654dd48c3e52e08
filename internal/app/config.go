package app

import (
	"errors"
	"strings"
	"time"
)

// Flag defaults, shared with the file-config overlay so it can tell an
// explicit flag from an untouched one.
const (
	DefaultAddr            = ":8080"
	DefaultMaxUploadBytes  = 16 << 20
	DefaultPreviewRows     = 50
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds runtime configuration for the application.
type Config struct {
	// Server
	Addr            string
	ShutdownTimeout time.Duration

	// Upload
	MaxUploadBytes int64

	// Display
	PreviewRows int

	// Behavior
	Verbose bool
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return errors.New("config: listen address is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		return errors.New("config: max upload bytes must be positive")
	}
	if cfg.PreviewRows < 0 {
		return errors.New("config: negative preview rows are not allowed")
	}
	if cfg.ShutdownTimeout < 0 {
		return errors.New("config: negative shutdown timeout is not allowed")
	}
	return nil
}
