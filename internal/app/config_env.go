package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("ADDR")
	}
	if cfg.MaxUploadBytes == 0 {
		if n, ok := envInt64("MAX_UPLOAD_BYTES"); ok && n > 0 {
			cfg.MaxUploadBytes = n
		}
	}
	if cfg.PreviewRows == 0 {
		if n, ok := envInt64("PREVIEW_ROWS"); ok && n > 0 {
			cfg.PreviewRows = int(n)
		}
	}
	if cfg.ShutdownTimeout == 0 {
		if s := os.Getenv("SHUTDOWN_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.ShutdownTimeout = d
			}
		}
	}
	if !cfg.Verbose {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				cfg.Verbose = true
			}
		}
	}
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment
// variables when the corresponding env vars are set. This lets env take
// precedence over values coming from a config file while still allowing
// flags to remain highest precedence.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if n, ok := envInt64("MAX_UPLOAD_BYTES"); ok && n > 0 {
		cfg.MaxUploadBytes = n
	}
	if n, ok := envInt64("PREVIEW_ROWS"); ok && n > 0 {
		cfg.PreviewRows = int(n)
	}
	if s := os.Getenv("SHUTDOWN_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.ShutdownTimeout = d
		}
	}
	if s := strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))); s != "" {
		switch s {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		case "0", "false", "no", "off":
			cfg.Verbose = false
		}
	}
}

func envInt64(key string) (int64, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
