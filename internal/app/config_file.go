package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections improve readability and map naturally to flags/env.
type FileConfig struct {
	Addr string `yaml:"addr" json:"addr"`

	Upload struct {
		MaxBytes int64 `yaml:"maxBytes" json:"maxBytes"`
	} `yaml:"upload" json:"upload"`

	Preview struct {
		Rows int `yaml:"rows" json:"rows"`
	} `yaml:"preview" json:"preview"`

	Shutdown struct {
		// Timeout is a Go duration string such as "10s".
		Timeout string `yaml:"timeout" json:"timeout"`
	} `yaml:"shutdown" json:"shutdown"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset or still at their flag default. Flags should
// already have been parsed; this lets file config supply defaults while
// preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.Addr == "" || cfg.Addr == DefaultAddr) && fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if (cfg.MaxUploadBytes == 0 || cfg.MaxUploadBytes == DefaultMaxUploadBytes) && fc.Upload.MaxBytes > 0 {
		cfg.MaxUploadBytes = fc.Upload.MaxBytes
	}
	if (cfg.PreviewRows == 0 || cfg.PreviewRows == DefaultPreviewRows) && fc.Preview.Rows > 0 {
		cfg.PreviewRows = fc.Preview.Rows
	}
	if (cfg.ShutdownTimeout == 0 || cfg.ShutdownTimeout == DefaultShutdownTimeout) && fc.Shutdown.Timeout != "" {
		if d, err := time.ParseDuration(fc.Shutdown.Timeout); err == nil && d > 0 {
			cfg.ShutdownTimeout = d
		}
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
