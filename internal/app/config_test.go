package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidateConfig(t *testing.T) {
	good := Config{
		Addr:            DefaultAddr,
		MaxUploadBytes:  DefaultMaxUploadBytes,
		PreviewRows:     DefaultPreviewRows,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
	if err := ValidateConfig(good); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"blank addr", func(c *Config) { c.Addr = "  " }, "listen address"},
		{"zero upload cap", func(c *Config) { c.MaxUploadBytes = 0 }, "upload"},
		{"negative preview", func(c *Config) { c.PreviewRows = -1 }, "preview"},
		{"negative shutdown", func(c *Config) { c.ShutdownTimeout = -time.Second }, "shutdown"},
	}
	for _, tc := range cases {
		cfg := good
		tc.mut(&cfg)
		err := ValidateConfig(cfg)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestLoadConfigFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "addr: \":9090\"\nupload:\n  maxBytes: 1048576\npreview:\n  rows: 20\nshutdown:\n  timeout: 5s\nverbose: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile error: %v", err)
	}
	if fc.Addr != ":9090" || fc.Upload.MaxBytes != 1048576 || fc.Preview.Rows != 20 {
		t.Fatalf("unexpected file config: %+v", fc)
	}
	if fc.Shutdown.Timeout != "5s" || !fc.Verbose {
		t.Fatalf("unexpected file config: %+v", fc)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"addr": ":7070", "upload": {"maxBytes": 2048}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile error: %v", err)
	}
	if fc.Addr != ":7070" || fc.Upload.MaxBytes != 2048 {
		t.Fatalf("unexpected file config: %+v", fc)
	}
}

func TestLoadConfigFile_UnknownExtensionTriesBoth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.conf")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile error: %v", err)
	}
	if fc.Addr != ":6060" {
		t.Fatalf("unexpected addr %q", fc.Addr)
	}
}

func TestApplyFileConfig_OverlaysOnlyDefaults(t *testing.T) {
	cfg := Config{
		Addr:            DefaultAddr,
		MaxUploadBytes:  DefaultMaxUploadBytes,
		PreviewRows:     25, // explicit, must survive
		ShutdownTimeout: DefaultShutdownTimeout,
	}
	var fc FileConfig
	fc.Addr = ":9999"
	fc.Upload.MaxBytes = 4096
	fc.Preview.Rows = 99
	fc.Shutdown.Timeout = "7s"
	fc.Verbose = true

	ApplyFileConfig(&cfg, fc)

	if cfg.Addr != ":9999" {
		t.Fatalf("file addr should replace default, got %q", cfg.Addr)
	}
	if cfg.MaxUploadBytes != 4096 {
		t.Fatalf("file upload cap should replace default, got %d", cfg.MaxUploadBytes)
	}
	if cfg.PreviewRows != 25 {
		t.Fatalf("explicit preview rows must survive the overlay, got %d", cfg.PreviewRows)
	}
	if cfg.ShutdownTimeout != 7*time.Second {
		t.Fatalf("file shutdown timeout should replace default, got %v", cfg.ShutdownTimeout)
	}
	if !cfg.Verbose {
		t.Fatalf("file verbose should apply")
	}
}

func TestApplyEnvToConfig_FillsUnsetOnly(t *testing.T) {
	t.Setenv("ADDR", ":5050")
	t.Setenv("MAX_UPLOAD_BYTES", "1234")
	t.Setenv("PREVIEW_ROWS", "7")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("VERBOSE", "yes")

	cfg := Config{Addr: ":1111"}
	ApplyEnvToConfig(&cfg)

	if cfg.Addr != ":1111" {
		t.Fatalf("explicit addr must win over env, got %q", cfg.Addr)
	}
	if cfg.MaxUploadBytes != 1234 || cfg.PreviewRows != 7 {
		t.Fatalf("env limits not applied: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 3*time.Second || !cfg.Verbose {
		t.Fatalf("env duration/bool not applied: %+v", cfg)
	}
}

func TestApplyEnvOverrides_BeatsExistingValues(t *testing.T) {
	t.Setenv("ADDR", ":5050")
	t.Setenv("VERBOSE", "off")

	cfg := Config{Addr: ":1111", Verbose: true}
	ApplyEnvOverrides(&cfg)

	if cfg.Addr != ":5050" {
		t.Fatalf("env override should beat file values, got %q", cfg.Addr)
	}
	if cfg.Verbose {
		t.Fatalf("VERBOSE=off should clear the flag")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected validation error for zero config")
	}
	a, err := New(Config{
		Addr:            "127.0.0.1:0",
		MaxUploadBytes:  1 << 20,
		PreviewRows:     DefaultPreviewRows,
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Session() == nil {
		t.Fatalf("app must expose its session")
	}
}
