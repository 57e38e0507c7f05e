package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognized as overrides. They win over the file.
const (
	EnvDocsRoot  = "LIGHTKB_DOCS_ROOT"
	EnvOutputDir = "LIGHTKB_OUTPUT_DIR"
	EnvTitle     = "LIGHTKB_TITLE"
	EnvDebounce  = "LIGHTKB_DEBOUNCE"
	EnvLogLevel  = "LIGHTKB_LOG_LEVEL"
	EnvLogFormat = "LIGHTKB_LOG_FORMAT"
)

// applyEnvOverrides loads a .env file from the knowledge root if present,
// then applies LIGHTKB_* variables on top of cfg.
func applyEnvOverrides(cfg *Config, root string) {
	// Missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	if v := os.Getenv(EnvDocsRoot); v != "" {
		cfg.Site.DocsRoot = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Site.OutputDir = v
	}
	if v := os.Getenv(EnvTitle); v != "" {
		cfg.Site.Title = v
	}
	if v := os.Getenv(EnvDebounce); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watch.Debounce = Duration{d}
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = NormalizeLogLevel(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = NormalizeLogFormat(v)
	}
}
