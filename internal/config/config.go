// Package config loads the knowledge-base configuration: a lightkb.yaml
// file at the knowledge root, with environment overrides. Paths are
// resolved relative to the root; the core never discovers them on its own.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file expected at the knowledge root.
const FileName = "lightkb.yaml"

// IndexFileName is the search index location relative to the knowledge
// root.
const IndexFileName = ".lightkb/search.db"

// Duration wraps time.Duration with YAML support ("500ms", "2s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Config is the full application configuration.
type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Watch WatchConfig `yaml:"watch"`
	Log   LogConfig   `yaml:"log"`
}

// SiteConfig holds content and output locations plus presentation basics.
type SiteConfig struct {
	// DocsRoot is the source document tree, relative to the knowledge root
	// unless absolute.
	DocsRoot string `yaml:"docs_root"`
	// OutputDir is where rendered HTML goes, relative to the knowledge
	// root unless absolute.
	OutputDir string `yaml:"output_dir"`
	// Title is the site title shown on the index page.
	Title string `yaml:"title"`
}

func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DocsRoot, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Title, validation.Required),
	)
}

// WatchConfig tunes the watch/rebuild coordinator.
type WatchConfig struct {
	// Debounce is the quiet window after the first change event before a
	// rebuild starts.
	Debounce Duration `yaml:"debounce"`
	// ScheduleInterval, when positive, additionally triggers a full
	// rebuild on a fixed period. Zero disables the schedule.
	ScheduleInterval Duration `yaml:"schedule_interval"`
}

func (c WatchConfig) Validate() error {
	if c.Debounce.Duration <= 0 {
		return errors.New("config: watch.debounce must be positive")
	}
	if c.ScheduleInterval.Duration < 0 {
		return errors.New("config: watch.schedule_interval must not be negative")
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Watch.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			DocsRoot:  "knowledge",
			OutputDir: "_site",
			Title:     "LightKB",
		},
		Watch: WatchConfig{
			Debounce: Duration{500 * time.Millisecond},
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// Load reads the configuration for the knowledge root. A missing file
// yields the defaults. Environment overrides (see env.go) apply either
// way, and the result is validated.
func Load(root string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg, root)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration file at the knowledge root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: serialize: %w", err)
	}
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// DocsRootAbs resolves the docs root against the knowledge root.
func (c *Config) DocsRootAbs(root string) string {
	return resolve(root, c.Site.DocsRoot)
}

// OutputDirAbs resolves the output directory against the knowledge root.
func (c *Config) OutputDirAbs(root string) string {
	return resolve(root, c.Site.OutputDir)
}

// IndexPathAbs returns the search index location under the knowledge root.
func (c *Config) IndexPathAbs(root string) string {
	return filepath.Join(root, IndexFileName)
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
