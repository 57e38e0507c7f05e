package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "knowledge", cfg.Site.DocsRoot)
	require.Equal(t, "_site", cfg.Site.OutputDir)
	require.Equal(t, "LightKB", cfg.Site.Title)
	require.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce.Duration)
	require.Equal(t, time.Duration(0), cfg.Watch.ScheduleInterval.Duration)
}

func TestLoad_ReadsFile(t *testing.T) {
	root := t.TempDir()
	content := `site:
  docs_root: docs
  output_dir: public
  title: Team Wiki
watch:
  debounce: 250ms
  schedule_interval: 1h
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "docs", cfg.Site.DocsRoot)
	require.Equal(t, "Team Wiki", cfg.Site.Title)
	require.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce.Duration)
	require.Equal(t, time.Hour, cfg.Watch.ScheduleInterval.Duration)
	require.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoad_InvalidDebounceRejected(t *testing.T) {
	root := t.TempDir()
	content := "watch:\n  debounce: -1s\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))

	_, err := Load(root)
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvDocsRoot, "elsewhere")
	t.Setenv(EnvDebounce, "2s")

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "elsewhere", cfg.Site.DocsRoot)
	require.Equal(t, 2*time.Second, cfg.Watch.Debounce.Duration)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Site.Title = "Saved"
	cfg.Watch.Debounce = Duration{750 * time.Millisecond}
	require.NoError(t, cfg.Save(root))

	got, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "Saved", got.Site.Title)
	require.Equal(t, 750*time.Millisecond, got.Watch.Debounce.Duration)
}

func TestPathResolution(t *testing.T) {
	cfg := Default()
	require.Equal(t, filepath.Join("/kb", "knowledge"), cfg.DocsRootAbs("/kb"))
	require.Equal(t, filepath.Join("/kb", "_site"), cfg.OutputDirAbs("/kb"))
	require.Equal(t, filepath.Join("/kb", ".lightkb", "search.db"), cfg.IndexPathAbs("/kb"))

	cfg.Site.DocsRoot = "/abs/docs"
	require.Equal(t, "/abs/docs", cfg.DocsRootAbs("/kb"))
}

func TestNormalizers(t *testing.T) {
	require.Equal(t, LogLevelDebug, NormalizeLogLevel("DEBUG"))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("bogus"))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("json"))
	require.Equal(t, LogFormatText, NormalizeLogFormat("bogus"))
}
