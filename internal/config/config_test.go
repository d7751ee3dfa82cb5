package config_test

import (
	"classscan/internal/config"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.Empty(t, cfg.Classpath)
	require.False(t, cfg.Filter.NoDefault)
	require.False(t, cfg.Metrics.Enabled)
	require.Equal(t, "-", cfg.Metrics.Output)
}

func TestLoadFile(t *testing.T) {
	p := writeConfig(t, `
environment: production
log:
  level: warn
classpath:
  - /opt/app/classes
  - /opt/app/lib/log4j.jar
filter:
  include:
    - '.*(xml).*'
  exclude:
    - '.*(DOMConfigurator).*'
  noDefault: true
metrics:
  enabled: true
  output: /tmp/metrics.prom
`)

	cfg, err := config.Load(p)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, config.PathList{"/opt/app/classes", "/opt/app/lib/log4j.jar"}, cfg.Classpath)
	require.Equal(t, []string{".*(xml).*"}, cfg.Filter.Include)
	require.Equal(t, []string{".*(DOMConfigurator).*"}, cfg.Filter.Exclude)
	require.True(t, cfg.Filter.NoDefault)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "/tmp/metrics.prom", cfg.Metrics.Output)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCANNER_CLASSPATH", strings.Join([]string{"/a/classes", "/b/lib.jar"}, string(os.PathListSeparator)))
	t.Setenv("SCANNER_EXCLUDE", `.*Test;.*\$.*`)
	t.Setenv("LOG_LEVEL", "error")

	p := writeConfig(t, "classpath: [/from/file]\n")

	cfg, err := config.Load(p)
	require.NoError(t, err)
	require.Equal(t, config.PathList{"/a/classes", "/b/lib.jar"}, cfg.Classpath)
	require.Equal(t, []string{".*Test", `.*\$.*`}, cfg.Filter.Exclude)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestPathListSetValue(t *testing.T) {
	sep := string(os.PathListSeparator)

	var p config.PathList
	require.NoError(t, p.SetValue(strings.Join([]string{"/app/classes", "", " lib/log4j.jar "}, sep)))
	require.Equal(t, config.PathList{"/app/classes", "lib/log4j.jar"}, p)

	require.NoError(t, p.SetValue(""))
	require.Empty(t, p)
}
