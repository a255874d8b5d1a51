package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
app:
  name: fin-service
dart:
  api_key: from-file
  max_year_fallback: 1
  timeout: 5s
prefetch:
  enabled: true
  cron_expression: "0 6 * * *"
  companies:
    - 삼성전자
    - 카카오
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "fin-service", cfg.App.Name)
	assert.Equal(t, "from-file", cfg.Dart.APIKey)
	assert.Equal(t, 1, cfg.Dart.MaxYearFallback)
	assert.Equal(t, 5*time.Second, cfg.Dart.Timeout)
	assert.True(t, cfg.Prefetch.Enabled)
	assert.Equal(t, []string{"삼성전자", "카카오"}, cfg.Prefetch.Companies)

	assert.Equal(t, "https://opendart.fss.or.kr/api", cfg.Dart.BaseURL)
	assert.Equal(t, "11011", cfg.Dart.ReportCode)
	assert.Equal(t, "CFS", cfg.Dart.FsDiv)
	assert.Equal(t, 600, cfg.Dart.MaxRequestPerMinute)
	assert.Equal(t, 24*time.Hour, cfg.Cache.CorpDirectoryTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.CompanyInfoTTL)
	assert.Equal(t, 2*time.Minute, cfg.Prefetch.TaskTimeout)
	assert.False(t, cfg.Cache.RecomputeRatios)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DART_API_KEY", "from-env")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Dart.APIKey)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Dart.MaxYearFallback)
	assert.Equal(t, 30*time.Second, cfg.Dart.Timeout)
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load(writeConfig(t, "dart: [unterminated"))

	assert.Error(t, err)
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	t.Setenv("DART_API_KEY", "from-env")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("DATABASE_PORT", "6543")
	t.Setenv("DART_TIMEOUT", "10s")
	t.Setenv("PREFETCH_ENABLED", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Dart.APIKey)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 10*time.Second, cfg.Dart.Timeout)
	assert.True(t, cfg.Prefetch.Enabled)
	assert.Equal(t, 2, cfg.Dart.MaxYearFallback)
}
