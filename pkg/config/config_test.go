package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSection struct {
	Name  string `mapstructure:"name"`
	Limit int    `mapstructure:"limit"`
}

type testConfig struct {
	App      App         `mapstructure:"app"`
	Database Database    `mapstructure:"database"`
	Section  testSection `mapstructure:"section"`
	Ignored  string      `mapstructure:"-"`
}

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(&testConfig{}), "")

	assert.Contains(t, keys, "app.name")
	assert.Contains(t, keys, "database.name")
	assert.Contains(t, keys, "database.conn_max_lifetime")
	assert.Contains(t, keys, "section.limit")
	assert.NotContains(t, keys, "ignored")
	assert.NotContains(t, keys, "database")
}

func TestLoad_EnvironmentWithoutFile(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("DATABASE_NAME", "fin")
	t.Setenv("SECTION_LIMIT", "7")

	var cfg testConfig
	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "fin", cfg.Database.DBName)
	assert.Equal(t, 7, cfg.Section.Limit)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("section:\n  name: from-file\n  limit: 3\n"), 0o600))
	t.Setenv("SECTION_LIMIT", "9")

	var cfg testConfig
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, "from-file", cfg.Section.Name)
	assert.Equal(t, 9, cfg.Section.Limit)
}
