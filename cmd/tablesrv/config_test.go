package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":9876", cfg.Addr)
	assert.Equal(t, "/datatable", cfg.BasePath)
	assert.Equal(t, TransportRouter, cfg.Transport)
	assert.Equal(t, 10, cfg.Table.DefaultPageSize)
	assert.True(t, cfg.Table.AutoResetPageIndex)
	assert.True(t, cfg.Activity.Enabled)
	assert.Equal(t, "datatable", cfg.Activity.Channel)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DATATABLE_ADDR", ":7000")
	t.Setenv("DATATABLE_TRANSPORT", "http")
	t.Setenv("DATATABLE_DATATABLE_DEFAULT_PAGE_SIZE", "25")
	t.Setenv("DATATABLE_ACTIVITY_ENABLED", "false")

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 25, cfg.Table.DefaultPageSize)
	assert.False(t, cfg.Activity.Enabled)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tablesrv.yaml")
	content := `
base_path: /admin/tables/
manifests:
  - tables.yaml
datatable:
  page_size_options: [5, 15]
theme:
  name: admin
  variant: dark
  tokens:
    accent: "#0af"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/admin/tables", cfg.BasePath)
	assert.Equal(t, []string{"tables.yaml"}, cfg.Manifests)
	assert.Equal(t, []int{5, 15}, cfg.Table.PageSizeOptions)
	assert.Equal(t, "admin", cfg.Theme.Name)
	assert.Equal(t, "#0af", cfg.Theme.Tokens["accent"])
}

func TestLoadConfigRejectsUnknownTransport(t *testing.T) {
	v := viper.New()
	v.Set("transport", "carrier-pigeon")
	_, err := LoadConfig(v, "")
	assert.ErrorContains(t, err, "unknown transport")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
