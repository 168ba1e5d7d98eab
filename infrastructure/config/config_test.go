package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, EnginePlaywright, cfg.Browser.Engine)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Second, cfg.Browser.ActionTimeout)
	assert.Equal(t, 5, cfg.Interaction.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Interaction.RoundDelay)
	assert.False(t, cfg.Interaction.CoordinateFallback)
	assert.Equal(t, 2, cfg.Runner.Parallel)
	assert.Equal(t, 50, cfg.Storage.HistoryLimit)
}

func TestFromViper_YAMLOverrides(t *testing.T) {
	yamlConfig := []byte(`
browser:
  engine: selenium
  headless: false
  driver_port: 4444
interaction:
  max_attempts: 3
  round_delay: 250ms
  coordinate_fallback: true
runner:
  parallel: 4
  tags: "@smoke"
`)
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, EngineSelenium, cfg.Browser.Engine)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 4444, cfg.Browser.DriverPort)
	assert.Equal(t, 3, cfg.Interaction.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Interaction.RoundDelay)
	assert.True(t, cfg.Interaction.CoordinateFallback)
	assert.Equal(t, 4, cfg.Runner.Parallel)
	assert.Equal(t, "@smoke", cfg.Runner.Tags)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BDD_BROWSER_ENGINE", "selenium")
	t.Setenv("BDD_INTERACTION_MAX_ATTEMPTS", "7")
	t.Setenv("BDD_INTERACTION_STRATEGY_TIMEOUT", "3s")
	t.Setenv("CHROME_BINARY_PATH", "/opt/chrome/chrome")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EngineSelenium, cfg.Browser.Engine)
	assert.Equal(t, 7, cfg.Interaction.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.Interaction.StrategyTimeout)
	assert.Equal(t, "/opt/chrome/chrome", cfg.Browser.ChromeBinary)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bdd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("git:\n  log_limit: 5\nstorage:\n  dir: /tmp/runs\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Git.LogLimit)
	assert.Equal(t, "/tmp/runs", cfg.Storage.Dir)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("browser.engine", "netscape")
	v.Set("interaction.max_attempts", 0)

	_, err := FromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser.engine")
	assert.Contains(t, err.Error(), "max_attempts")
}
