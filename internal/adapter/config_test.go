package adapter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  url: https://toko.example.com
  timeout: 10s
deletion:
  delay: 8s
ui:
  notice_duration: 1500ms
logging:
  level: debug
cache:
  dir: ""
`)
	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://toko.example.com", cfg.Server.URL)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 8*time.Second, cfg.Deletion.Delay)
	assert.Equal(t, 1500*time.Millisecond, cfg.UI.NoticeDuration)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Empty(t, cfg.Cache.Dir)
	assert.Equal(t, DefaultConfig().Logging.File, cfg.Logging.File)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 5*time.Second, cfg.Deletion.Delay)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SHOPADMIN_SERVER_URL", "http://10.0.0.5:5000")
	t.Setenv("SHOPADMIN_DELETION_DELAY", "2s")

	cfg, err := LoadConfigFile(writeConfig(t, "server:\n  url: http://ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:5000", cfg.Server.URL)
	assert.Equal(t, 2*time.Second, cfg.Deletion.Delay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "url without scheme", mutate: func(c *Config) { c.Server.URL = "localhost:5000" }},
		{name: "zero delay", mutate: func(c *Config) { c.Deletion.Delay = 0 }},
		{name: "negative timeout", mutate: func(c *Config) { c.Server.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestInvalidConfigFile(t *testing.T) {
	_, err := LoadConfigFile(writeConfig(t, "server: [unclosed\n"))
	assert.Error(t, err)
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("product delete failed", "productID", "7")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "product delete failed", line["msg"])
	assert.Equal(t, "7", line["productID"])
	assert.Equal(t, "shopadmin", line["app"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel(" error "))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("loud"))
}

func TestSetupLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shopadmin.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "info"})
	require.NoError(t, err)
	logger.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
}

func TestSaveServerURL(t *testing.T) {
	t.Run("keeps other settings", func(t *testing.T) {
		path := writeConfig(t, "deletion:\n  delay: 8s\n")
		require.NoError(t, SaveServerURL(path, "https://toko.example.com"))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "https://toko.example.com", cfg.Server.URL)
		assert.Equal(t, 8*time.Second, cfg.Deletion.Delay)
	})

	t.Run("creates a missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "shop.yaml")
		require.NoError(t, SaveServerURL(path, "http://10.0.0.5:5000"))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "http://10.0.0.5:5000", cfg.Server.URL)
	})
}
