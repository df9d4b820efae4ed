package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file with every section set
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "log-level: debug\nui-mode: terminal\nhttp-port: \"8081\"\nredis:\n  enabled: true\n  host: cache\n  port: \"6380\"\n  channel: games\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: the values come from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, UIModeTerminal, conf.UIMode)
		assert.Equal(t, "8081", conf.HTTPPort)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, "games", conf.Redis.Channel)
	})

	t.Run("Falls back to defaults without a file", func(t *testing.T) {
		// When: loading a path that does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults are used
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, UIModeWeb, conf.UIMode)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "tictactoe:events", conf.Redis.Channel)
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		// Given: an env override for the port
		t.Setenv("HTTP_PORT", "7070")

		// When: loading without a file
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: the env value wins
		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Rejects unknown ui mode", func(t *testing.T) {
		// Given: an unsupported ui mode
		t.Setenv("UI_MODE", "desktop")

		// When: loading
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: ErrUnknownUIMode is returned
		require.ErrorIs(t, err, ErrUnknownUIMode)
	})
}

func TestMustLoad_PanicsOnBrokenFile(t *testing.T) {
	// Given: a file that is not yaml
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("log-level: [unclosed"), 0o600))

	// Then: MustLoad panics
	assert.Panics(t, func() { MustLoad(path) })
}
