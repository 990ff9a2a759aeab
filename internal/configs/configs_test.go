package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEDIBOT_STORE_PATH", dir)
	for _, k := range []string{"MEDIBOT_ENVIRONMENT", "MEDIBOT_API_BASE", "MEDIBOT_HTTP_TIMEOUT", "MEDIBOT_STORE", "MEDIBOT_LOG_FILE", "MEDIBOT_SUBMIT_INTERVAL", "MEDIBOT_AUTHORIZE_CHAT"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.True(t, cfg.IsDevelopment())
	require.Equal(t, "http://localhost:8000/api", cfg.APIBase)
	require.Equal(t, 2*time.Minute, cfg.HTTPTimeout)
	require.Equal(t, time.Second, cfg.SubmitInterval)
	require.True(t, cfg.AuthorizeChat)
	require.Equal(t, StoreSQLite, cfg.Store)
	require.Equal(t, filepath.Join(dir, "medibot.log"), cfg.LogFile)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MEDIBOT_STORE_PATH", t.TempDir())
	t.Setenv("MEDIBOT_API_BASE", "https://example.test/api/")
	t.Setenv("MEDIBOT_HTTP_TIMEOUT", "0")
	t.Setenv("MEDIBOT_STORE", "Badger")
	t.Setenv("MEDIBOT_AUTHORIZE_CHAT", "false")
	t.Setenv("MEDIBOT_SUBMIT_INTERVAL", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://example.test/api", cfg.APIBase)
	require.Zero(t, cfg.HTTPTimeout)
	require.Equal(t, StoreBadger, cfg.Store)
	require.False(t, cfg.AuthorizeChat)
	require.Equal(t, 250*time.Millisecond, cfg.SubmitInterval)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"MEDIBOT_API_BASE":       "/api",
		"MEDIBOT_HTTP_TIMEOUT":   "soon",
		"MEDIBOT_STORE":          "redis",
		"MEDIBOT_AUTHORIZE_CHAT": "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("MEDIBOT_STORE_PATH", t.TempDir())
			t.Setenv(key, value)

			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadDotEnvSkipsMissingAndKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MEDIBOT_DOTENV_TEST=from-file\nMEDIBOT_DOTENV_KEEP=from-file\n"), 0o600))

	t.Setenv("MEDIBOT_DOTENV_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("MEDIBOT_DOTENV_TEST") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	require.Equal(t, "from-file", os.Getenv("MEDIBOT_DOTENV_TEST"))
	require.Equal(t, "from-env", os.Getenv("MEDIBOT_DOTENV_KEEP"))
}
