package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Catalog)
	assert.Equal(t, 5*time.Second, cfg.TickInterval)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coffeeintel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\ntickInterval: 2s\npromptBurst: 9\nseed: 42\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PROMPT_BURST", "3")
	t.Setenv("MAX_SESSIONS", "12")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.TickInterval)
	assert.Equal(t, 3, cfg.PromptBurst)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 12, cfg.MaxSessions)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("CATALOG", "postgres")
	_, err := loadConfig()
	assert.Error(t, err)

	t.Setenv("CATALOG", "memory")
	t.Setenv("TICK_INTERVAL", "soon")
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := signSessionToken("s3cret", "01HZY", time.Minute)
	require.NoError(t, err)

	id, err := parseSessionToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "01HZY", id)

	_, err = parseSessionToken("other", tok)
	assert.Error(t, err)

	expired, err := signSessionToken("s3cret", "01HZY", -time.Minute)
	require.NoError(t, err)
	_, err = parseSessionToken("s3cret", expired)
	assert.Error(t, err)
}
