package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://api.thingspeak.com", cfg.ThingSpeak.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.ThingSpeak.Timeout)
	assert.Equal(t, 24, cfg.ThingSpeak.HistoryResults)
	assert.Equal(t, 3, cfg.ThingSpeak.BreakerFailures)
	assert.Equal(t, "@every 5m", cfg.Polling.Schedule)
	assert.Equal(t, "Asia/Kolkata", cfg.Polling.Timezone)
	assert.Equal(t, "agricure", cfg.MongoDB.DBName)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)

	assert.False(t, cfg.AI.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.Influx.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"JWT_SECRET=from-file\nTHINGSPEAK_TIMEOUT=3s\nINFLUX_URL=http://influx:8086\nINFLUX_TOKEN=t\nINFLUX_ORG=o\nINFLUX_BUCKET=b\n",
	), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"JWT_SECRET", "THINGSPEAK_TIMEOUT", "INFLUX_URL", "INFLUX_TOKEN", "INFLUX_ORG", "INFLUX_BUCKET"} {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 3*time.Second, cfg.ThingSpeak.Timeout)
	assert.True(t, cfg.Influx.Enabled())
}

func TestLoadMissingEnvFileIsTolerated(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "s3cret")

	_, err := Load("does-not-exist.env")
	assert.NoError(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdirTemp(t)

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load("")
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("CB_OPEN_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "CB_OPEN_TIMEOUT")
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load("")
		assert.ErrorContains(t, err, "TIMEZONE")
	})

	t.Run("history too large", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("THINGSPEAK_HISTORY_RESULTS", "9000")
		_, err := Load("")
		assert.ErrorContains(t, err, "THINGSPEAK_HISTORY_RESULTS")
	})
}

func TestWhatsAppEnabledNeedsRecipient(t *testing.T) {
	c := WhatsAppConfig{AccessToken: "t", PhoneNumberID: "p"}
	assert.False(t, c.Enabled())
	c.AlertRecipient = "9199"
	assert.True(t, c.Enabled())
}
