package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "intake-service", cfg.AppName)
	assert.Equal(t, "Kabadi", cfg.BrandName)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, 15*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, 10, cfg.LDFlag_NewsletterRateLimitPerMinute)
	assert.Equal(t, 300, cfg.APIRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.APIRateWindow)
	assert.Empty(t, cfg.NotifyTo)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"ENV":                   "production",
		"APP_URL_FROM_ANYWHERE": "https://kabadi.example",
		"PORT":                  "8080",
		"APP_NAME":              "Kabadi Pune",
		"SMTP_USER":             "mailer@kabadi.example",
		"NOTIFY_TO":             "ops@kabadi.example, owner@kabadi.example",
		"NOTIFY_TIMEOUT":        "3s",
		"DATABASE_URL":          "postgres://u:p@db:5432/kabadi",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "Kabadi Pune", cfg.BrandName)
	assert.Equal(t, "mailer@kabadi.example", cfg.NotifyFrom, "sender defaults to the SMTP user")
	assert.Equal(t, []string{"ops@kabadi.example", "owner@kabadi.example"}, cfg.NotifyTo)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, "postgres://u:p@db:5432/kabadi", cfg.DBUrl)
}

func TestFromEnv_AppPortWinsOverPort(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"APP_PORT": "9000", "PORT": "8080"}))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.AppPort)
}

func TestFromEnv_Invalid(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{"APP_PORT": "http"}))
	assert.Error(t, err)

	_, err = FromEnv(envOf(map[string]string{"NOTIFY_TIMEOUT": "soon"}))
	assert.Error(t, err)

	_, err = FromEnv(envOf(map[string]string{"ENV": "production"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_URL_FROM_ANYWHERE")
}
