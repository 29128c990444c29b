package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.ServerPort)
	require.Equal(t, []byte("test-secret"), cfg.JWTSecret)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 30, cfg.DefaultReminderMinutes)
	require.False(t, cfg.RequireVerification)
	require.Equal(t, "*/5 * * * *", cfg.ReminderCron)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL_HOURS", "1")
	t.Setenv("DEFAULT_REMINDER_MINUTES", "15")
	t.Setenv("REQUIRE_VERIFICATION", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 15, cfg.DefaultReminderMinutes)
	require.True(t, cfg.RequireVerification)
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
