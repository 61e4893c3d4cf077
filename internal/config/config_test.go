package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "auth-service", cfg.App.Name)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Equal(t, 24, cfg.Auth.MaxRefreshRate)
	require.Equal(t, 1, cfg.Auth.ReloginEpoch)
	require.Equal(t, 30*time.Minute, cfg.Auth.ResetTokenTTL())
	require.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	require.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_MAX_REFRESH_RATE", "5")
	t.Setenv("AUTH_RELOGIN_EPOCH", "3")
	t.Setenv("AUTH_PASSWORD_RESET_TTL_MINUTES", "15")
	t.Setenv("AUTH_RESET_PASSWORD_URL", "https://example.com/reset")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 5, cfg.Auth.MaxRefreshRate)
	require.Equal(t, 3, cfg.Auth.ReloginEpoch)
	require.Equal(t, 15*time.Minute, cfg.Auth.ResetTokenTTL())
	require.Equal(t, "https://example.com/reset", cfg.Auth.ResetPasswordURLBase)
	require.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("AUTH_MAX_REFRESH_RATE", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 24, cfg.Auth.MaxRefreshRate)
}

func TestRequestTimeout(t *testing.T) {
	require.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	require.Equal(t, 30*time.Second, AppConfig{RequestTimeoutSeconds: 30}.RequestTimeout())
}
