package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	require.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("JWT_EXPIRY", "24h")

	cfg := Load()

	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, ":9090", cfg.HTTPAddress)
	require.Equal(t, 25, cfg.PageSize)
	require.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	require.False(t, cfg.IsDevelopment())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PAGE_SIZE", "lots")
	t.Setenv("JWT_EXPIRY", "soon")

	cfg := Load()

	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, 168*time.Hour, cfg.JWTExpiry)
}
