package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, ":8765", cfg.Addr)
	require.Equal(t, "web", cfg.StaticDir)
	require.Nil(t, cfg.AllowedOrigins)
	require.Equal(t, 20*time.Second, cfg.PingInterval)
	require.Equal(t, 10*time.Second, cfg.PingTimeout)
	require.Equal(t, 3*time.Second, cfg.WriteTimeout)
	require.False(t, cfg.Dev)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BUZZER_ADDR", ":9999")
	t.Setenv("BUZZER_STATIC_DIR", "public")
	t.Setenv("BUZZER_ALLOWED_ORIGINS", "https://quiz.local, https://admin.quiz.local")
	t.Setenv("BUZZER_PING_INTERVAL", "5s")
	t.Setenv("BUZZER_DEV", "1")

	cfg := Load()

	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, "public", cfg.StaticDir)
	require.Equal(t, []string{"https://quiz.local", "https://admin.quiz.local"}, cfg.AllowedOrigins)
	require.Equal(t, 5*time.Second, cfg.PingInterval)
	require.True(t, cfg.Dev)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("BUZZER_PING_INTERVAL", "soon")
	require.Equal(t, 20*time.Second, Load().PingInterval)
}
