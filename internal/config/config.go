package config

import (
	"os"
	"strings"
	"time"
)

// Config is the process configuration, read from the environment (a .env
// file is loaded by main before this runs).
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8765".
	Addr string
	// StaticDir is the directory of client pages to serve at /. Empty
	// disables static serving.
	StaticDir string
	// AllowedOrigins is the CORS / websocket origin allowlist.
	AllowedOrigins []string
	// PingInterval and PingTimeout bound websocket liveness probing.
	PingInterval time.Duration
	PingTimeout  time.Duration
	// WriteTimeout bounds one outbound frame write.
	WriteTimeout time.Duration
	// Dev switches to the development logger.
	Dev bool
}

func Load() Config {
	return Config{
		Addr:           envOr("BUZZER_ADDR", ":8765"),
		StaticDir:      envOr("BUZZER_STATIC_DIR", "web"),
		AllowedOrigins: splitOrigins(os.Getenv("BUZZER_ALLOWED_ORIGINS")),
		PingInterval:   durationOr("BUZZER_PING_INTERVAL", 20*time.Second),
		PingTimeout:    durationOr("BUZZER_PING_TIMEOUT", 10*time.Second),
		WriteTimeout:   durationOr("BUZZER_WRITE_TIMEOUT", 3*time.Second),
		Dev:            os.Getenv("BUZZER_DEV") == "1",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitOrigins(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
