package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/quizbuzz/buzzer-backend/internal/config"
	"github.com/quizbuzz/buzzer-backend/internal/session"
	"github.com/quizbuzz/buzzer-backend/internal/ws"
)

// SetupRoutes builds the router with the session injected.
func SetupRoutes(sess *session.Session, cfg config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	r.Use(c.Handler)

	r.Get("/healthz", Healthz)
	r.Get("/api/connect-info", ConnectInfo(cfg, log))
	r.Get("/ws", ws.Handler(sess, cfg, log.Named("ws")))

	// Participant and admin pages. The pages are plain static documents;
	// they discover the websocket URL via /api/connect-info.
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}
	return r
}

func corsOrigins(cfg config.Config) []string {
	if len(cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.AllowedOrigins
}
