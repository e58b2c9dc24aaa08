package httpapi

import (
	"encoding/json"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/quizbuzz/buzzer-backend/internal/config"
	"github.com/quizbuzz/buzzer-backend/internal/netutil"
)

// ConnectInfoResponse tells front-end pages where to open their websocket.
type ConnectInfoResponse struct {
	WSURL   string `json:"ws_url"`
	HTTPURL string `json:"http_url"`
}

// ConnectInfo reports the client-facing connection targets, built from the
// discovered local address so devices on the same network can join.
func ConnectInfo(cfg config.Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host, err := netutil.LocalIP()
		if err != nil {
			log.Warn("local address discovery failed", zap.Error(err))
			host = "localhost"
		}

		port := listenPort(cfg.Addr)
		addr := net.JoinHostPort(host, port)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ConnectInfoResponse{
			WSURL:   "ws://" + addr + "/ws",
			HTTPURL: "http://" + addr + "/",
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func listenPort(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return "8765"
	}
	return port
}
