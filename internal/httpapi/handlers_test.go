package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quizbuzz/buzzer-backend/internal/config"
)

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestConnectInfo(t *testing.T) {
	cfg := config.Config{Addr: ":8765"}
	handler := ConnectInfo(cfg, zap.NewNop())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/connect-info", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ConnectInfoResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, strings.HasPrefix(resp.WSURL, "ws://"), "got %q", resp.WSURL)
	require.True(t, strings.HasSuffix(resp.WSURL, ":8765/ws"), "got %q", resp.WSURL)
	require.True(t, strings.HasPrefix(resp.HTTPURL, "http://"), "got %q", resp.HTTPURL)
}

func TestListenPort(t *testing.T) {
	require.Equal(t, "8765", listenPort(":8765"))
	require.Equal(t, "9000", listenPort("0.0.0.0:9000"))
	require.Equal(t, "8765", listenPort("garbage"))
}
