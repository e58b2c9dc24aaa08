package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quizbuzz/buzzer-backend/internal/config"
	"github.com/quizbuzz/buzzer-backend/internal/protocol"
	"github.com/quizbuzz/buzzer-backend/internal/session"
)

// Handler accepts one websocket connection and runs its receive loop,
// feeding complete frames to the session in arrival order. The session only
// learns about the connection once it sends a valid register frame.
func Handler(sess *session.Session, cfg config.Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: cfg.AllowedOrigins,
		})
		if err != nil {
			log.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		outbox := make(chan protocol.Outbound, 16)
		log.Info("client connected", zap.String("conn", connID), zap.String("remote", r.RemoteAddr))

		// Disconnect is a no-op in the session if this connection never
		// registered.
		defer func() { sess.Inbox() <- session.Disconnect{ConnID: connID} }()

		connCtx, connCancel := context.WithCancel(r.Context())
		defer connCancel()

		// Writer: drains the outbox until the session closes it, or until the
		// connection goes away (a connection that never registers has no
		// record, so the session never closes its outbox).
		go func() {
			for {
				select {
				case <-connCtx.Done():
					return
				case msg, ok := <-outbox:
					if !ok {
						// The session dropped us. Close the connection so
						// the read loop exits too; a dropped connection
						// must not keep feeding frames.
						conn.Close(websocket.StatusPolicyViolation, "dropped by session")
						return
					}
					payload, err := json.Marshal(msg)
					if err != nil {
						log.Error("marshal outbound frame", zap.String("conn", connID), zap.Error(err))
						continue
					}
					ctx, cancel := context.WithTimeout(connCtx, cfg.WriteTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Keepalive: a peer that stops answering pings is closed, which
		// unblocks the read loop below.
		go func() {
			ticker := time.NewTicker(cfg.PingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-connCtx.Done():
					return
				case <-ticker.C:
					ctx, cancel := context.WithTimeout(connCtx, cfg.PingTimeout)
					err := conn.Ping(ctx)
					cancel()
					if err != nil {
						log.Warn("keepalive failed", zap.String("conn", connID), zap.Error(err))
						conn.Close(websocket.StatusPolicyViolation, "keepalive timeout")
						return
					}
				}
			}
		}()

		for {
			_, data, err := conn.Read(connCtx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					log.Info("client disconnected", zap.String("conn", connID))
				default:
					log.Info("client connection lost", zap.String("conn", connID), zap.Error(err))
				}
				return
			}

			msg, err := decodeFrame(connID, outbox, data)
			if err != nil {
				// Log and discard; the connection stays open.
				log.Warn("discarding bad frame", zap.String("conn", connID), zap.Error(err))
				continue
			}
			sess.Inbox() <- msg
		}
	}
}
