package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quizbuzz/buzzer-backend/internal/protocol"
	"github.com/quizbuzz/buzzer-backend/internal/session"
)

// Router errors. The read loop logs these and keeps the connection open; a
// bad frame never drops a connection or touches session state.
var ErrMalformedFrame = errors.New("malformed frame")
var ErrUnknownType = errors.New("unknown message type")

// decodeFrame maps one inbound text frame to a session message. The outbox
// travels with register so the session can attach it to the new record.
func decodeFrame(connID string, outbox chan protocol.Outbound, data []byte) (session.Msg, error) {
	var msg protocol.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch msg.Type {
	case protocol.TypeRegister:
		return session.Register{
			ConnID:   connID,
			IsAdmin:  msg.IsAdmin,
			TeamName: msg.TeamName,
			Outbox:   outbox,
		}, nil
	case protocol.TypeBuzz:
		return session.Buzz{ConnID: connID}, nil
	case protocol.TypeAdminCommand:
		return session.AdminCommand{ConnID: connID, Command: msg.Command}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
}
