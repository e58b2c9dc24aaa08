package ws

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizbuzz/buzzer-backend/internal/protocol"
	"github.com/quizbuzz/buzzer-backend/internal/session"
)

func TestDecodeFrame_Register(t *testing.T) {
	out := make(chan protocol.Outbound, 1)

	msg, err := decodeFrame("c1", out, []byte(`{"type":"register","team_name":"Red"}`))
	require.NoError(t, err)

	reg, ok := msg.(session.Register)
	require.True(t, ok, "expected session.Register, got %T", msg)
	require.Equal(t, "c1", reg.ConnID)
	require.False(t, reg.IsAdmin)
	require.Equal(t, "Red", reg.TeamName)
	require.True(t, reg.Outbox == out, "outbox must travel with the register message")
}

func TestDecodeFrame_RegisterAdmin(t *testing.T) {
	msg, err := decodeFrame("c1", nil, []byte(`{"type":"register","is_admin":true}`))
	require.NoError(t, err)

	reg, ok := msg.(session.Register)
	require.True(t, ok)
	require.True(t, reg.IsAdmin)
	require.Empty(t, reg.TeamName)
}

func TestDecodeFrame_Buzz(t *testing.T) {
	msg, err := decodeFrame("c7", nil, []byte(`{"type":"buzz"}`))
	require.NoError(t, err)
	require.Equal(t, session.Buzz{ConnID: "c7"}, msg)
}

func TestDecodeFrame_AdminCommand(t *testing.T) {
	msg, err := decodeFrame("c1", nil, []byte(`{"type":"admin_command","command":"unlock"}`))
	require.NoError(t, err)
	require.Equal(t, session.AdminCommand{ConnID: "c1", Command: "unlock"}, msg)
}

func TestDecodeFrame_MalformedJSON(t *testing.T) {
	cases := [][]byte{
		[]byte(`{`),
		[]byte(`not json at all`),
		[]byte(``),
		[]byte(`{"type":42}`),
	}
	for _, data := range cases {
		msg, err := decodeFrame("c1", nil, data)
		require.ErrorIs(t, err, ErrMalformedFrame, "payload %q", data)
		require.Nil(t, msg)
	}
}

func TestDecodeFrame_UnknownType(t *testing.T) {
	msg, err := decodeFrame("c1", nil, []byte(`{"type":"shout"}`))
	require.ErrorIs(t, err, ErrUnknownType)
	require.Nil(t, msg)
}
