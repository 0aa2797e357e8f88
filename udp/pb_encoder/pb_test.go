package pb

import (
	"testing"

	"github.com/beka-birhanu/snake-duel/udp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
)

func TestHandshake(t *testing.T) {
	enc := &Protobuf{}

	t.Run("Welcome", func(t *testing.T) {
		h := &udp.Handshake{
			PeerID:    uuid.New(),
			SessionID: []byte{1, 2, 3, 4},
			Timestamp: 1700000000000,
		}
		raw, err := enc.MarshalHandshake(h)
		require.NoError(t, err)

		got, err := enc.UnmarshalHandshake(raw)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	})

	t.Run("Hello with cookie", func(t *testing.T) {
		h := &udp.Handshake{
			PeerID: uuid.New(),
			Random: []byte("0123456789abcdef"),
			Cookie: []byte("cookie"),
		}
		raw, err := enc.MarshalHandshake(h)
		require.NoError(t, err)

		got, err := enc.UnmarshalHandshake(raw)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	})

	t.Run("Reject reason", func(t *testing.T) {
		raw, err := enc.MarshalHandshake(&udp.Handshake{Reason: "busy"})
		require.NoError(t, err)

		got, err := enc.UnmarshalHandshake(raw)
		require.NoError(t, err)
		assert.Equal(t, "busy", got.Reason)
		assert.Equal(t, uuid.Nil, got.PeerID)
	})

	t.Run("Unknown fields are skipped", func(t *testing.T) {
		id := uuid.New()
		raw, err := enc.MarshalHandshake(&udp.Handshake{PeerID: id})
		require.NoError(t, err)
		raw = protowire.AppendTag(raw, 99, protowire.Fixed32Type)
		raw = protowire.AppendFixed32(raw, 7)

		got, err := enc.UnmarshalHandshake(raw)
		require.NoError(t, err)
		assert.Equal(t, id, got.PeerID)
	})

	t.Run("Short peer id", func(t *testing.T) {
		raw, err := proto.Marshal(&Handshake{PeerId: []byte{1, 2, 3}})
		require.NoError(t, err)

		_, err = enc.UnmarshalHandshake(raw)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("Truncated", func(t *testing.T) {
		raw, err := enc.MarshalHandshake(&udp.Handshake{Cookie: []byte("cookie")})
		require.NoError(t, err)

		_, err = enc.UnmarshalHandshake(raw[:len(raw)-2])
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("Wire matches the schema", func(t *testing.T) {
		h := &udp.Handshake{
			PeerID:    uuid.New(),
			Cookie:    []byte("cookie"),
			Timestamp: 1700000000000,
		}
		raw, err := enc.MarshalHandshake(h)
		require.NoError(t, err)

		msg := &Handshake{}
		require.NoError(t, proto.Unmarshal(raw, msg))
		assert.Equal(t, h.PeerID[:], msg.GetPeerId())
		assert.Equal(t, h.Cookie, msg.GetCookie())
		assert.Equal(t, h.Timestamp, msg.GetTimestamp())
		assert.Empty(t, msg.GetSessionId())
	})

	t.Run("Nil", func(t *testing.T) {
		_, err := enc.MarshalHandshake(nil)
		assert.Error(t, err)
	})
}

func TestHeartbeat(t *testing.T) {
	enc := &Protobuf{}

	hb := &udp.Heartbeat{SentAt: 1700000000123, EchoAt: 1700000000001}
	raw, err := enc.MarshalHeartbeat(hb)
	require.NoError(t, err)

	got, err := enc.UnmarshalHeartbeat(raw)
	require.NoError(t, err)
	assert.Equal(t, hb, got)

	empty, err := enc.MarshalHeartbeat(&udp.Heartbeat{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = enc.UnmarshalHeartbeat([]byte{0x08})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
