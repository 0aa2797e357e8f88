package udp

import (
	"github.com/google/uuid"
)

// Record types. The type is the first byte of every datagram.
const (
	HelloRecordType byte = 1 << iota
	HelloVerifyRecordType
	WelcomeRecordType
	RejectRecordType
	DataRecordType
	PingRecordType
	PongRecordType
	ByeRecordType
)

// Handshake is the body of Hello, HelloVerify, Welcome and Reject records.
type Handshake struct {
	PeerID    uuid.UUID // Sender of the record.
	Random    []byte    // Client nonce, bound into the cookie.
	Cookie    []byte    // Set by HelloVerify and echoed by the second Hello.
	SessionID []byte    // Set by Welcome.
	Reason    string    // Set by Reject.
	Timestamp int64     // Milliseconds since epoch.
}

// Heartbeat is the body of Ping and Pong records.
type Heartbeat struct {
	SentAt int64
	EchoAt int64 // SentAt of the Ping a Pong answers.
}

// Encoder encodes the record bodies the transport itself reads.
type Encoder interface {
	MarshalHandshake(*Handshake) ([]byte, error)
	UnmarshalHandshake([]byte) (*Handshake, error)
	MarshalHeartbeat(*Heartbeat) ([]byte, error)
	UnmarshalHeartbeat([]byte) (*Heartbeat, error)
}

// Incoming bytes are parsed into the record struct
type record struct {
	Type byte
	Body []byte
}

// parseRecord splits a datagram into its type and body. Bye records may have
// an empty body; every other type needs at least one byte.
func parseRecord(r []byte) (*record, error) {
	if len(r) == 0 {
		return nil, ErrInvalidPayloadBodySize
	}
	if len(r) < 2 && r[0] != ByeRecordType {
		return nil, ErrInvalidPayloadBodySize
	}

	return &record{
		Type: r[0],
		Body: r[1:],
	}, nil
}

// splitSessionIDAndBody splits sessionID and body from payload
func splitSessionIDAndBody(payload []byte, sIDLength int) ([]byte, []byte, error) {
	if len(payload) < sIDLength {
		return nil, nil, ErrInvalidPayloadBodySize
	}

	return payload[:sIDLength], payload[sIDLength:], nil
}
