package pb

//go:generate protoc --go_out=. --go_opt=paths=source_relative record.proto

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/snake-duel/udp"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
)

var _ udp.Encoder = &Protobuf{}

var (
	ErrInvalidRecord = errors.New("invalid record body")
	errNilRecord     = errors.New("nil record")
)

// Protobuf encodes transport records with the protobuf schema in record.proto.
type Protobuf struct{}

// MarshalHandshake implements udp.Encoder.
func (p *Protobuf) MarshalHandshake(h *udp.Handshake) ([]byte, error) {
	if h == nil {
		return nil, errNilRecord
	}

	msg := &Handshake{
		SessionId: h.SessionID,
		Random:    h.Random,
		Cookie:    h.Cookie,
		Reason:    h.Reason,
		Timestamp: h.Timestamp,
	}
	if h.PeerID != uuid.Nil {
		msg.PeerId = h.PeerID[:]
	}
	return proto.Marshal(msg)
}

// UnmarshalHandshake implements udp.Encoder.
func (p *Protobuf) UnmarshalHandshake(b []byte) (*udp.Handshake, error) {
	msg := &Handshake{}
	if err := proto.Unmarshal(b, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	h := &udp.Handshake{
		SessionID: msg.GetSessionId(),
		Random:    msg.GetRandom(),
		Cookie:    msg.GetCookie(),
		Reason:    msg.GetReason(),
		Timestamp: msg.GetTimestamp(),
	}
	if raw := msg.GetPeerId(); len(raw) > 0 {
		id, err := uuid.FromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: peer id: %v", ErrInvalidRecord, err)
		}
		h.PeerID = id
	}
	return h, nil
}

// MarshalHeartbeat implements udp.Encoder.
func (p *Protobuf) MarshalHeartbeat(hb *udp.Heartbeat) ([]byte, error) {
	if hb == nil {
		return nil, errNilRecord
	}
	return proto.Marshal(&Heartbeat{SentAt: hb.SentAt, EchoAt: hb.EchoAt})
}

// UnmarshalHeartbeat implements udp.Encoder.
func (p *Protobuf) UnmarshalHeartbeat(b []byte) (*udp.Heartbeat, error) {
	msg := &Heartbeat{}
	if err := proto.Unmarshal(b, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return &udp.Heartbeat{SentAt: msg.GetSentAt(), EchoAt: msg.GetEchoAt()}, nil
}
