package pb

//go:generate protoc --go_out=. --go_opt=paths=source_relative message.proto

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/protocol"
	"google.golang.org/protobuf/proto"
)

var _ protocol.Encoder = &Protobuf{}

var (
	errNilMessage = errors.New("nil message")
)

// Protobuf encodes messages with the protobuf schema in message.proto.
type Protobuf struct{}

// Marshal implements protocol.Encoder.
func (p *Protobuf) Marshal(m *protocol.Message) ([]byte, error) {
	if m == nil {
		return nil, errNilMessage
	}

	msg := &Message{
		Kind:         uint32(m.Kind),
		Round:        m.Round,
		Tick:         m.Tick,
		Direction:    uint32(m.Direction),
		Ack:          m.Ack,
		StateTick:    m.StateTick,
		Checksum:     m.Checksum,
		ConfigDigest: m.ConfigDigest,
		Config:       m.Config,
		State:        m.State,
		SentAt:       m.SentAt,
		EchoAt:       m.EchoAt,
	}
	for _, e := range m.Redundant {
		msg.Redundant = append(msg.Redundant, &InputEvent{
			Tick:      e.Tick,
			Direction: uint32(e.Direction),
		})
	}
	return proto.Marshal(msg)
}

// Unmarshal implements protocol.Encoder. Any decoding problem is reported as
// protocol.ErrInvalidInput.
func (p *Protobuf) Unmarshal(b []byte) (*protocol.Message, error) {
	msg := &Message{}
	if err := proto.Unmarshal(b, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrInvalidInput, err)
	}

	m := &protocol.Message{
		Kind:         protocol.Kind(min(msg.GetKind(), 0xff)),
		Round:        msg.GetRound(),
		Tick:         msg.GetTick(),
		Direction:    game.Direction(min(msg.GetDirection(), 0xff)),
		Ack:          msg.GetAck(),
		StateTick:    msg.GetStateTick(),
		Checksum:     msg.GetChecksum(),
		ConfigDigest: msg.GetConfigDigest(),
		Config:       msg.GetConfig(),
		State:        msg.GetState(),
		SentAt:       msg.GetSentAt(),
		EchoAt:       msg.GetEchoAt(),
	}
	if !m.Kind.Known() {
		return nil, fmt.Errorf("%w: unknown kind %d", protocol.ErrInvalidInput, msg.GetKind())
	}
	if m.Direction > game.DirRight {
		return nil, fmt.Errorf("%w: direction %d", protocol.ErrInvalidInput, msg.GetDirection())
	}

	for _, e := range msg.GetRedundant() {
		dir := game.Direction(min(e.GetDirection(), 0xff))
		if dir > game.DirRight {
			return nil, fmt.Errorf("%w: direction %d", protocol.ErrInvalidInput, e.GetDirection())
		}
		m.Redundant = append(m.Redundant, protocol.InputEvent{Tick: e.GetTick(), Direction: dir})
	}
	return m, nil
}
