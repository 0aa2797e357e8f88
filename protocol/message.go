// Package protocol defines the messages peers exchange during a duel.
package protocol

import (
	"errors"

	"github.com/beka-birhanu/snake-duel/game"
)

// ErrInvalidInput is returned for frames that cannot be decoded. Callers drop
// such frames; a lossy transport delivers them now and then.
var ErrInvalidInput = errors.New("invalid input")

// Kind is the message type.
type Kind uint8

const (
	KindHello Kind = iota + 1
	KindInput
	KindKeepAlive
	KindResyncRequest
	KindFullState
)

var kindNames = map[Kind]string{
	KindHello:         "hello",
	KindInput:         "input",
	KindKeepAlive:     "keep-alive",
	KindResyncRequest: "resync-request",
	KindFullState:     "full-state",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Known reports whether k is a kind this build understands.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// InputEvent is a direction request for a given tick.
type InputEvent struct {
	Tick      uint64
	Direction game.Direction
}

// Message is a single datagram between peers. Fields that do not apply to a
// kind are left zero and cost nothing on the wire.
type Message struct {
	Kind  Kind
	Round uint32 // Game number within the connection; bumped on rematch.

	// Input: the tick Direction applies at. Other kinds: the sender's tick.
	Tick      uint64
	Direction game.Direction // DirNone when the heading is unchanged.
	Redundant []InputEvent   // Earlier inputs the peer may not have seen.
	Ack       uint64         // Highest tick the sender has simulated.

	StateTick uint64 // Tick the checksum or state was taken at.
	Checksum  uint64

	ConfigDigest uint64
	Config       []byte // Hello from the host: JSON game config.
	State        []byte // FullState: encoded game.State.

	SentAt int64 // Unix milliseconds, for round-trip estimates.
	EchoAt int64 // SentAt of the message being answered.
}

// Events returns the input events carried by an Input message, primary first.
func (m *Message) Events() []InputEvent {
	if m.Kind != KindInput {
		return nil
	}
	events := make([]InputEvent, 0, len(m.Redundant)+1)
	events = append(events, InputEvent{Tick: m.Tick, Direction: m.Direction})
	return append(events, m.Redundant...)
}

// Encoder converts messages to and from wire bytes.
type Encoder interface {
	Marshal(*Message) ([]byte, error)
	Unmarshal([]byte) (*Message, error)
}
