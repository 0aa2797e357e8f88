package service

import (
	"errors"
	"fmt"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
)

// Session errors.
var (
	ErrNotConnected     = errors.New("not connected")
	ErrConnectionLost   = errors.New("connection lost")
	ErrAlreadyConnected = dmn.ErrAlreadyConnected
	ErrSelfConnect      = errors.New("cannot connect to self")
)

// SessionState is the connection state of a Session.
type SessionState uint8

const (
	Disconnected SessionState = iota
	AwaitingPeer
	Connected
)

func (s SessionState) String() string {
	switch s {
	case AwaitingPeer:
		return "awaiting-peer"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

// Role is the side chosen by the user when the session was opened.
type Role uint8

const (
	RoleNone Role = iota
	RoleHost
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleClient:
		return "client"
	}
	return ""
}

// SessionHandle identifies one Host or Connect attempt.
type SessionHandle uint64

// SessionEventKind tells what a SessionEvent reports.
type SessionEventKind uint8

const (
	SessionListenFailed SessionEventKind = iota + 1
	SessionConnectFailed
	SessionConnected
	SessionConnectionLost
)

// SessionEvent is a state transition observed by Poll.
type SessionEvent struct {
	Kind   SessionEventKind
	Handle SessionHandle
	Peer   uuid.UUID
	Err    error
}

// SessionConfig holds what a Session needs.
type SessionConfig struct {
	ID        uuid.UUID   // Local peer ID; generated when zero.
	Transport i.Transport // Link factory.
	Logger    i.Logger
}

// Session is the peer connection state machine:
// Disconnected -> AwaitingPeer -> Connected -> Disconnected.
//
// Setup runs inside the transport. The session only observes it through Poll,
// so none of its methods block. Session is not safe for concurrent use.
type Session struct {
	id        uuid.UUID
	transport i.Transport
	logger    i.Logger

	state  SessionState
	role   Role
	handle SessionHandle
	link   i.Link
	peer   uuid.UUID
	inbox  [][]byte
}

// NewSession returns a disconnected session.
func NewSession(c SessionConfig) *Session {
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	logger := c.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Session{id: id, transport: c.Transport, logger: logger}
}

// ID returns the local peer ID.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current connection state.
func (s *Session) State() SessionState { return s.state }

// Role returns the role of the current attempt, or RoleNone when disconnected.
func (s *Session) Role() Role { return s.role }

// Peer returns the connected peer ID, or uuid.Nil.
func (s *Session) Peer() uuid.UUID { return s.peer }

// Handle returns the handle of the current attempt.
func (s *Session) Handle() SessionHandle { return s.handle }

// Host starts waiting for a peer to connect.
func (s *Session) Host() (SessionHandle, error) {
	if s.state != Disconnected {
		return 0, ErrAlreadyConnected
	}
	link, err := s.transport.Listen(s.id)
	if err != nil {
		return 0, fmt.Errorf("listen: %w", err)
	}
	s.open(link, RoleHost)
	s.logger.Info(fmt.Sprintf("hosting as %s", s.id))
	return s.handle, nil
}

// Connect starts connecting to the host with the given ID.
func (s *Session) Connect(remote uuid.UUID) (SessionHandle, error) {
	if s.state != Disconnected {
		return 0, ErrAlreadyConnected
	}
	if remote == s.id {
		return 0, ErrSelfConnect
	}
	link, err := s.transport.Dial(s.id, remote)
	if err != nil {
		return 0, fmt.Errorf("dial: %w", err)
	}
	s.open(link, RoleClient)
	s.logger.Info(fmt.Sprintf("connecting to %s", remote))
	return s.handle, nil
}

func (s *Session) open(link i.Link, role Role) {
	s.handle++
	s.link = link
	s.role = role
	s.state = AwaitingPeer
	s.peer = uuid.Nil
	s.inbox = nil
}

// Disconnect tears the session down at once. In-flight data is dropped.
func (s *Session) Disconnect() {
	s.closeLink()
	s.teardown()
}

func (s *Session) closeLink() {
	if s.link == nil {
		return
	}
	if err := s.link.Close(); err != nil {
		s.logger.Warning(fmt.Sprintf("closing link of session %d: %s", s.handle, err))
	}
}

func (s *Session) teardown() {
	s.link = nil
	s.state = Disconnected
	s.role = RoleNone
	s.peer = uuid.Nil
	s.inbox = nil
}

// Poll applies the link updates received since the last call and returns the
// resulting transitions. Payloads are queued for PollReceived.
func (s *Session) Poll() []SessionEvent {
	if s.link == nil {
		return nil
	}

	var events []SessionEvent
	link := s.link
	for _, ev := range link.Events() {
		if s.link != link {
			break // Torn down by an earlier update in this batch.
		}
		switch ev.Kind {
		case i.LinkData:
			if s.state == Connected {
				s.inbox = append(s.inbox, ev.Payload)
			}
		case i.LinkNewPeer:
			if s.state != AwaitingPeer {
				continue
			}
			s.state = Connected
			s.peer = ev.Peer
			s.logger.Info(fmt.Sprintf("connected to %s as %s", ev.Peer, s.role))
			events = append(events, SessionEvent{Kind: SessionConnected, Handle: s.handle, Peer: ev.Peer})
		case i.LinkListenFail, i.LinkConnectFail, i.LinkClosed:
			if e, ok := s.fail(ev); ok {
				events = append(events, e)
			}
		}
	}
	return events
}

// fail closes the current link after a transport failure.
func (s *Session) fail(ev i.LinkEvent) (SessionEvent, bool) {
	out := SessionEvent{Handle: s.handle, Peer: s.peer, Err: ev.Err}
	switch s.state {
	case Connected:
		out.Kind = SessionConnectionLost
		if ev.Err == nil {
			out.Err = ErrConnectionLost
		} else {
			out.Err = fmt.Errorf("%w: %w", ErrConnectionLost, ev.Err)
		}
	case AwaitingPeer:
		out.Kind = SessionConnectFailed
		if s.role == RoleHost {
			out.Kind = SessionListenFailed
		}
	default:
		return out, false
	}

	s.logger.Warning(fmt.Sprintf("session %d closed: %v", s.handle, out.Err))
	s.closeLink()
	s.teardown()
	return out, true
}

// Send hands a payload to the transport. Delivery is best effort.
func (s *Session) Send(b []byte) error {
	if s.state != Connected {
		return ErrNotConnected
	}
	return s.link.Send(b)
}

// PollReceived returns the payloads queued since the previous call.
func (s *Session) PollReceived() ([][]byte, error) {
	if s.state != Connected {
		return nil, ErrNotConnected
	}
	out := s.inbox
	s.inbox = nil
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Info(string)    {}
func (nopLogger) Error(string)   {}
func (nopLogger) Warning(string) {}
