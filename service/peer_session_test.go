package service

import (
	"errors"
	"testing"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/infrastruture/memlink"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionPair(t *testing.T, hub *memlink.Hub) (host, client *Session) {
	t.Helper()
	host = NewSession(SessionConfig{Transport: hub})
	client = NewSession(SessionConfig{Transport: hub})

	_, err := host.Host()
	require.NoError(t, err)
	assert.Equal(t, AwaitingPeer, host.State())
	_, err = client.Connect(host.ID())
	require.NoError(t, err)

	hostEvents := host.Poll()
	require.Len(t, hostEvents, 1)
	assert.Equal(t, SessionConnected, hostEvents[0].Kind)
	assert.Equal(t, client.ID(), hostEvents[0].Peer)

	clientEvents := client.Poll()
	require.Len(t, clientEvents, 1)
	assert.Equal(t, SessionConnected, clientEvents[0].Kind)
	assert.Equal(t, host.ID(), clientEvents[0].Peer)
	return host, client
}

func kinds(events []SessionEvent) []SessionEventKind {
	var out []SessionEventKind
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestSessionConnect(t *testing.T) {
	t.Run("Host and client exchange data", func(t *testing.T) {
		host, client := newSessionPair(t, memlink.NewHub())
		assert.Equal(t, Connected, host.State())
		assert.Equal(t, RoleHost, host.Role())
		assert.Equal(t, RoleClient, client.Role())

		require.NoError(t, client.Send([]byte("hello")))
		require.NoError(t, client.Send([]byte("again")))
		host.Poll()
		got, err := host.PollReceived()
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("hello"), []byte("again")}, got)

		got, err = host.PollReceived()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Not connected", func(t *testing.T) {
		s := NewSession(SessionConfig{Transport: memlink.NewHub()})
		assert.ErrorIs(t, s.Send([]byte("x")), ErrNotConnected)
		_, err := s.PollReceived()
		assert.ErrorIs(t, err, ErrNotConnected)

		_, err = s.Host()
		require.NoError(t, err)
		assert.ErrorIs(t, s.Send([]byte("x")), ErrNotConnected)
	})

	t.Run("Already connected", func(t *testing.T) {
		hub := memlink.NewHub()
		s := NewSession(SessionConfig{Transport: hub})
		_, err := s.Host()
		require.NoError(t, err)

		_, err = s.Host()
		assert.ErrorIs(t, err, ErrAlreadyConnected)
		_, err = s.Connect(uuid.New())
		assert.ErrorIs(t, err, ErrAlreadyConnected)
	})

	t.Run("Self connect", func(t *testing.T) {
		s := NewSession(SessionConfig{Transport: memlink.NewHub()})
		_, err := s.Connect(s.ID())
		assert.ErrorIs(t, err, ErrSelfConnect)
		assert.Equal(t, Disconnected, s.State())
	})

	t.Run("Unknown host", func(t *testing.T) {
		s := NewSession(SessionConfig{Transport: memlink.NewHub()})
		_, err := s.Connect(uuid.New())
		require.NoError(t, err)

		events := s.Poll()
		require.Len(t, events, 1)
		assert.Equal(t, SessionConnectFailed, events[0].Kind)
		assert.ErrorIs(t, events[0].Err, dmn.ErrPeerNotFound)
		assert.Equal(t, Disconnected, s.State())
	})

	t.Run("Second client is rejected", func(t *testing.T) {
		hub := memlink.NewHub()
		host, _ := newSessionPair(t, hub)

		late := NewSession(SessionConfig{Transport: hub})
		_, err := late.Connect(host.ID())
		require.NoError(t, err)

		events := late.Poll()
		require.Len(t, events, 1)
		assert.Equal(t, SessionConnectFailed, events[0].Kind)
		assert.ErrorIs(t, events[0].Err, ErrAlreadyConnected)
		assert.Empty(t, host.Poll())
		assert.Equal(t, Connected, host.State())
	})

	t.Run("Listen failure", func(t *testing.T) {
		hub := memlink.NewHub()
		id := uuid.New()
		first := NewSession(SessionConfig{ID: id, Transport: hub})
		second := NewSession(SessionConfig{ID: id, Transport: hub})
		_, err := first.Host()
		require.NoError(t, err)
		_, err = second.Host()
		require.NoError(t, err)

		assert.Equal(t, []SessionEventKind{SessionListenFailed}, kinds(second.Poll()))
		assert.Equal(t, Disconnected, second.State())
		assert.Equal(t, RoleNone, second.Role())
	})
}

func TestSessionConnectionLost(t *testing.T) {
	t.Run("Reported once", func(t *testing.T) {
		hub := memlink.NewHub()
		host, client := newSessionPair(t, hub)

		hub.Sever(client.ID())
		for _, s := range []*Session{host, client} {
			events := s.Poll()
			require.Len(t, events, 1)
			assert.Equal(t, SessionConnectionLost, events[0].Kind)
			assert.ErrorIs(t, events[0].Err, ErrConnectionLost)
			assert.Equal(t, Disconnected, s.State())
			assert.Empty(t, s.Poll())
		}
	})

	t.Run("Disconnect is seen by the peer", func(t *testing.T) {
		host, client := newSessionPair(t, memlink.NewHub())

		client.Disconnect()
		assert.Equal(t, Disconnected, client.State())
		assert.Empty(t, client.Poll())

		events := host.Poll()
		require.Len(t, events, 1)
		assert.Equal(t, SessionConnectionLost, events[0].Kind)
		assert.Equal(t, client.ID(), events[0].Peer)
	})

	t.Run("Disconnect is safe in any state", func(t *testing.T) {
		s := NewSession(SessionConfig{Transport: memlink.NewHub()})
		s.Disconnect()
		s.Disconnect()
		assert.Equal(t, Disconnected, s.State())
	})

	t.Run("Reconnect after loss", func(t *testing.T) {
		hub := memlink.NewHub()
		host, client := newSessionPair(t, hub)
		first := host.Handle()

		hub.Sever(host.ID())
		host.Poll()
		client.Poll()
		assert.ErrorIs(t, client.Send([]byte("x")), ErrNotConnected)

		_, err := host.Host()
		require.NoError(t, err)
		assert.Greater(t, host.Handle(), first)
		_, err = client.Connect(host.ID())
		require.NoError(t, err)
		assert.Equal(t, []SessionEventKind{SessionConnected}, kinds(host.Poll()))
		assert.Equal(t, []SessionEventKind{SessionConnected}, kinds(client.Poll()))

		got, err := host.PollReceived()
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

var errSocketBusy = errors.New("socket busy")

// stuckLink is a link whose Close always fails.
type stuckLink struct {
	events []i.LinkEvent
}

func (l *stuckLink) Send([]byte) error { return nil }
func (l *stuckLink) Close() error      { return errSocketBusy }

func (l *stuckLink) Events() []i.LinkEvent {
	evs := l.events
	l.events = nil
	return evs
}

type stuckTransport struct {
	link *stuckLink
}

func (t *stuckTransport) Listen(uuid.UUID) (i.Link, error)    { return t.link, nil }
func (t *stuckTransport) Dial(_, _ uuid.UUID) (i.Link, error) { return t.link, nil }

type warningLog struct {
	warnings []string
}

func (l *warningLog) Info(string)      {}
func (l *warningLog) Error(string)     {}
func (l *warningLog) Warning(m string) { l.warnings = append(l.warnings, m) }

func TestSessionCloseErrors(t *testing.T) {
	t.Run("Disconnect logs a failed close", func(t *testing.T) {
		log := &warningLog{}
		s := NewSession(SessionConfig{Transport: &stuckTransport{link: &stuckLink{}}, Logger: log})
		_, err := s.Host()
		require.NoError(t, err)

		s.Disconnect()
		assert.Equal(t, Disconnected, s.State())
		require.Len(t, log.warnings, 1)
		assert.Contains(t, log.warnings[0], errSocketBusy.Error())
	})

	t.Run("Transport failure logs a failed close", func(t *testing.T) {
		log := &warningLog{}
		link := &stuckLink{}
		s := NewSession(SessionConfig{Transport: &stuckTransport{link: link}, Logger: log})
		_, err := s.Connect(uuid.New())
		require.NoError(t, err)

		link.events = []i.LinkEvent{{Kind: i.LinkConnectFail, Err: dmn.ErrPeerNotFound}}
		assert.Equal(t, []SessionEventKind{SessionConnectFailed}, kinds(s.Poll()))
		assert.Equal(t, Disconnected, s.State())
		require.Len(t, log.warnings, 2)
		assert.Contains(t, log.warnings[1], errSocketBusy.Error())
	})
}
