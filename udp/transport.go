// Package udp is a peer to peer datagram transport. A host binds a socket and
// announces it in a rendezvous directory; a client looks the host up, claims
// it and completes a cookie handshake before any game data flows.
package udp

import (
	"errors"
	"io"
	"log"
	"net"
	"time"

	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
)

type Option func(*Transport)

// Custom error types
var (
	ErrInvalidRecordType       = errors.New("invalid record type")
	ErrInvalidPayloadBodySize  = errors.New("invalid payload body size")
	ErrMaximumPayloadSizeLimit = errors.New("maximum payload size limit")
	ErrClientCookieIsInvalid   = errors.New("client cookie is invalid")
	ErrSessionMismatch         = errors.New("session id does not match")
	ErrUnknownAddress          = errors.New("record from unknown address")
	ErrHandshakeTimeout        = errors.New("handshake timed out")
	ErrRejected                = errors.New("rejected by host")
	ErrUnexpectedPeer          = errors.New("unexpected peer answered")
	ErrHeartbeatExpired        = errors.New("peer heartbeat expired")
	ErrNotPaired               = errors.New("link has no peer")
	errMissingDependency       = errors.New("missing dependency")
)

const (
	defaultReadBufferSize      = 2048
	defaultHeartbeatInterval   = 250 * time.Millisecond
	defaultHeartbeatExpiration = 5 * time.Second
	defaultConnectTimeout      = 5 * time.Second
	directoryTimeout           = 3 * time.Second
	nonceSize                  = 16
)

var _ i.Transport = &Transport{}

// Config carries the required parameters of a Transport.
type Config struct {
	ListenAddr    *net.UDPAddr // Address hosts bind; clients bind its IP on a random port.
	AdvertiseAddr string       // Address announced to clients. Empty uses the bound address.
	Rendezvous    i.Rendezvous // Directory of listening hosts.
	Encoder       Encoder      // Codec of handshake and heartbeat bodies.
}

// Transport creates UDP links. Each link owns its own socket.
type Transport struct {
	listenAddr    *net.UDPAddr
	advertiseAddr string
	directory     i.Rendezvous
	encoder       Encoder

	readBufferSize      int
	heartbeatInterval   time.Duration
	heartbeatExpiration time.Duration
	connectTimeout      time.Duration
	logger              *log.Logger
}

// NewTransport validates c and applies the options.
func NewTransport(c Config, options ...Option) (*Transport, error) {
	if c.ListenAddr == nil || c.Rendezvous == nil || c.Encoder == nil {
		return nil, errMissingDependency
	}

	t := &Transport{
		listenAddr:    c.ListenAddr,
		advertiseAddr: c.AdvertiseAddr,
		directory:     c.Rendezvous,
		encoder:       c.Encoder,
	}

	for _, opt := range options {
		opt(t)
	}

	if t.readBufferSize <= 0 {
		t.readBufferSize = defaultReadBufferSize
	}
	if t.heartbeatInterval <= 0 {
		t.heartbeatInterval = defaultHeartbeatInterval
	}
	if t.heartbeatExpiration <= 0 {
		t.heartbeatExpiration = defaultHeartbeatExpiration
	}
	if t.connectTimeout <= 0 {
		t.connectTimeout = defaultConnectTimeout
	}
	if t.logger == nil {
		// Discard logging if no logger is set
		t.logger = log.New(io.Discard, "", 0)
	}

	return t, nil
}

// Listen binds the listen address and announces it for local in the
// background. Bind and announce failures arrive as ListenFail events.
func (t *Transport) Listen(local uuid.UUID) (i.Link, error) {
	l, err := t.newLink(local, true)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp", t.listenAddr)
	if err != nil {
		l.fail(i.LinkListenFail, err)
		return l, nil
	}
	l.start(conn)

	addr := t.advertiseAddr
	if addr == "" {
		addr = conn.LocalAddr().String()
	}
	l.wg.Add(1)
	go l.announce(addr)

	t.logger.Printf("host %s listening on udp address: %s", local, conn.LocalAddr())
	return l, nil
}

// Dial binds a random port and connects to remote in the background.
func (t *Transport) Dial(local, remote uuid.UUID) (i.Link, error) {
	l, err := t.newLink(local, false)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: t.listenAddr.IP})
	if err != nil {
		l.fail(i.LinkConnectFail, err)
		return l, nil
	}
	l.start(conn)

	l.wg.Add(1)
	go l.connect(remote)
	return l, nil
}

// TransportWithReadBufferSize sets the largest datagram accepted.
func TransportWithReadBufferSize(n int) Option {
	return func(t *Transport) {
		t.readBufferSize = n
	}
}

// TransportWithHeartbeatInterval sets how often pings and handshake retries are sent.
func TransportWithHeartbeatInterval(d time.Duration) Option {
	return func(t *Transport) {
		t.heartbeatInterval = d
	}
}

// TransportWithHeartbeatExpiration sets the silence after which a peer is lost.
func TransportWithHeartbeatExpiration(d time.Duration) Option {
	return func(t *Transport) {
		t.heartbeatExpiration = d
	}
}

// TransportWithConnectTimeout bounds the whole client handshake.
func TransportWithConnectTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.connectTimeout = d
	}
}

// TransportWithLogger sets the logger
func TransportWithLogger(l *log.Logger) Option {
	return func(t *Transport) {
		t.logger = l
	}
}
