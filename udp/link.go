package udp

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
)

var _ i.Link = &Link{}

type linkState uint8

const (
	stateHandshake linkState = iota
	statePaired
	stateClosed
)

// Link is one end of a UDP peer connection.
//
// The host side answers the handshake:
//  1. The client sends Hello carrying its ID and a random nonce.
//  2. The host answers HelloVerify with an HMAC cookie over the client
//     address and nonce. Nothing is stored for the client yet.
//  3. The client repeats Hello with the cookie, proving it owns the address.
//  4. The host pairs with the client, generates a session ID and sends it in
//     a Welcome record. Any other address is answered with Reject.
//
// Once paired, both sides prepend the session ID to Data, Ping, Pong and Bye
// bodies and drop records whose prefix does not match.
type Link struct {
	t        *Transport
	local    uuid.UUID
	host     bool
	sessions *SessionManager // host only
	random   []byte          // client only

	conn *net.UDPConn

	mu        sync.Mutex
	state     linkState
	events    []i.LinkEvent
	peer      uuid.UUID
	peerAddr  *net.UDPAddr
	sessionID []byte
	cookie    []byte
	started   time.Time
	lastHeard time.Time
	rtt       time.Duration

	ctx      context.Context // Canceled by halt; bounds directory calls.
	cancel   context.CancelFunc
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func (t *Transport) newLink(local uuid.UUID, host bool) (*Link, error) {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Link{
		t:       t,
		local:   local,
		host:    host,
		started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
		stop:    make(chan struct{}),
	}

	if host {
		sm, err := NewSessionManager()
		if err != nil {
			return nil, err
		}
		l.sessions = sm
	} else {
		l.random = make([]byte, nonceSize)
		if _, err := rand.Read(l.random); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Send writes payload as a Data record. It fails unless the link is paired.
func (l *Link) Send(payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case stateClosed:
		return dmn.ErrLinkClosed
	case stateHandshake:
		return ErrNotPaired
	}
	return l.write(l.peerAddr, DataRecordType, l.sessionID, payload)
}

// Events drains the queued events.
func (l *Link) Events() []i.LinkEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	evs := l.events
	l.events = nil
	return evs
}

// Close says Bye to a paired peer and releases the socket without waiting on
// the network or the directory. A host announcement is withdrawn in the
// background. No event is queued for the local side.
func (l *Link) Close() error {
	l.mu.Lock()
	if l.state == statePaired {
		if err := l.write(l.peerAddr, ByeRecordType, l.sessionID); err != nil {
			l.t.logger.Printf("error while sending bye record: %s", err)
		}
	}
	l.state = stateClosed
	l.mu.Unlock()

	l.halt()
	if l.host && l.conn != nil {
		go l.withdraw()
	}
	return nil
}

// withdraw removes the host announcement once the announce call has
// returned, so a late announce cannot bring it back.
func (l *Link) withdraw() {
	l.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), directoryTimeout)
	defer cancel()
	if err := l.t.directory.Withdraw(ctx, l.local); err != nil {
		l.t.logger.Printf("error while withdrawing host %s: %s", l.local, err)
	}
}

// RTT is the round trip time measured by the last Pong.
func (l *Link) RTT() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rtt
}

// LocalAddr is the address the socket is bound to; nil before binding.
func (l *Link) LocalAddr() net.Addr {
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

func (l *Link) start(conn *net.UDPConn) {
	l.conn = conn
	l.wg.Add(2)
	go l.readLoop()
	go l.heartbeatLoop()
}

// fail closes a link whose socket never opened.
func (l *Link) fail(kind i.LinkEventKind, err error) {
	l.mu.Lock()
	l.closeLocked(i.LinkEvent{Kind: kind, Err: err})
	l.mu.Unlock()
	l.halt()
}

// shutdown closes the link from the inside and reports why.
func (l *Link) shutdown(ev i.LinkEvent) {
	l.mu.Lock()
	ok := l.closeLocked(ev)
	l.mu.Unlock()
	if ok {
		l.halt()
	}
}

// closeLocked marks the link closed and queues ev. It reports false when the
// link was already closed. The lock must be held.
func (l *Link) closeLocked(ev i.LinkEvent) bool {
	if l.state == stateClosed {
		return false
	}
	l.state = stateClosed
	l.events = append(l.events, ev)
	return true
}

func (l *Link) halt() {
	l.stopOnce.Do(func() {
		l.cancel()
		close(l.stop)
		if l.conn != nil {
			l.conn.Close()
		}
	})
}

func (l *Link) announce(addr string) {
	defer l.wg.Done()

	ctx, cancel := context.WithTimeout(l.ctx, directoryTimeout)
	defer cancel()
	if err := l.t.directory.Announce(ctx, l.local, addr); err != nil {
		l.shutdown(i.LinkEvent{Kind: i.LinkListenFail, Err: fmt.Errorf("announcing host: %w", err)})
	}
}

// connect resolves and claims remote, then starts the handshake. Hello
// retries are driven by the heartbeat loop.
func (l *Link) connect(remote uuid.UUID) {
	defer l.wg.Done()

	addr, err := l.resolve(remote)
	if err != nil {
		l.shutdown(i.LinkEvent{Kind: i.LinkConnectFail, Peer: remote, Err: err})
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != stateHandshake {
		return
	}
	l.peer = remote
	l.peerAddr = addr
	l.sayHello()
}

// resolve looks remote up and claims it. A host that has not announced
// itself yet is looked up again every heartbeat interval until the connect
// timeout; any other error is final.
func (l *Link) resolve(remote uuid.UUID) (*net.UDPAddr, error) {
	deadline := l.started.Add(l.t.connectTimeout)
	for {
		addr, err := l.lookupAndClaim(remote)
		if !errors.Is(err, dmn.ErrPeerNotFound) || time.Now().Add(l.t.heartbeatInterval).After(deadline) {
			return addr, err
		}

		select {
		case <-l.stop:
			return nil, dmn.ErrLinkClosed
		case <-time.After(l.t.heartbeatInterval):
		}
	}
}

func (l *Link) lookupAndClaim(remote uuid.UUID) (*net.UDPAddr, error) {
	ctx, cancel := context.WithTimeout(l.ctx, directoryTimeout)
	defer cancel()

	raw, err := l.t.directory.Lookup(ctx, remote)
	if err != nil {
		return nil, err
	}
	addr, err := net.ResolveUDPAddr("udp", raw)
	if err != nil {
		return nil, err
	}
	if err := l.t.directory.Claim(ctx, remote, l.local); err != nil {
		return nil, err
	}
	return addr, nil
}

func (l *Link) readLoop() {
	defer l.wg.Done()

	buf := make([]byte, l.t.readBufferSize+1) // Intentionally create more space than allowed for checking
	for {
		n, addr, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.t.logger.Printf("error while reading from udp: %s", err)
			continue
		}
		if n > l.t.readBufferSize {
			l.t.logger.Printf("error while reading from udp: %s", ErrMaximumPayloadSizeLimit)
			continue
		}
		l.handleRawRecord(append([]byte(nil), buf[:n]...), addr)
	}
}

func (l *Link) heartbeatLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.t.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			if ev, lost := l.heartbeat(now); lost {
				l.shutdown(ev)
				return
			}
		}
	}
}

// heartbeat retries the client handshake or pings the peer. It returns the
// event to close with once the handshake times out or the peer goes silent.
func (l *Link) heartbeat(now time.Time) (i.LinkEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case stateHandshake:
		// Until the host is resolved, connect owns the timeout.
		if l.host || l.peerAddr == nil {
			return i.LinkEvent{}, false
		}
		if now.Sub(l.started) > l.t.connectTimeout {
			return i.LinkEvent{Kind: i.LinkConnectFail, Peer: l.peer, Err: ErrHandshakeTimeout}, true
		}
		l.sayHello()
	case statePaired:
		if now.Sub(l.lastHeard) > l.t.heartbeatExpiration {
			return i.LinkEvent{Kind: i.LinkClosed, Peer: l.peer, Err: ErrHeartbeatExpired}, true
		}
		body, err := l.t.encoder.MarshalHeartbeat(&Heartbeat{SentAt: nowMillis()})
		if err != nil {
			l.t.logger.Printf("error while marshaling ping record: %s", err)
			break
		}
		if err := l.write(l.peerAddr, PingRecordType, l.sessionID, body); err != nil {
			l.t.logger.Printf("error while sending ping record: %s", err)
		}
	}
	return i.LinkEvent{}, false
}

func (l *Link) handleRawRecord(payload []byte, addr *net.UDPAddr) {
	r, err := parseRecord(payload)
	if err != nil {
		l.t.logger.Printf("error while parsing record: %s", err)
		return
	}

	switch r.Type {
	case HelloRecordType:
		if l.host {
			l.handleHello(r, addr)
		}
	case HelloVerifyRecordType, WelcomeRecordType, RejectRecordType:
		if !l.host {
			l.handleHandshakeReply(r, addr)
		}
	case DataRecordType:
		l.handleData(r, addr)
	case PingRecordType:
		l.handlePing(r, addr)
	case PongRecordType:
		l.handlePong(r, addr)
	case ByeRecordType:
		l.handleBye(r, addr)
	default:
		l.t.logger.Printf("error while handling record: %s: %d", ErrInvalidRecordType, r.Type)
	}
}

// handleHello runs the host side of the handshake.
func (l *Link) handleHello(r *record, addr *net.UDPAddr) {
	h, err := l.t.encoder.UnmarshalHandshake(r.Body)
	if err != nil {
		l.t.logger.Printf("error while unmarshaling hello record: %s", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.state == stateClosed:
		return
	case l.state == statePaired && !sameAddr(l.peerAddr, addr):
		l.sayReject(addr, "host already has a peer")
		return
	case len(h.Cookie) == 0:
		l.sayHelloVerify(addr, h)
		return
	case !l.sessions.ValidCookie(addr, h.Random, h.Cookie):
		l.t.logger.Printf("error while validating hello cookie: %s", ErrClientCookieIsInvalid)
		return
	case l.state == statePaired:
		// The Welcome was lost; the client is still waiting for it.
		l.sayWelcome(addr)
		return
	}

	sessionID, err := l.sessions.GenerateSessionID(addr, h.PeerID)
	if err != nil {
		l.t.logger.Printf("error while generating session id: %s", err)
		return
	}
	l.state = statePaired
	l.peer = h.PeerID
	l.peerAddr = addr
	l.sessionID = sessionID
	l.lastHeard = time.Now()
	l.events = append(l.events, i.LinkEvent{Kind: i.LinkNewPeer, Peer: h.PeerID})
	l.sayWelcome(addr)

	l.t.logger.Printf("accepted connection with peer: %s", h.PeerID)
}

// handleHandshakeReply runs the client side of the handshake.
func (l *Link) handleHandshakeReply(r *record, addr *net.UDPAddr) {
	h, err := l.t.encoder.UnmarshalHandshake(r.Body)
	if err != nil {
		l.t.logger.Printf("error while unmarshaling handshake record: %s", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != stateHandshake || l.peerAddr == nil {
		return
	}
	if !sameAddr(l.peerAddr, addr) {
		l.t.logger.Printf("error while handling handshake record: %s: %s", ErrUnknownAddress, addr)
		return
	}

	switch r.Type {
	case HelloVerifyRecordType:
		l.cookie = h.Cookie
		l.sayHello()
	case WelcomeRecordType:
		if h.PeerID != l.peer {
			l.closeLocked(i.LinkEvent{Kind: i.LinkConnectFail, Peer: l.peer, Err: fmt.Errorf("%w: %s", ErrUnexpectedPeer, h.PeerID)})
			l.halt()
			return
		}
		if len(h.SessionID) == 0 {
			l.t.logger.Printf("error while handling welcome record: %s", ErrInvalidPayloadBodySize)
			return
		}
		l.state = statePaired
		l.sessionID = h.SessionID
		l.lastHeard = time.Now()
		l.events = append(l.events, i.LinkEvent{Kind: i.LinkNewPeer, Peer: l.peer})
	case RejectRecordType:
		l.closeLocked(i.LinkEvent{Kind: i.LinkConnectFail, Peer: l.peer, Err: fmt.Errorf("%w: %s", ErrRejected, h.Reason)})
		l.halt()
	}
}

func (l *Link) handleData(r *record, addr *net.UDPAddr) {
	l.mu.Lock()
	defer l.mu.Unlock()

	body, ok := l.authenticate(r, addr)
	if !ok {
		return
	}
	l.events = append(l.events, i.LinkEvent{Kind: i.LinkData, Peer: l.peer, Payload: body})
}

func (l *Link) handlePing(r *record, addr *net.UDPAddr) {
	l.mu.Lock()
	defer l.mu.Unlock()

	body, ok := l.authenticate(r, addr)
	if !ok {
		return
	}
	ping, err := l.t.encoder.UnmarshalHeartbeat(body)
	if err != nil {
		l.t.logger.Printf("error while unmarshaling ping record: %s", err)
		return
	}

	pong, err := l.t.encoder.MarshalHeartbeat(&Heartbeat{SentAt: nowMillis(), EchoAt: ping.SentAt})
	if err != nil {
		l.t.logger.Printf("error while marshaling pong record: %s", err)
		return
	}
	if err := l.write(addr, PongRecordType, l.sessionID, pong); err != nil {
		l.t.logger.Printf("error while sending pong record: %s", err)
	}
}

func (l *Link) handlePong(r *record, addr *net.UDPAddr) {
	l.mu.Lock()
	defer l.mu.Unlock()

	body, ok := l.authenticate(r, addr)
	if !ok {
		return
	}
	pong, err := l.t.encoder.UnmarshalHeartbeat(body)
	if err != nil {
		l.t.logger.Printf("error while unmarshaling pong record: %s", err)
		return
	}
	if rtt := nowMillis() - pong.EchoAt; rtt >= 0 {
		l.rtt = time.Duration(rtt) * time.Millisecond
	}
}

func (l *Link) handleBye(r *record, addr *net.UDPAddr) {
	l.mu.Lock()
	_, ok := l.authenticate(r, addr)
	if ok {
		ok = l.closeLocked(i.LinkEvent{Kind: i.LinkClosed, Peer: l.peer, Err: dmn.ErrLinkClosed})
	}
	l.mu.Unlock()

	if ok {
		l.halt()
	}
}

// authenticate checks that r comes from the paired peer with the session ID
// and returns the rest of its body. A good record refreshes liveness. The
// lock must be held.
func (l *Link) authenticate(r *record, addr *net.UDPAddr) ([]byte, bool) {
	if l.state != statePaired {
		return nil, false
	}
	if !sameAddr(l.peerAddr, addr) {
		l.t.logger.Printf("error while authenticating record: %s: %s", ErrUnknownAddress, addr)
		return nil, false
	}

	sessionID, body, err := splitSessionIDAndBody(r.Body, len(l.sessionID))
	if err != nil {
		l.t.logger.Printf("error while parsing session id: %s", err)
		return nil, false
	}
	if !bytes.Equal(sessionID, l.sessionID) {
		l.t.logger.Printf("error while validating session id: %s", ErrSessionMismatch)
		return nil, false
	}

	l.lastHeard = time.Now()
	return body, true
}

// sayHello sends the client Hello, with the cookie once one was received.
// The lock must be held.
func (l *Link) sayHello() {
	payload, err := l.t.encoder.MarshalHandshake(&Handshake{
		PeerID:    l.local,
		Random:    l.random,
		Cookie:    l.cookie,
		Timestamp: nowMillis(),
	})
	if err != nil {
		l.t.logger.Printf("error while marshaling hello record: %s", err)
		return
	}
	if err := l.write(l.peerAddr, HelloRecordType, payload); err != nil {
		l.t.logger.Printf("error while sending hello record: %s", err)
	}
}

func (l *Link) sayHelloVerify(addr *net.UDPAddr, h *Handshake) {
	l.sayHandshake(addr, HelloVerifyRecordType, &Handshake{
		PeerID:    l.local,
		Cookie:    l.sessions.AddrCookie(addr, h.Random),
		Timestamp: nowMillis(),
	})
}

func (l *Link) sayWelcome(addr *net.UDPAddr) {
	l.sayHandshake(addr, WelcomeRecordType, &Handshake{
		PeerID:    l.local,
		SessionID: l.sessionID,
		Timestamp: nowMillis(),
	})
}

func (l *Link) sayReject(addr *net.UDPAddr, reason string) {
	l.sayHandshake(addr, RejectRecordType, &Handshake{
		PeerID:    l.local,
		Reason:    reason,
		Timestamp: nowMillis(),
	})
}

func (l *Link) sayHandshake(addr *net.UDPAddr, typ byte, h *Handshake) {
	payload, err := l.t.encoder.MarshalHandshake(h)
	if err != nil {
		l.t.logger.Printf("error while marshaling handshake record %d: %s", typ, err)
		return
	}
	if err := l.write(addr, typ, payload); err != nil {
		l.t.logger.Printf("error while sending handshake record %d: %s", typ, err)
	}
}

// write sends a record made of typ followed by parts.
func (l *Link) write(addr *net.UDPAddr, typ byte, parts ...[]byte) error {
	size := 1
	for _, p := range parts {
		size += len(p)
	}
	msg := make([]byte, 0, size)
	msg = append(msg, typ)
	for _, p := range parts {
		msg = append(msg, p...)
	}

	_, err := l.conn.WriteToUDP(msg, addr)
	return err
}

func sameAddr(a, b *net.UDPAddr) bool {
	return a != nil && b != nil && a.IP.Equal(b.IP) && a.Port == b.Port
}

func nowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}
