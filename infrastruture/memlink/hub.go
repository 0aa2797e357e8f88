// Package memlink is an in-process transport. Links created by one Hub talk to
// each other through memory, optionally through a Filter that simulates a
// lossy network.
package memlink

import (
	"errors"
	"fmt"
	"sync"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
)

var (
	ErrAddressInUse = errors.New("address already in use")
	ErrNotPaired    = errors.New("link has no peer")
	ErrSevered      = errors.New("link severed")
)

var (
	_ i.Transport = &Hub{}
	_ i.Link      = &Link{}
)

// Filter turns one sent payload into the payloads delivered, in order.
// Returning nil drops it. Filters run under the hub lock.
type Filter func(from, to uuid.UUID, payload []byte) [][]byte

// Hub pairs links by peer ID.
type Hub struct {
	mu     sync.Mutex
	hosts  map[uuid.UUID]*Link
	links  map[uuid.UUID]*Link
	filter Filter
}

func NewHub() *Hub {
	return &Hub{
		hosts: make(map[uuid.UUID]*Link),
		links: make(map[uuid.UUID]*Link),
	}
}

// SetFilter replaces the delivery filter; nil delivers everything once.
func (h *Hub) SetFilter(f Filter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filter = f
}

// Listen registers local as a host. A taken ID yields a ListenFail event.
func (h *Hub) Listen(local uuid.UUID) (i.Link, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	l := &Link{hub: h, id: local, host: true}
	h.links[local] = l
	if _, ok := h.hosts[local]; ok {
		l.closed = true
		l.push(i.LinkEvent{Kind: i.LinkListenFail, Err: fmt.Errorf("%w: %s", ErrAddressInUse, local)})
		return l, nil
	}
	h.hosts[local] = l
	return l, nil
}

// Dial pairs local with the host remote. Failures arrive as ConnectFail.
func (h *Hub) Dial(local, remote uuid.UUID) (i.Link, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	l := &Link{hub: h, id: local}
	h.links[local] = l

	host, ok := h.hosts[remote]
	switch {
	case !ok:
		l.closed = true
		l.push(i.LinkEvent{Kind: i.LinkConnectFail, Peer: remote, Err: fmt.Errorf("%w: %s", dmn.ErrPeerNotFound, remote)})
	case host.peer != nil:
		l.closed = true
		l.push(i.LinkEvent{Kind: i.LinkConnectFail, Peer: remote, Err: fmt.Errorf("host %s: %w", remote, dmn.ErrAlreadyConnected)})
	default:
		host.peer, l.peer = l, host
		host.push(i.LinkEvent{Kind: i.LinkNewPeer, Peer: local})
		l.push(i.LinkEvent{Kind: i.LinkNewPeer, Peer: remote})
	}
	return l, nil
}

// Sever breaks the current link of id as a network failure would: both ends
// see Closed.
func (h *Hub) Sever(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.links[id]
	if !ok || l.closed {
		return
	}
	if p := l.peer; p != nil {
		p.push(i.LinkEvent{Kind: i.LinkClosed, Peer: l.id, Err: ErrSevered})
		p.peer = nil
	}
	l.push(i.LinkEvent{Kind: i.LinkClosed, Peer: l.id, Err: ErrSevered})
	l.peer = nil
	h.unregister(l)
}

func (h *Hub) unregister(l *Link) {
	if h.hosts[l.id] == l {
		delete(h.hosts, l.id)
	}
}

// Link is one end of an in-memory connection.
type Link struct {
	hub    *Hub
	id     uuid.UUID
	host   bool
	peer   *Link
	events []i.LinkEvent
	closed bool
}

// push appends an event; the hub lock must be held.
func (l *Link) push(ev i.LinkEvent) {
	l.events = append(l.events, ev)
}

func (l *Link) Send(b []byte) error {
	l.hub.mu.Lock()
	defer l.hub.mu.Unlock()

	if l.closed {
		return dmn.ErrLinkClosed
	}
	if l.peer == nil {
		return ErrNotPaired
	}

	payload := append([]byte(nil), b...)
	frames := [][]byte{payload}
	if l.hub.filter != nil {
		frames = l.hub.filter(l.id, l.peer.id, payload)
	}
	for _, f := range frames {
		l.peer.push(i.LinkEvent{Kind: i.LinkData, Peer: l.id, Payload: f})
	}
	return nil
}

func (l *Link) Events() []i.LinkEvent {
	l.hub.mu.Lock()
	defer l.hub.mu.Unlock()

	out := l.events
	l.events = nil
	return out
}

// Close leaves the connection. The peer sees Closed.
func (l *Link) Close() error {
	l.hub.mu.Lock()
	defer l.hub.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if p := l.peer; p != nil {
		p.push(i.LinkEvent{Kind: i.LinkClosed, Peer: l.id, Err: dmn.ErrLinkClosed})
		p.peer = nil
	}
	l.peer = nil
	l.hub.unregister(l)
	return nil
}
