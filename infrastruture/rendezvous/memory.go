// Package rendezvous implements the directory peers use to find a host by ID.
package rendezvous

import (
	"context"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
)

var _ i.Rendezvous = &Memory{}

type entry struct {
	addr    string
	claim   uuid.UUID
	expires time.Time
}

// Memory is a process-local directory for tests and single machine play.
type Memory struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory returns a directory whose announcements live for ttl; zero means
// the default.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Memory{entries: make(map[uuid.UUID]*entry), ttl: ttl, now: time.Now}
}

func (m *Memory) Announce(_ context.Context, host uuid.UUID, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[host] = &entry{addr: addr, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Lookup(_ context.Context, host uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(host)
	if !ok {
		return "", fmt.Errorf("%w: %s", dmn.ErrPeerNotFound, host)
	}
	return e.addr, nil
}

func (m *Memory) Claim(_ context.Context, host, client uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(host)
	if !ok {
		return fmt.Errorf("%w: %s", dmn.ErrPeerNotFound, host)
	}
	if e.claim != uuid.Nil && e.claim != client {
		return fmt.Errorf("host %s: %w", host, dmn.ErrAlreadyConnected)
	}
	e.claim = client
	return nil
}

func (m *Memory) Withdraw(_ context.Context, host uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, host)
	return nil
}

// live returns the unexpired entry of host; the lock must be held.
func (m *Memory) live(host uuid.UUID) (*entry, bool) {
	e, ok := m.entries[host]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		delete(m.entries, host)
		return nil, false
	}
	return e, true
}
