package service

import (
	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/protocol"
)

// Class is the verdict for one received input event.
type Class uint8

const (
	ClassStale    Class = iota // At or before the last applied tick; never applied.
	ClassCurrent               // For the next tick to simulate.
	ClassFuture                // Buffered until the engine gets there.
	ClassOverflow              // Further ahead than the horizon allows.
)

func (c Class) String() string {
	switch c {
	case ClassCurrent:
		return "current"
	case ClassFuture:
		return "future"
	case ClassOverflow:
		return "overflow"
	}
	return "stale"
}

// SyncState is the per-peer bookkeeping of received remote inputs.
type SyncState struct {
	horizon uint64

	lastApplied     uint64
	highestReceived uint64
	firstReceived   uint64
	fresh           bool
	peerAck         uint64

	pending map[uint64]game.Direction

	// Most recent direction known to have been applied by the peer, used for
	// dead reckoning when its own message missed its tick.
	lastKnownTick uint64
	lastKnownDir  game.Direction
	late          bool

	received   uint64
	stale      uint64
	duplicates uint64
}

// NewSyncState returns a state that buffers at most horizon ticks ahead.
func NewSyncState(horizon int) *SyncState {
	s := &SyncState{horizon: uint64(max(horizon, 1))}
	s.Reset(0)
	return s
}

// Reset forgets everything and treats applied as the last simulated tick. The
// next received event becomes the new baseline.
func (s *SyncState) Reset(applied uint64) {
	s.lastApplied = applied
	s.highestReceived = 0
	s.firstReceived = 0
	s.fresh = true
	s.peerAck = 0
	s.pending = make(map[uint64]game.Direction)
	s.lastKnownTick = 0
	s.lastKnownDir = game.DirNone
	s.late = false
	s.received, s.stale, s.duplicates = 0, 0, 0
}

// Accept classifies e against the last applied tick and buffers it when it
// is current or future. Accepting the same event twice has no further effect.
func (s *SyncState) Accept(e protocol.InputEvent) Class {
	expected := s.lastApplied + 1
	if e.Tick >= expected && e.Tick-expected > s.horizon {
		return ClassOverflow
	}

	s.received++
	if s.fresh {
		s.firstReceived = e.Tick
		s.fresh = false
	}
	s.highestReceived = max(s.highestReceived, e.Tick)

	if e.Tick <= s.lastApplied {
		s.stale++
		if e.Direction.Valid() && e.Tick > s.lastKnownTick {
			s.lastKnownTick = e.Tick
			s.lastKnownDir = e.Direction
			s.late = true
		}
		return ClassStale
	}

	if _, dup := s.pending[e.Tick]; dup {
		s.duplicates++
	} else {
		s.pending[e.Tick] = e.Direction
	}
	if e.Tick == expected {
		return ClassCurrent
	}
	return ClassFuture
}

// Resolve returns the remote input for tick. When nothing arrived for it, the
// last known direction from a late message is used once; otherwise DirNone
// keeps the remote snake on its heading. The bool reports a received input.
func (s *SyncState) Resolve(tick uint64) (game.Direction, bool) {
	if d, ok := s.pending[tick]; ok {
		delete(s.pending, tick)
		if d.Valid() && tick > s.lastKnownTick {
			s.lastKnownTick = tick
			s.lastKnownDir = d
		}
		s.late = false
		return d, true
	}
	if s.late {
		s.late = false
		return s.lastKnownDir, false
	}
	return game.DirNone, false
}

// Applied records that the engine has simulated tick. Ticks at or before the
// baseline are ignored, so an engine behind a reset baseline never moves it
// back.
func (s *SyncState) Applied(tick uint64) {
	if tick <= s.lastApplied {
		return
	}
	s.lastApplied = tick
	for t := range s.pending {
		if t <= tick {
			delete(s.pending, t)
		}
	}
}

// SetPeerAck records the highest tick the peer reports having simulated.
func (s *SyncState) SetPeerAck(ack uint64) {
	s.peerAck = max(s.peerAck, ack)
}

func (s *SyncState) PeerAck() uint64         { return s.peerAck }
func (s *SyncState) LastApplied() uint64     { return s.lastApplied }
func (s *SyncState) HighestReceived() uint64 { return s.highestReceived }
func (s *SyncState) Pending() int            { return len(s.pending) }

// FirstReceived returns the tick of the first event accepted since Reset.
func (s *SyncState) FirstReceived() (uint64, bool) {
	return s.firstReceived, !s.fresh
}

// LastKnownDirection returns the newest remote direction seen so far.
func (s *SyncState) LastKnownDirection() game.Direction {
	return s.lastKnownDir
}
