package service

import (
	"testing"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/protocol"
	"github.com/stretchr/testify/assert"
)

func input(tick uint64, d game.Direction) protocol.InputEvent {
	return protocol.InputEvent{Tick: tick, Direction: d}
}

func TestSyncStateAccept(t *testing.T) {
	tests := []struct {
		name string
		tick uint64
		want Class
	}{
		{"Next tick", 1, ClassCurrent},
		{"Within horizon", 5, ClassFuture},
		{"At horizon", 11, ClassFuture},
		{"Beyond horizon", 12, ClassOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSyncState(10)
			assert.Equal(t, tt.want, s.Accept(input(tt.tick, game.DirUp)))
		})
	}

	t.Run("Overflow leaves counters alone", func(t *testing.T) {
		s := NewSyncState(10)
		s.Accept(input(40, game.DirUp))

		_, ok := s.FirstReceived()
		assert.False(t, ok)
		assert.Zero(t, s.HighestReceived())
		assert.Zero(t, s.Pending())
	})

	t.Run("Stale input is never applied", func(t *testing.T) {
		s := NewSyncState(10)
		s.Applied(3)

		assert.Equal(t, ClassStale, s.Accept(input(2, game.DirDown)))
		assert.Zero(t, s.Pending())
	})

	t.Run("First duplicate wins", func(t *testing.T) {
		s := NewSyncState(10)
		s.Accept(input(2, game.DirUp))
		s.Accept(input(2, game.DirDown))

		d, ok := s.Resolve(2)
		assert.True(t, ok)
		assert.Equal(t, game.DirUp, d)
		assert.Zero(t, s.Pending())
	})

	t.Run("Tracks first and highest", func(t *testing.T) {
		s := NewSyncState(10)
		s.Accept(input(4, game.DirUp))
		s.Accept(input(2, game.DirUp))
		s.Accept(input(7, game.DirUp))

		first, ok := s.FirstReceived()
		assert.True(t, ok)
		assert.Equal(t, uint64(4), first)
		assert.Equal(t, uint64(7), s.HighestReceived())
	})
}

func TestSyncStateResolve(t *testing.T) {
	t.Run("Buffered input", func(t *testing.T) {
		s := NewSyncState(10)
		s.Accept(input(1, game.DirLeft))

		d, ok := s.Resolve(1)
		assert.True(t, ok)
		assert.Equal(t, game.DirLeft, d)
		assert.Equal(t, game.DirLeft, s.LastKnownDirection())
	})

	t.Run("Nothing received keeps heading", func(t *testing.T) {
		s := NewSyncState(10)
		d, ok := s.Resolve(1)
		assert.False(t, ok)
		assert.Equal(t, game.DirNone, d)
	})

	t.Run("Late direction is used once", func(t *testing.T) {
		s := NewSyncState(10)
		s.Applied(5)
		s.Accept(input(4, game.DirUp))

		d, ok := s.Resolve(6)
		assert.False(t, ok)
		assert.Equal(t, game.DirUp, d)
		s.Applied(6)

		d, _ = s.Resolve(7)
		assert.Equal(t, game.DirNone, d)
	})

	t.Run("Older late input does not replace a newer one", func(t *testing.T) {
		s := NewSyncState(10)
		s.Accept(input(3, game.DirRight))
		s.Resolve(3)
		s.Applied(5)
		s.Accept(input(2, game.DirUp))

		assert.Equal(t, game.DirRight, s.LastKnownDirection())
	})
}

func TestSyncStateReset(t *testing.T) {
	s := NewSyncState(10)
	s.Accept(input(3, game.DirUp))
	s.SetPeerAck(9)
	s.SetPeerAck(4)
	assert.Equal(t, uint64(9), s.PeerAck())

	s.Reset(20)
	assert.Equal(t, uint64(20), s.LastApplied())
	assert.Zero(t, s.Pending())
	assert.Zero(t, s.PeerAck())
	_, ok := s.FirstReceived()
	assert.False(t, ok)
	assert.Equal(t, ClassCurrent, s.Accept(input(21, game.DirDown)))
	assert.Equal(t, ClassStale, s.Accept(input(20, game.DirDown)))
}

func TestSyncStateApplied(t *testing.T) {
	s := NewSyncState(10)
	s.Accept(input(1, game.DirUp))
	s.Accept(input(2, game.DirUp))
	s.Accept(input(6, game.DirUp))

	s.Applied(4)
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, ClassFuture, s.Accept(input(7, game.DirUp)))
}

func TestSyncStateAppliedBehindBaseline(t *testing.T) {
	s := NewSyncState(10)
	s.Reset(400)
	assert.Equal(t, ClassCurrent, s.Accept(input(401, game.DirUp)))

	s.Applied(6)
	assert.Equal(t, uint64(400), s.LastApplied())
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, ClassFuture, s.Accept(input(405, game.DirDown)))

	s.Applied(402)
	assert.Equal(t, uint64(402), s.LastApplied())
	assert.Equal(t, 1, s.Pending())
}
