package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/infrastruture/memlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memResults struct {
	mu    sync.Mutex
	saved []*dmn.MatchResult
}

func (m *memResults) Save(r *dmn.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, r)
	return nil
}

func (m *memResults) Recent(limit int) ([]*dmn.MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[max(0, len(m.saved)-limit):], nil
}

func (m *memResults) all() []*dmn.MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*dmn.MatchResult(nil), m.saved...)
}

func fastConfig(size int) game.Config {
	cfg := game.DefaultConfig()
	cfg.TickDurationMs = 5
	cfg.BoardWidth, cfg.BoardHeight = size, size
	cfg.MoveInterval = 1
	cfg.StartDelay = 0
	cfg.FoodSpawnProbability = 0
	return cfg
}

func startDriver(t *testing.T, cfg game.Config, opts ...DriverOption) *Driver {
	t.Helper()
	d := NewDriver(newCoordinator(t, memlink.NewHub(), cfg, nil), opts...)
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-d.Done()
	})
	return d
}

func TestDriverGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Steer reaches the engine", func(t *testing.T) {
		d := startDriver(t, fastConfig(64))
		require.NoError(t, d.Steer(ctx, game.DirDown))

		assert.Eventually(t, func() bool {
			snap, err := d.Snapshot(ctx)
			return err == nil && snap.Local().Direction == game.DirDown
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Invalid direction", func(t *testing.T) {
		d := startDriver(t, fastConfig(64))
		assert.ErrorIs(t, d.Steer(ctx, game.DirNone), game.ErrInvalidDirection)
	})

	t.Run("Renderer sees every tick", func(t *testing.T) {
		var frames atomic.Int64
		startDriver(t, fastConfig(64), WithRenderer(func(game.Snapshot) { frames.Add(1) }))

		assert.Eventually(t, func() bool { return frames.Load() >= 3 }, time.Second, 5*time.Millisecond)
	})

	t.Run("Game over is saved", func(t *testing.T) {
		results := &memResults{}
		d := startDriver(t, fastConfig(8), WithResultRepo(results))

		require.Eventually(t, func() bool { return len(results.all()) == 1 }, time.Second, 5*time.Millisecond)
		res := results.all()[0]
		assert.Equal(t, "solo", res.Mode)
		assert.Empty(t, res.Winner)
		assert.Len(t, res.Scores, 1)
		assert.Positive(t, res.Ticks)

		require.NoError(t, d.Restart(ctx))
		snap, err := d.Snapshot(ctx)
		require.NoError(t, err)
		assert.False(t, snap.Over)
	})
}

func TestDriverSession(t *testing.T) {
	ctx := context.Background()
	d := startDriver(t, fastConfig(64))

	status, err := d.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "disconnected", status.State)
	assert.Equal(t, "solo", status.Phase)

	assert.ErrorIs(t, d.Ping(ctx), ErrNotConnected)
	assert.ErrorIs(t, d.Rematch(ctx), ErrNotHost)

	status, err = d.Host(ctx)
	require.NoError(t, err)
	assert.Equal(t, "awaiting-peer", status.State)
	assert.Equal(t, "host", status.Role)

	_, err = d.Host(ctx)
	assert.ErrorIs(t, err, ErrAlreadyConnected)

	require.NoError(t, d.Disconnect(ctx))
	status, err = d.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "disconnected", status.State)
}

func TestDriverConfig(t *testing.T) {
	ctx := context.Background()
	d := startDriver(t, fastConfig(64))

	cfg, err := d.SetOption(ctx, "board_width", "32")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.BoardWidth)

	_, err = d.SetOption(ctx, "wall_wrap", "1")
	assert.ErrorIs(t, err, ErrUnknownOption)

	bad := cfg
	bad.BoardHeight = 2
	_, err = d.ReplaceConfig(ctx, bad)
	assert.ErrorIs(t, err, game.ErrInvalidConfig)

	got, err := d.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	// The running game keeps its board until the next reset.
	snap, err := d.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 64, snap.Width)
	require.NoError(t, d.Restart(ctx))
	snap, err = d.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 32, snap.Width)
}

func TestDriverStopped(t *testing.T) {
	d := NewDriver(newCoordinator(t, memlink.NewHub(), fastConfig(64), nil))
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	cancel()
	<-d.Done()

	_, err := d.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrDriverStopped)

	d.Stop()
	d.Stop()
}
