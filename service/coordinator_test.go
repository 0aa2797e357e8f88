package service

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/infrastruture/memlink"
	pb "github.com/beka-birhanu/snake-duel/protocol/pb_encoder"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	begins int
	ticks  []uint64
	ends   []game.Snapshot
}

func (r *fakeRecorder) Begin(game.State, game.Slot) error {
	r.begins++
	r.ticks = nil
	return nil
}

func (r *fakeRecorder) Record(tick uint64, _ [2]game.Direction) {
	r.ticks = append(r.ticks, tick)
}

func (r *fakeRecorder) End(final game.Snapshot) error {
	r.ends = append(r.ends, final)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

// openConfig is a large empty board where snakes left alone live long.
func openConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.BoardWidth, cfg.BoardHeight = 96, 96
	cfg.MoveInterval = 4
	cfg.StartDelay = 3
	cfg.FoodSpawnProbability = 0
	return cfg
}

func newCoordinator(t *testing.T, transport i.Transport, cfg game.Config, now func() time.Time) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(&CoordinatorConfig{
		Session: NewSession(SessionConfig{Transport: transport}),
		Store:   NewConfigStore(cfg),
		Encoder: &pb.Protobuf{},
		Now:     now,
	})
	require.NoError(t, err)
	return c
}

// duel runs two coordinators over one hub, host first in every round.
type duel struct {
	t            *testing.T
	hub          *memlink.Hub
	host, client *Coordinator
	hostSnaps    map[uint64]game.Snapshot
	clientSnaps  map[uint64]game.Snapshot
	hostEvents   []Event
	clientEvents []Event
}

func newDuel(t *testing.T, hostCfg, clientCfg game.Config) *duel {
	t.Helper()
	hub := memlink.NewHub()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	d := &duel{
		t:           t,
		hub:         hub,
		host:        newCoordinator(t, hub, hostCfg, clock.Now),
		client:      newCoordinator(t, hub, clientCfg, clock.Now),
		hostSnaps:   make(map[uint64]game.Snapshot),
		clientSnaps: make(map[uint64]game.Snapshot),
	}
	_, err := d.host.Host()
	require.NoError(t, err)
	_, err = d.client.Connect(d.host.Session().ID())
	require.NoError(t, err)
	return d
}

func (d *duel) hostTick(dir game.Direction) {
	snap := d.host.Tick(dir)
	if d.host.Phase() == PhaseRunning {
		d.hostSnaps[snap.Tick] = snap
	}
	d.hostEvents = append(d.hostEvents, d.host.Events()...)
}

func (d *duel) clientTick(dir game.Direction) {
	snap := d.client.Tick(dir)
	if d.client.Phase() == PhaseRunning {
		d.clientSnaps[snap.Tick] = snap
	}
	d.clientEvents = append(d.clientEvents, d.client.Events()...)
}

func (d *duel) round(hostDir, clientDir game.Direction) {
	d.hostTick(hostDir)
	d.clientTick(clientDir)
}

func (d *duel) run(n int) {
	for range n {
		d.round(game.DirNone, game.DirNone)
	}
}

func (d *duel) runRandom(n int, seed uint64) {
	r := rand.New(rand.NewPCG(seed, seed))
	pick := func() game.Direction {
		if r.IntN(10) != 0 {
			return game.DirNone
		}
		return game.Direction(1 + r.IntN(4))
	}
	for range n {
		d.round(pick(), pick())
	}
}

// assertAgree checks that both peers computed the same state for every tick
// at or after from that both have reached.
func (d *duel) assertAgree(from uint64) {
	d.t.Helper()
	common := 0
	for tick, hs := range d.hostSnaps {
		cs, ok := d.clientSnaps[tick]
		if !ok || tick < from {
			continue
		}
		common++
		assert.Equal(d.t, hs.Checksum, cs.Checksum, "tick %d", tick)
	}
	assert.Positive(d.t, common)
}

func (d *duel) lastTick() uint64 {
	return min(d.host.Snapshot().Tick, d.client.Snapshot().Tick)
}

func count(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewCoordinator(t *testing.T) {
	_, err := NewCoordinator(&CoordinatorConfig{Store: NewConfigStore(game.DefaultConfig())})
	assert.Error(t, err)

	c := newCoordinator(t, memlink.NewHub(), game.DefaultConfig(), nil)
	assert.Equal(t, PhaseSolo, c.Phase())
	assert.Equal(t, game.Solo, c.Snapshot().Mode)
}

func TestCoordinatorHandshake(t *testing.T) {
	t.Run("Client adopts host config", func(t *testing.T) {
		hostCfg := game.DefaultConfig()
		hostCfg.BoardWidth, hostCfg.BoardHeight = 30, 24
		d := newDuel(t, hostCfg, game.DefaultConfig())
		d.run(3)

		assert.Equal(t, PhaseRunning, d.host.Phase())
		assert.Equal(t, PhaseRunning, d.client.Phase())
		assert.Equal(t, hostCfg, d.client.ActiveConfig())
		assert.Equal(t, uint32(1), d.client.Round())
		assert.Equal(t, 1, count(d.hostEvents, EventRoundStarted))
		assert.Equal(t, 1, count(d.clientEvents, EventRoundStarted))
		assert.Equal(t, 1, count(d.clientEvents, EventConnected))
	})

	t.Run("Slots", func(t *testing.T) {
		d := newDuel(t, game.DefaultConfig(), game.DefaultConfig())
		d.run(2)

		assert.Equal(t, game.SlotB, d.host.Snapshot().LocalSlot)
		assert.Equal(t, game.SlotA, d.client.Snapshot().LocalSlot)
		assert.Equal(t, game.Duel, d.client.Snapshot().Mode)
	})
}

func TestCoordinatorInputDelay(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.MoveInterval = 1
	cfg.StartDelay = 3
	cfg.FoodSpawnProbability = 0
	d := newDuel(t, cfg, cfg)

	d.round(game.DirNone, game.DirDown)
	d.run(5)

	for name, snaps := range map[string]map[uint64]game.Snapshot{"host": d.hostSnaps, "client": d.clientSnaps} {
		require.Contains(t, snaps, uint64(4), name)
		assert.Equal(t, game.Point{X: 5, Y: 5}, snaps[2].Snakes[game.SlotA].Cells[0], name)
		assert.Equal(t, game.Point{X: 5, Y: 6}, snaps[3].Snakes[game.SlotA].Cells[0], name)
		assert.Equal(t, game.Point{X: 5, Y: 7}, snaps[4].Snakes[game.SlotA].Cells[0], name)
	}
	d.assertAgree(1)
}

func TestCoordinatorLockstep(t *testing.T) {
	t.Run("Random inputs", func(t *testing.T) {
		d := newDuel(t, game.DefaultConfig(), game.DefaultConfig())
		d.runRandom(300, 7)

		d.assertAgree(1)
		for _, events := range [][]Event{d.hostEvents, d.clientEvents} {
			assert.Zero(t, count(events, EventDesynchronized))
			assert.Zero(t, count(events, EventStateMismatch))
		}
	})

	t.Run("Lost and duplicated frames", func(t *testing.T) {
		d := newDuel(t, game.DefaultConfig(), game.DefaultConfig())
		d.run(5)

		sent := 0
		every2nd := func() bool {
			sent++
			return sent%2 == 0
		}
		d.hub.SetFilter(memlink.Chain(
			memlink.DropFrom(d.client.Session().ID(), every2nd),
			memlink.Duplicate(),
		))
		d.runRandom(300, 11)

		d.assertAgree(1)
		assert.Zero(t, count(d.hostEvents, EventStateMismatch))
		assert.Zero(t, count(d.clientEvents, EventStateMismatch))
		assert.Zero(t, d.host.Dropped())
	})

	t.Run("Reordered frames", func(t *testing.T) {
		d := newDuel(t, game.DefaultConfig(), game.DefaultConfig())
		d.run(5)
		d.hub.SetFilter(memlink.Reorder())
		d.runRandom(200, 3)

		d.assertAgree(1)
		assert.Zero(t, count(d.clientEvents, EventStateMismatch))
	})
}

func TestCoordinatorDesync(t *testing.T) {
	assertOneDesync := func(t *testing.T, events []Event) {
		t.Helper()
		assert.Equal(t, 1, count(events, EventDesynchronized))
		for _, ev := range events {
			if ev.Kind == EventDesynchronized {
				assert.ErrorIs(t, ev.Err, ErrDesynchronized)
			}
		}
	}

	t.Run("Short stall", func(t *testing.T) {
		d := newDuel(t, openConfig(), openConfig())
		d.run(5)

		// The client stalls while the host keeps going.
		for range 20 {
			d.hostTick(game.DirNone)
		}
		d.round(game.DirNone, game.DirDown)
		d.run(120)

		assertOneDesync(t, d.clientEvents)
		assert.Zero(t, count(d.hostEvents, EventDesynchronized))
		assert.Positive(t, count(d.clientEvents, EventResynced))
		d.assertAgree(d.lastTick() - 20)
	})

	t.Run("Backlog beyond catch-up", func(t *testing.T) {
		d := newDuel(t, openConfig(), openConfig())
		d.run(5)

		// Every queued host frame overflows, but they arrive in one Tick.
		for range 400 {
			d.hostTick(game.DirNone)
		}
		d.round(game.DirNone, game.DirNone)
		assertOneDesync(t, d.clientEvents)
		first, ok := d.client.SyncState().FirstReceived()
		require.True(t, ok)
		assert.Greater(t, first, uint64(400))

		d.run(300)
		assertOneDesync(t, d.clientEvents)
		assert.Zero(t, count(d.hostEvents, EventDesynchronized))
		assert.Positive(t, count(d.clientEvents, EventResynced))
		assert.InDelta(t, d.host.Snapshot().Tick, d.client.Snapshot().Tick, 3)
		d.assertAgree(d.lastTick() - 100)
	})

	t.Run("Lost frames beyond catch-up", func(t *testing.T) {
		d := newDuel(t, openConfig(), openConfig())
		d.run(5)

		blocked := true
		d.hub.SetFilter(memlink.DropFrom(d.host.Session().ID(), func() bool { return blocked }))
		for range 400 {
			d.hostTick(game.DirNone)
		}
		blocked = false
		d.run(300)

		assertOneDesync(t, d.clientEvents)
		assert.Positive(t, count(d.clientEvents, EventResynced))
		assert.Zero(t, d.client.Dropped())
		assert.InDelta(t, d.host.Snapshot().Tick, d.client.Snapshot().Tick, 3)
		d.assertAgree(d.lastTick() - 100)
	})

	t.Run("Host stalls beyond catch-up", func(t *testing.T) {
		d := newDuel(t, openConfig(), openConfig())
		d.run(5)

		// The client runs ahead alone; the host state wins and it rewinds.
		for range 400 {
			d.clientTick(game.DirNone)
		}
		d.run(200)

		assertOneDesync(t, d.hostEvents)
		assert.Zero(t, count(d.clientEvents, EventDesynchronized))
		assert.Positive(t, count(d.clientEvents, EventResynced))
		assert.InDelta(t, d.host.Snapshot().Tick, d.client.Snapshot().Tick, 3)
		d.assertAgree(d.lastTick() - 100)
	})

	t.Run("Lagging peer", func(t *testing.T) {
		d := newDuel(t, openConfig(), openConfig())
		d.run(5)

		// The host runs a few ticks ahead, so some client turns arrive late.
		for range 5 {
			d.hostTick(game.DirNone)
		}
		d.runRandom(200, 5)
		for range 5 {
			d.clientTick(game.DirNone)
		}
		d.run(100)

		for _, events := range [][]Event{d.hostEvents, d.clientEvents} {
			assert.Zero(t, count(events, EventDesynchronized))
		}
		if count(d.hostEvents, EventStateMismatch)+count(d.clientEvents, EventStateMismatch) > 0 {
			assert.Positive(t, count(d.clientEvents, EventResynced))
		}
		d.assertAgree(d.lastTick() - 40)
	})
}

func TestCoordinatorStateMismatch(t *testing.T) {
	d := newDuel(t, openConfig(), openConfig())
	rec := &fakeRecorder{}
	d.client.recorder = rec
	d.run(5)

	st := d.client.engine.State()
	st.Snakes[0].Score += 7
	require.NoError(t, d.client.engine.Restore(st))
	d.run(60)

	assert.Positive(t, count(d.hostEvents, EventStateMismatch)+count(d.clientEvents, EventStateMismatch))
	assert.Positive(t, count(d.clientEvents, EventResynced))
	assert.Zero(t, d.client.Snapshot().Snakes[0].Score)
	assert.Positive(t, rec.begins)
	d.assertAgree(d.lastTick() - 10)
}

func TestCoordinatorRounds(t *testing.T) {
	d := newDuel(t, game.DefaultConfig(), game.DefaultConfig())
	d.run(10)

	assert.ErrorIs(t, d.client.Rematch(), ErrNotHost)
	require.NoError(t, d.host.Rematch())
	assert.Equal(t, PhaseHandshake, d.host.Phase())
	assert.Equal(t, uint32(2), d.host.Round())

	d.run(3)
	assert.Equal(t, PhaseRunning, d.host.Phase())
	assert.Equal(t, uint32(2), d.client.Round())
	assert.Less(t, d.host.Snapshot().Tick, uint64(5))
	assert.Equal(t, 2, count(d.hostEvents, EventRoundStarted))
	assert.Equal(t, 2, count(d.clientEvents, EventRoundStarted))

	d.runRandom(100, 5)
	assert.Zero(t, count(d.clientEvents, EventStateMismatch))
}

func TestCoordinatorConnectionLost(t *testing.T) {
	d := newDuel(t, game.DefaultConfig(), game.DefaultConfig())
	d.run(5)

	d.hub.Sever(d.client.Session().ID())
	d.run(5)

	for _, c := range []*Coordinator{d.host, d.client} {
		assert.Equal(t, PhaseSolo, c.Phase())
		assert.Equal(t, game.Solo, c.Snapshot().Mode)
		assert.Zero(t, c.Round())
	}
	assert.Equal(t, 1, count(d.hostEvents, EventConnectionLost))
	assert.Equal(t, 1, count(d.clientEvents, EventConnectionLost))
	for _, ev := range d.clientEvents {
		if ev.Kind == EventConnectionLost {
			assert.ErrorIs(t, ev.Err, ErrConnectionLost)
		}
	}
}

func TestCoordinatorPing(t *testing.T) {
	solo := newCoordinator(t, memlink.NewHub(), game.DefaultConfig(), nil)
	assert.ErrorIs(t, solo.Ping(), ErrNotConnected)

	d := newDuel(t, game.DefaultConfig(), game.DefaultConfig())
	d.run(3)
	require.NoError(t, d.host.Ping())
	d.run(2)
	assert.Positive(t, d.host.RTT())
}

func TestCoordinatorDropsMalformedFrames(t *testing.T) {
	d := newDuel(t, game.DefaultConfig(), game.DefaultConfig())
	d.run(3)

	require.NoError(t, d.client.Session().Send([]byte{0x08, 0x63}))
	d.run(1)
	assert.Equal(t, uint64(1), d.host.Dropped())
	assert.Equal(t, PhaseRunning, d.host.Phase())
}

func TestCoordinatorSolo(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.BoardWidth, cfg.BoardHeight = 8, 8
	cfg.MoveInterval = 1
	cfg.StartDelay = 0
	cfg.FoodSpawnProbability = 0

	rec := &fakeRecorder{}
	c, err := NewCoordinator(&CoordinatorConfig{
		Session:  NewSession(SessionConfig{Transport: memlink.NewHub()}),
		Store:    NewConfigStore(cfg),
		Encoder:  &pb.Protobuf{},
		Recorder: rec,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.begins)

	snap := c.Tick(game.DirDown)
	assert.Equal(t, game.Point{X: 2, Y: 3}, snap.Local().Cells[0])

	for range 10 {
		snap = c.Tick(game.DirNone)
	}
	assert.True(t, snap.Over)
	assert.Equal(t, uint64(11), snap.Tick)

	events := c.Events()
	require.Equal(t, 1, count(events, EventGameOver))
	require.Len(t, rec.ends, 1)
	assert.True(t, rec.ends[0].Over)
	assert.Len(t, rec.ticks, 11)

	require.NoError(t, c.Restart())
	assert.Zero(t, c.Snapshot().Tick)
	assert.Equal(t, 2, rec.begins)
}
