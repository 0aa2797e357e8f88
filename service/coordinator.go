package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/protocol"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
)

// Coordinator errors.
var (
	ErrDesynchronized = errors.New("desynchronized")
	ErrNotHost        = errors.New("only a connected host can start a rematch")
	ErrInDuel         = errors.New("a duel is in progress")

	errMissingDependency = errors.New("coordinator requires a session, a config store and an encoder")
)

const (
	defaultInputDelay        = 3
	defaultHorizon           = 10
	defaultKeepAliveInterval = 30
	defaultChecksumInterval  = 15
	defaultResyncCooldown    = 15
	defaultHistorySize       = 128
	defaultMaxCatchUp        = 300
	defaultMaxRedundant      = 16

	firstRound uint32 = 1
)

// Phase is the coordinator's view of the game in progress.
type Phase uint8

const (
	PhaseSolo      Phase = iota // No peer; the local snake plays alone.
	PhaseHandshake              // Connected, waiting for both sides to agree on the round.
	PhaseRunning                // Duel in progress.
)

func (p Phase) String() string {
	switch p {
	case PhaseHandshake:
		return "handshake"
	case PhaseRunning:
		return "running"
	}
	return "solo"
}

// EventKind tells what an Event reports.
type EventKind uint8

const (
	EventConnected EventKind = iota + 1
	EventListenFailed
	EventConnectFailed
	EventConnectionLost
	EventRoundStarted
	EventDesynchronized
	EventStateMismatch
	EventResynced
	EventGameOver
)

var eventNames = map[EventKind]string{
	EventConnected:      "connected",
	EventListenFailed:   "listen-failed",
	EventConnectFailed:  "connect-failed",
	EventConnectionLost: "connection-lost",
	EventRoundStarted:   "round-started",
	EventDesynchronized: "desynchronized",
	EventStateMismatch:  "state-mismatch",
	EventResynced:       "resynced",
	EventGameOver:       "game-over",
}

func (k EventKind) String() string { return eventNames[k] }

// Event is something the driver may want to show or act upon.
type Event struct {
	Kind     EventKind
	Tick     uint64
	Round    uint32
	Peer     uuid.UUID
	Err      error
	Snapshot game.Snapshot // Final state, set for EventGameOver.
}

// Options tunes the sync protocol. Intervals are counted in ticks.
type Options struct {
	InputDelay        int // Ticks between reading a local input and applying it.
	Horizon           int // Furthest a remote input may be ahead before a resync.
	KeepAliveInterval int
	ChecksumInterval  int
	ResyncCooldown    int
	HistorySize       int // Frames kept for checksum comparison and replays.
	MaxCatchUp        int // Larger jumps wait for a full state instead of dead reckoning.
	MaxRedundant      int // Unacknowledged inputs repeated in each message.
}

// CoordinatorConfig holds the collaborators of a Coordinator.
type CoordinatorConfig struct {
	Session  *Session
	Store    *ConfigStore
	Encoder  protocol.Encoder
	Recorder i.Recorder // Optional.
	Logger   i.Logger   // Optional.
	Options  *Options   // Optional; zero fields take defaults.
	Now      func() time.Time
}

type checksumCheck struct {
	tick uint64
	sum  uint64
	ok   bool
}

// Coordinator runs one tick of the duel per call: it drains the session,
// reconciles remote inputs, advances the engine and sends the local input.
// It never blocks and is not safe for concurrent use.
type Coordinator struct {
	session  *Session
	store    *ConfigStore
	encoder  protocol.Encoder
	recorder i.Recorder
	logger   i.Logger
	opts     Options
	now      func() time.Time

	engine    *game.Engine
	syncState *SyncState
	history   *history

	phase     Phase
	round     uint32
	scheduled map[uint64]game.Direction // Local inputs by the tick they apply at.
	unacked   []protocol.InputEvent     // Local inputs the peer may not have yet.

	calls         uint64 // Tick invocations, including ones that do not advance.
	lastKeepAlive uint64
	lastResync    uint64
	resyncedAt    uint64
	pendingCheck  checksumCheck
	overReported  bool
	overflowed    []protocol.InputEvent // Inputs beyond the horizon seen in this Tick.
	desynced      bool                  // A Desynchronized event awaits its full state.

	rtt     time.Duration
	dropped uint64
	events  []Event
}

// NewCoordinator returns a coordinator playing solo with the store's config.
func NewCoordinator(c *CoordinatorConfig) (*Coordinator, error) {
	if c == nil || c.Session == nil || c.Store == nil || c.Encoder == nil {
		return nil, errMissingDependency
	}

	var opts Options
	if c.Options != nil {
		opts = *c.Options
	}
	withDefault(&opts.InputDelay, defaultInputDelay)
	withDefault(&opts.Horizon, defaultHorizon)
	withDefault(&opts.KeepAliveInterval, defaultKeepAliveInterval)
	withDefault(&opts.ChecksumInterval, defaultChecksumInterval)
	withDefault(&opts.ResyncCooldown, defaultResyncCooldown)
	withDefault(&opts.HistorySize, defaultHistorySize)
	withDefault(&opts.MaxCatchUp, defaultMaxCatchUp)
	withDefault(&opts.MaxRedundant, defaultMaxRedundant)

	engine, err := game.NewEngine(c.Store.Get(), game.Solo, game.SlotA)
	if err != nil {
		return nil, err
	}

	co := &Coordinator{
		session:   c.Session,
		store:     c.Store,
		encoder:   c.Encoder,
		recorder:  c.Recorder,
		logger:    c.Logger,
		opts:      opts,
		now:       c.Now,
		engine:    engine,
		syncState: NewSyncState(opts.Horizon),
		history:   newHistory(opts.HistorySize),
		scheduled: make(map[uint64]game.Direction),
	}
	if co.logger == nil {
		co.logger = nopLogger{}
	}
	if co.now == nil {
		co.now = time.Now
	}
	co.beginRecording()
	return co, nil
}

func withDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// Host opens the session as host.
func (c *Coordinator) Host() (SessionHandle, error) {
	return c.session.Host()
}

// Connect opens the session as client of peer.
func (c *Coordinator) Connect(peer uuid.UUID) (SessionHandle, error) {
	return c.session.Connect(peer)
}

// Disconnect closes the session and returns to solo play.
func (c *Coordinator) Disconnect() {
	c.session.Disconnect()
	if c.phase != PhaseSolo {
		c.enterSolo()
	}
}

// Ping sends a keep-alive right away.
func (c *Coordinator) Ping() error {
	if c.session.State() != Connected {
		return ErrNotConnected
	}
	c.sendKeepAlive()
	return nil
}

// Restart begins a new solo game with the current store config.
func (c *Coordinator) Restart() error {
	if c.session.State() == Connected {
		return ErrInDuel
	}
	c.enterSolo()
	return nil
}

// Rematch starts the next round of a duel with the current store config.
func (c *Coordinator) Rematch() error {
	if c.session.Role() != RoleHost || c.session.State() != Connected {
		return ErrNotHost
	}
	if err := c.startRound(c.store.Get(), c.round+1, PhaseHandshake); err != nil {
		return err
	}
	c.sendHello()
	return nil
}

// Tick runs one fixed-rate step. local is the input read since the previous
// call, or DirNone.
func (c *Coordinator) Tick(local game.Direction) game.Snapshot {
	c.calls++
	for _, ev := range c.session.Poll() {
		c.handleSessionEvent(ev)
	}

	if c.session.State() == Connected {
		payloads, _ := c.session.PollReceived()
		for _, p := range payloads {
			msg, err := c.encoder.Unmarshal(p)
			if err != nil {
				c.dropped++
				continue
			}
			c.handleMessage(msg)
		}
		if len(c.overflowed) > 0 {
			c.desynchronized(c.overflowed)
			c.overflowed = nil
		}
	}

	var snap game.Snapshot
	switch c.phase {
	case PhaseSolo:
		snap = c.step(local, game.DirNone)
	case PhaseHandshake:
		c.sendHello()
		snap = c.engine.Snapshot()
	case PhaseRunning:
		snap = c.advance(local)
	}

	if c.session.State() == Connected && c.calls-c.lastKeepAlive >= uint64(c.opts.KeepAliveInterval) {
		c.sendKeepAlive()
	}
	return snap
}

// Events returns the events raised since the previous call.
func (c *Coordinator) Events() []Event {
	out := c.events
	c.events = nil
	return out
}

func (c *Coordinator) Snapshot() game.Snapshot { return c.engine.Snapshot() }
func (c *Coordinator) Phase() Phase            { return c.phase }
func (c *Coordinator) Round() uint32           { return c.round }
func (c *Coordinator) Session() *Session       { return c.session }
func (c *Coordinator) SyncState() *SyncState   { return c.syncState }
func (c *Coordinator) RTT() time.Duration      { return c.rtt }
func (c *Coordinator) Dropped() uint64         { return c.dropped }

// ActiveConfig returns the config of the game being played, which may differ
// from the store until the next reset.
func (c *Coordinator) ActiveConfig() game.Config { return c.engine.Config() }

func (c *Coordinator) handleSessionEvent(ev SessionEvent) {
	switch ev.Kind {
	case SessionConnected:
		c.emit(Event{Kind: EventConnected, Peer: ev.Peer})
		c.lastKeepAlive = c.calls
		if c.session.Role() == RoleHost {
			if err := c.startRound(c.store.Get(), firstRound, PhaseHandshake); err != nil {
				c.logger.Error(fmt.Sprintf("starting round: %s", err))
			}
			return
		}
		c.round = 0
		c.phase = PhaseHandshake
		c.resetSync()
	case SessionConnectionLost:
		c.emit(Event{Kind: EventConnectionLost, Peer: ev.Peer, Err: ev.Err})
		c.enterSolo()
	case SessionListenFailed:
		c.emit(Event{Kind: EventListenFailed, Err: ev.Err})
	case SessionConnectFailed:
		c.emit(Event{Kind: EventConnectFailed, Peer: ev.Peer, Err: ev.Err})
	}
}

func (c *Coordinator) handleMessage(m *protocol.Message) {
	switch m.Kind {
	case protocol.KindHello:
		c.handleHello(m)
		return
	case protocol.KindKeepAlive:
		c.handleKeepAlive(m)
		return
	}

	if c.phase != PhaseRunning || m.Round != c.round {
		return
	}
	c.syncState.SetPeerAck(m.Ack)

	switch m.Kind {
	case protocol.KindInput:
		for _, e := range m.Events() {
			if c.syncState.Accept(e) == ClassOverflow {
				c.overflowed = append(c.overflowed, e)
			}
		}
		if m.StateTick != 0 {
			c.compareChecksum(m.StateTick, m.Checksum)
		}
	case protocol.KindResyncRequest:
		if c.session.Role() == RoleHost {
			c.sendFullState()
		}
	case protocol.KindFullState:
		if c.session.Role() == RoleClient {
			c.applyFullState(m)
		}
	}
}

// handleHello runs the round agreement. The host's Hello carries the config;
// the client adopts it and echoes the round back, which starts the host.
func (c *Coordinator) handleHello(m *protocol.Message) {
	switch c.session.Role() {
	case RoleHost:
		if m.Round == 0 && m.ConfigDigest != 0 && m.ConfigDigest != c.engine.Config().Digest() {
			c.logger.Info("peer config differs; using the host config")
		}
		if m.Round != c.round {
			c.sendHello()
			return
		}
		if c.phase == PhaseHandshake {
			c.phase = PhaseRunning
			c.emit(Event{Kind: EventRoundStarted, Round: c.round, Peer: c.session.Peer()})
		}
	case RoleClient:
		if m.Round < c.round {
			return
		}
		if m.Round == c.round && c.phase == PhaseRunning {
			c.sendHello() // Our earlier echo may have been lost.
			return
		}
		var cfg game.Config
		if err := json.Unmarshal(m.Config, &cfg); err != nil {
			c.dropped++
			return
		}
		if err := c.startRound(cfg, m.Round, PhaseRunning); err != nil {
			c.dropped++
			c.logger.Warning(fmt.Sprintf("rejected host config: %s", err))
			return
		}
		c.sendHello()
	}
}

func (c *Coordinator) handleKeepAlive(m *protocol.Message) {
	if m.EchoAt != 0 {
		c.rtt = time.Duration(c.nowMillis()-m.EchoAt) * time.Millisecond
		return
	}
	if m.SentAt != 0 {
		c.send(&protocol.Message{Kind: protocol.KindKeepAlive, Round: c.round, Tick: c.engine.Tick(), EchoAt: m.SentAt})
	}
}

// advance is one running tick: schedule the local input D ticks ahead,
// simulate the next tick and tell the peer.
func (c *Coordinator) advance(local game.Direction) game.Snapshot {
	tag := c.engine.Tick() + uint64(c.opts.InputDelay)
	if local.Valid() {
		c.scheduled[tag] = local
		c.unacked = append(c.unacked, protocol.InputEvent{Tick: tag, Direction: local})
	}

	snap := c.stepRemote()
	c.checkPending()

	msg := &protocol.Message{
		Kind:      protocol.KindInput,
		Round:     c.round,
		Tick:      tag,
		Redundant: c.redundant(tag),
		Ack:       snap.Tick,
	}
	if local.Valid() {
		msg.Direction = local
	}
	if snap.Tick%uint64(c.opts.ChecksumInterval) == 0 {
		msg.StateTick = snap.Tick
		msg.Checksum = snap.Checksum
	}
	c.send(msg)
	return snap
}

// stepRemote simulates the next tick with the scheduled local input and the
// remote input resolved for it.
func (c *Coordinator) stepRemote() game.Snapshot {
	n := c.engine.Tick() + 1
	local := c.scheduled[n]
	delete(c.scheduled, n)
	remote, _ := c.syncState.Resolve(n)
	snap := c.step(local, remote)
	c.syncState.Applied(n)
	return snap
}

func (c *Coordinator) step(local, remote game.Direction) game.Snapshot {
	snap := c.engine.AdvanceTick(local, remote)
	c.history.put(frame{tick: snap.Tick, local: local, remote: remote, checksum: snap.Checksum})

	if c.recorder != nil {
		var inputs [2]game.Direction
		inputs[snap.LocalSlot] = local
		if snap.Mode == game.Duel {
			inputs[snap.LocalSlot.Other()] = remote
		}
		c.recorder.Record(snap.Tick, inputs)
	}

	if snap.Over && !c.overReported {
		c.overReported = true
		c.emit(Event{Kind: EventGameOver, Tick: snap.Tick, Round: c.round, Peer: c.session.Peer(), Snapshot: snap})
		if c.recorder != nil {
			if err := c.recorder.End(snap); err != nil {
				c.logger.Error(fmt.Sprintf("closing recording: %s", err))
			}
		}
	}
	return snap
}

// redundant returns the unacknowledged local inputs other than the one at skip.
func (c *Coordinator) redundant(skip uint64) []protocol.InputEvent {
	ack := c.syncState.PeerAck()
	kept := c.unacked[:0]
	for _, e := range c.unacked {
		if e.Tick > ack {
			kept = append(kept, e)
		}
	}
	if len(kept) > c.opts.MaxRedundant {
		kept = kept[len(kept)-c.opts.MaxRedundant:]
	}
	c.unacked = kept

	var out []protocol.InputEvent
	for _, e := range kept {
		if e.Tick != skip {
			out = append(out, e)
		}
	}
	return out
}

// desynchronized handles the inputs beyond the horizon received in one Tick.
// The newest of them becomes the new baseline. Within MaxCatchUp the engine
// catches up to it by dead reckoning; further gaps are left to the full
// state. Either way a full state exchange repairs what the guesses got wrong.
// One event is raised per episode, which ends when a full state is applied
// or sent.
func (c *Coordinator) desynchronized(events []protocol.InputEvent) {
	newest := events[0].Tick
	for _, e := range events[1:] {
		newest = max(newest, e.Tick)
	}

	if !c.desynced {
		c.desynced = true
		c.emit(Event{Kind: EventDesynchronized, Tick: newest, Round: c.round, Err: ErrDesynchronized})
	}

	switch {
	case newest-c.engine.Tick()-1 <= uint64(c.opts.MaxCatchUp):
		for c.engine.Tick()+1 < newest {
			c.stepRemote()
		}
		c.syncState.Reset(c.engine.Tick())
	case c.session.Role() == RoleHost:
		// The host state wins and the client rewinds to it, so inputs from
		// the abandoned client timeline are not kept.
		c.syncState.Reset(c.engine.Tick())
		c.requestResync()
		return
	default:
		// The host state will be at least InputDelay ticks behind its newest
		// input, so the inputs after that point are kept for it.
		c.logger.Warning(fmt.Sprintf("input for tick %d at tick %d; waiting for the host state", newest, c.engine.Tick()))
		c.syncState.Reset(max(newest-uint64(c.opts.InputDelay)-1, c.engine.Tick()))
	}
	for _, e := range events {
		if e.Tick > c.syncState.LastApplied() {
			c.syncState.Accept(e)
		}
	}
	c.requestResync()
}

func (c *Coordinator) compareChecksum(tick, sum uint64) {
	if tick <= c.resyncedAt {
		return
	}
	if tick > c.engine.Tick() {
		c.pendingCheck = checksumCheck{tick: tick, sum: sum, ok: true}
		return
	}
	f, ok := c.history.get(tick)
	if !ok || f.checksum == sum {
		return
	}
	c.emit(Event{Kind: EventStateMismatch, Tick: tick, Round: c.round})
	c.requestResync()
}

func (c *Coordinator) checkPending() {
	if c.pendingCheck.ok && c.pendingCheck.tick <= c.engine.Tick() {
		p := c.pendingCheck
		c.pendingCheck = checksumCheck{}
		c.compareChecksum(p.tick, p.sum)
	}
}

// requestResync asks for, or on the host pushes, the authoritative state.
func (c *Coordinator) requestResync() {
	if c.lastResync != 0 && c.calls-c.lastResync < uint64(c.opts.ResyncCooldown) {
		return
	}
	c.lastResync = c.calls
	if c.session.Role() == RoleHost {
		c.sendFullState()
		return
	}
	c.send(&protocol.Message{Kind: protocol.KindResyncRequest, Round: c.round, Tick: c.engine.Tick(), Ack: c.engine.Tick()})
}

func (c *Coordinator) sendFullState() {
	st := c.engine.State()
	raw, err := st.MarshalBinary()
	if err != nil {
		c.logger.Error(fmt.Sprintf("encoding state: %s", err))
		return
	}
	c.desynced = false
	c.send(&protocol.Message{
		Kind:      protocol.KindFullState,
		Round:     c.round,
		Tick:      st.Tick,
		Ack:       st.Tick,
		StateTick: st.Tick,
		State:     raw,
	})
}

// applyFullState adopts the host state and replays the local frames that came
// after it, so the client keeps its place in time. When those frames are gone
// the client rewinds to the host tick instead.
func (c *Coordinator) applyFullState(m *protocol.Message) {
	st, err := game.UnmarshalState(m.State)
	if err != nil {
		c.dropped++
		return
	}
	prev := c.engine.Tick()
	replay := c.replayable(st.Tick, prev)
	if err := c.engine.Restore(st); err != nil {
		c.dropped++
		c.logger.Warning(fmt.Sprintf("rejected full state: %s", err))
		return
	}

	c.overReported = c.overReported && st.Over
	c.beginRecording()
	switch {
	case !replay:
		c.logger.Warning(fmt.Sprintf("rewound from tick %d to host tick %d", prev, st.Tick))
		c.syncState.Reset(st.Tick)
		c.scheduled = make(map[uint64]game.Direction)
		c.unacked = nil
	case st.Tick > prev:
		c.syncState.Applied(st.Tick)
		for t := range c.scheduled {
			if t <= st.Tick {
				delete(c.scheduled, t)
			}
		}
	default:
		for c.engine.Tick() < prev {
			f, _ := c.history.get(c.engine.Tick() + 1)
			c.step(f.local, f.remote)
		}
	}
	c.desynced = false
	c.resyncedAt = st.Tick
	c.pendingCheck = checksumCheck{}
	c.emit(Event{Kind: EventResynced, Tick: st.Tick, Round: c.round})
}

// replayable reports whether every local frame after from up to to is still
// in the history.
func (c *Coordinator) replayable(from, to uint64) bool {
	if to <= from {
		return true
	}
	if to-from >= uint64(len(c.history.frames)) {
		return false
	}
	for t := from + 1; t <= to; t++ {
		if _, ok := c.history.get(t); !ok {
			return false
		}
	}
	return true
}

func (c *Coordinator) sendHello() {
	msg := &protocol.Message{Kind: protocol.KindHello, Round: c.round, Tick: c.engine.Tick(), SentAt: c.nowMillis()}
	if c.session.Role() == RoleHost {
		cfg := c.engine.Config()
		raw, err := json.Marshal(cfg)
		if err != nil {
			c.logger.Error(fmt.Sprintf("encoding config: %s", err))
			return
		}
		msg.Config = raw
		msg.ConfigDigest = cfg.Digest()
	} else {
		msg.ConfigDigest = c.store.Get().Digest()
	}
	c.send(msg)
}

func (c *Coordinator) sendKeepAlive() {
	c.lastKeepAlive = c.calls
	c.send(&protocol.Message{
		Kind:   protocol.KindKeepAlive,
		Round:  c.round,
		Tick:   c.engine.Tick(),
		Ack:    c.engine.Tick(),
		SentAt: c.nowMillis(),
	})
}

func (c *Coordinator) send(m *protocol.Message) {
	raw, err := c.encoder.Marshal(m)
	if err != nil {
		c.logger.Error(fmt.Sprintf("encoding %s message: %s", m.Kind, err))
		return
	}
	if err := c.session.Send(raw); err != nil && !errors.Is(err, ErrNotConnected) {
		c.logger.Warning(fmt.Sprintf("sending %s message: %s", m.Kind, err))
	}
}

// startRound resets the engine for a duel. The client plays slot A.
func (c *Coordinator) startRound(cfg game.Config, round uint32, phase Phase) error {
	slot := game.SlotA
	if c.session.Role() == RoleHost {
		slot = game.SlotB
	}
	if err := c.engine.Reset(cfg, game.Duel, slot); err != nil {
		return err
	}
	c.round = round
	c.phase = phase
	c.resetSync()
	c.beginRecording()
	if phase == PhaseRunning {
		c.emit(Event{Kind: EventRoundStarted, Round: round, Peer: c.session.Peer()})
	}
	return nil
}

func (c *Coordinator) enterSolo() {
	if err := c.engine.Reset(c.store.Get(), game.Solo, game.SlotA); err != nil {
		c.logger.Error(fmt.Sprintf("resetting solo game: %s", err))
	}
	c.phase = PhaseSolo
	c.round = 0
	c.resetSync()
	c.beginRecording()
}

func (c *Coordinator) resetSync() {
	c.syncState.Reset(c.engine.Tick())
	c.history.clear()
	c.scheduled = make(map[uint64]game.Direction)
	c.unacked = nil
	c.pendingCheck = checksumCheck{}
	c.lastResync = 0
	c.resyncedAt = 0
	c.overReported = false
	c.overflowed = nil
	c.desynced = false
}

func (c *Coordinator) beginRecording() {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Begin(c.engine.State(), c.engine.LocalSlot()); err != nil {
		c.logger.Error(fmt.Sprintf("starting recording: %s", err))
	}
}

func (c *Coordinator) emit(ev Event) {
	if ev.Tick == 0 {
		ev.Tick = c.engine.Tick()
	}
	msg := fmt.Sprintf("%s at tick %d", ev.Kind, ev.Tick)
	if ev.Err != nil {
		msg += ": " + ev.Err.Error()
	}
	c.logger.Info(msg)
	c.events = append(c.events, ev)
}

func (c *Coordinator) nowMillis() int64 {
	return c.now().UnixMilli()
}
