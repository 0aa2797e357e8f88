package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
)

const inboxSize = 64

// ErrDriverStopped is returned by requests made after the loop has exited.
var ErrDriverStopped = errors.New("driver stopped")

var (
	_ i.SessionControl = &Driver{}
	_ i.GameControl    = &Driver{}
	_ i.ConfigControl  = &Driver{}
)

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithRenderer adds a callback that receives every snapshot on the loop
// goroutine. It must not block.
func WithRenderer(f func(game.Snapshot)) DriverOption {
	return func(d *Driver) {
		d.renderers = append(d.renderers, f)
	}
}

// WithResultRepo persists the result of every finished game.
func WithResultRepo(r i.ResultRepo) DriverOption {
	return func(d *Driver) {
		d.results = r
	}
}

// WithDriverLogger sets the logger for loop level failures.
func WithDriverLogger(l i.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = l
	}
}

// Driver owns a Coordinator and its ConfigStore and runs them on one
// goroutine at the rate of the active config. Everything else talks to it
// through Inbox.
type Driver struct {
	Inbox chan any

	coord     *Coordinator
	store     *ConfigStore
	results   i.ResultRepo
	logger    i.Logger
	renderers []func(game.Snapshot)

	steer game.Direction
	meter tickMeter
	saves sync.WaitGroup

	quit     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewDriver returns a driver that has not started yet; call Run. Config
// commands go to the coordinator's store.
func NewDriver(coord *Coordinator, opts ...DriverOption) *Driver {
	d := &Driver{
		Inbox:  make(chan any, inboxSize),
		coord:  coord,
		store:  coord.store,
		logger: nopLogger{},
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run ticks the coordinator until ctx is cancelled or Stop is called.
func (d *Driver) Run(ctx context.Context) {
	defer close(d.done)

	period := d.coord.ActiveConfig().TickDuration()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return
		case <-d.quit:
			d.shutdown()
			return
		case cmd := <-d.Inbox:
			d.handleCommand(cmd)
		case <-ticker.C:
			d.tick()
			if p := d.coord.ActiveConfig().TickDuration(); p != period {
				period = p
				ticker.Reset(p)
			}
		}
	}
}

// Stop ends Run. It does not wait; use Done for that.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.quit) })
}

// Done is closed once Run has returned and pending result saves finished.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

func (d *Driver) shutdown() {
	d.coord.Disconnect()
	d.saves.Wait()
}

func (d *Driver) tick() {
	dir := d.steer
	d.steer = game.DirNone

	snap := d.coord.Tick(dir)
	d.meter.tick(time.Now())
	for _, ev := range d.coord.Events() {
		d.handleEvent(ev)
	}
	for _, render := range d.renderers {
		render(snap)
	}
}

func (d *Driver) handleEvent(ev Event) {
	switch ev.Kind {
	case EventGameOver:
		d.saveResult(ev)
	case EventListenFailed, EventConnectFailed, EventConnectionLost:
		d.logger.Warning(fmt.Sprintf("%s: %v", ev.Kind, ev.Err))
	}
}

func (d *Driver) saveResult(ev Event) {
	if d.results == nil {
		return
	}
	res := d.matchResult(ev)
	d.saves.Add(1)
	go func() {
		defer d.saves.Done()
		if err := d.results.Save(res); err != nil {
			d.logger.Error(fmt.Sprintf("saving match result: %s", err))
		}
	}()
}

func (d *Driver) matchResult(ev Event) *dmn.MatchResult {
	snap := ev.Snapshot
	session := d.coord.Session()
	res := &dmn.MatchResult{
		ID:           uuid.New(),
		LocalPeer:    session.ID(),
		RemotePeer:   ev.Peer,
		Role:         session.Role().String(),
		Mode:         snap.Mode.String(),
		Round:        ev.Round,
		LocalSlot:    snap.LocalSlot.String(),
		Scores:       make([]int, len(snap.Snakes)),
		Ticks:        snap.Tick,
		ConfigDigest: fmt.Sprintf("%016x", d.coord.ActiveConfig().Digest()),
		EndedAt:      time.Now().UTC(),
	}
	for _, s := range snap.Snakes {
		res.Scores[s.Slot] = s.Score
	}
	if snap.Mode == game.Duel {
		res.Winner = "draw"
		if w, ok := snap.Winner(); ok {
			res.Winner = w.String()
		}
	}
	return res
}

func (d *Driver) status() dmn.SessionStatus {
	s := d.coord.Session()
	return dmn.SessionStatus{
		PeerID:     s.ID(),
		State:      s.State().String(),
		Role:       s.Role().String(),
		RemotePeer: s.Peer(),
		Phase:      d.coord.Phase().String(),
		Round:      d.coord.Round(),
		Tick:       d.coord.Snapshot().Tick,
		RTTMillis:  d.coord.RTT().Milliseconds(),
		TickRate:   d.meter.rate,
		Dropped:    d.coord.Dropped(),
	}
}

type reply struct {
	status dmn.SessionStatus
	snap   game.Snapshot
	cfg    game.Config
	err    error
}

type command interface {
	replies() chan reply
}

type replyTo struct {
	ch chan reply
}

func newReplyTo() replyTo             { return replyTo{ch: make(chan reply, 1)} }
func (r replyTo) replies() chan reply { return r.ch }

type (
	hostCmd       struct{ replyTo }
	disconnectCmd struct{ replyTo }
	pingCmd       struct{ replyTo }
	statusCmd     struct{ replyTo }
	snapshotCmd   struct{ replyTo }
	restartCmd    struct{ replyTo }
	rematchCmd    struct{ replyTo }
	getConfigCmd  struct{ replyTo }
	connectCmd    struct {
		replyTo
		peer uuid.UUID
	}
	steerCmd struct {
		replyTo
		dir game.Direction
	}
	setOptionCmd struct {
		replyTo
		name, value string
	}
	replaceConfigCmd struct {
		replyTo
		cfg game.Config
	}
)

func (d *Driver) handleCommand(cmd any) {
	cm, ok := cmd.(command)
	if !ok {
		d.logger.Warning(fmt.Sprintf("unknown driver command %T", cmd))
		return
	}

	var r reply
	switch c := cmd.(type) {
	case hostCmd:
		_, r.err = d.coord.Host()
		r.status = d.status()
	case connectCmd:
		_, r.err = d.coord.Connect(c.peer)
		r.status = d.status()
	case disconnectCmd:
		d.coord.Disconnect()
	case pingCmd:
		r.err = d.coord.Ping()
	case statusCmd:
		r.status = d.status()
	case steerCmd:
		d.steer = c.dir
	case snapshotCmd:
		r.snap = d.coord.Snapshot()
	case restartCmd:
		r.err = d.coord.Restart()
	case rematchCmd:
		r.err = d.coord.Rematch()
	case getConfigCmd:
		r.cfg = d.store.Get()
	case setOptionCmd:
		r.err = d.store.Set(c.name, c.value)
		r.cfg = d.store.Get()
	case replaceConfigCmd:
		r.err = d.store.Replace(c.cfg)
		r.cfg = d.store.Get()
	}
	cm.replies() <- r
}

// request hands cmd to the loop and waits for its reply.
func (d *Driver) request(ctx context.Context, cmd command) (reply, error) {
	select {
	case d.Inbox <- cmd:
	case <-d.done:
		return reply{}, ErrDriverStopped
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}

	select {
	case r := <-cmd.replies():
		return r, r.err
	case <-d.done:
		return reply{}, ErrDriverStopped
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

// Host starts hosting a duel.
func (d *Driver) Host(ctx context.Context) (dmn.SessionStatus, error) {
	r, err := d.request(ctx, hostCmd{newReplyTo()})
	return r.status, err
}

// Connect starts connecting to the host peer.
func (d *Driver) Connect(ctx context.Context, peer uuid.UUID) (dmn.SessionStatus, error) {
	r, err := d.request(ctx, connectCmd{replyTo: newReplyTo(), peer: peer})
	return r.status, err
}

func (d *Driver) Disconnect(ctx context.Context) error {
	_, err := d.request(ctx, disconnectCmd{newReplyTo()})
	return err
}

func (d *Driver) Ping(ctx context.Context) error {
	_, err := d.request(ctx, pingCmd{newReplyTo()})
	return err
}

func (d *Driver) Status(ctx context.Context) (dmn.SessionStatus, error) {
	r, err := d.request(ctx, statusCmd{newReplyTo()})
	return r.status, err
}

// Steer sets the direction read at the next tick. Later calls before that
// tick replace it.
func (d *Driver) Steer(ctx context.Context, dir game.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: %d", game.ErrInvalidDirection, dir)
	}
	_, err := d.request(ctx, steerCmd{replyTo: newReplyTo(), dir: dir})
	return err
}

func (d *Driver) Snapshot(ctx context.Context) (game.Snapshot, error) {
	r, err := d.request(ctx, snapshotCmd{newReplyTo()})
	return r.snap, err
}

func (d *Driver) Restart(ctx context.Context) error {
	_, err := d.request(ctx, restartCmd{newReplyTo()})
	return err
}

func (d *Driver) Rematch(ctx context.Context) error {
	_, err := d.request(ctx, rematchCmd{newReplyTo()})
	return err
}

func (d *Driver) Config(ctx context.Context) (game.Config, error) {
	r, err := d.request(ctx, getConfigCmd{newReplyTo()})
	return r.cfg, err
}

// SetOption changes one named option. The new value is used from the next
// game reset on.
func (d *Driver) SetOption(ctx context.Context, name, value string) (game.Config, error) {
	r, err := d.request(ctx, setOptionCmd{replyTo: newReplyTo(), name: name, value: value})
	return r.cfg, err
}

func (d *Driver) ReplaceConfig(ctx context.Context, cfg game.Config) (game.Config, error) {
	r, err := d.request(ctx, replaceConfigCmd{replyTo: newReplyTo(), cfg: cfg})
	return r.cfg, err
}

// tickMeter measures the achieved tick rate over one second windows.
type tickMeter struct {
	start time.Time
	count int
	rate  float64
}

func (m *tickMeter) tick(now time.Time) {
	if m.start.IsZero() {
		m.start = now
		return
	}
	m.count++
	if elapsed := now.Sub(m.start); elapsed >= time.Second {
		m.rate = float64(m.count) / elapsed.Seconds()
		m.count = 0
		m.start = now
	}
}
