package game

import "fmt"

// Mode selects how many snakes a game has.
type Mode uint8

const (
	Solo Mode = iota // Local snake only.
	Duel             // Local and remote snakes.
)

func (m Mode) String() string {
	if m == Duel {
		return "duel"
	}
	return "solo"
}

// Slot identifies a snake. Both peers agree on slots; which one is "local"
// differs per peer.
type Slot uint8

const (
	SlotA Slot = iota
	SlotB
)

// Other returns the opposing slot.
func (s Slot) Other() Slot {
	return 1 - s
}

func (s Slot) String() string {
	if s == SlotB {
		return "B"
	}
	return "A"
}

// Food is an active food item.
type Food struct {
	Pos   Point `json:"pos" msgpack:"pos"`
	Value int   `json:"value" msgpack:"value"`
}

// Engine is the deterministic snake simulation. Two engines built from the same
// Config and fed the same inputs per slot stay identical tick for tick.
//
// Engine is not safe for concurrent use; readers get copies through Snapshot.
type Engine struct {
	cfg    Config
	mode   Mode
	local  Slot
	tick   uint64
	snakes []*snake // Indexed by Slot.
	food   []Food
	rng    *rng
	over   bool
}

// NewEngine returns an engine reset to tick 0 for cfg.
func NewEngine(cfg Config, mode Mode, local Slot) (*Engine, error) {
	e := &Engine{}
	if err := e.Reset(cfg, mode, local); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset reinitializes snakes, food, scores and the generator for a new game.
// Solo games always put the local player in SlotA.
func (e *Engine) Reset(cfg Config, mode Mode, local Slot) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if local > SlotB {
		return fmt.Errorf("%w: slot %d", ErrInvalidConfig, local)
	}
	if mode == Solo {
		local = SlotA
	}

	e.cfg = cfg
	e.mode = mode
	e.local = local
	e.tick = 0
	e.over = false
	e.food = nil
	e.rng = newRNG(cfg.Seed)
	e.snakes = []*snake{spawnSnake(cfg, SlotA)}
	if mode == Duel {
		e.snakes = append(e.snakes, spawnSnake(cfg, SlotB))
	}
	return nil
}

// Config returns the configuration the current game runs with.
func (e *Engine) Config() Config { return e.cfg }

// Mode returns the current game mode.
func (e *Engine) Mode() Mode { return e.mode }

// LocalSlot returns the slot steered by the local input.
func (e *Engine) LocalSlot() Slot { return e.local }

// Tick returns the tick of the current state. A fresh game is at tick 0.
func (e *Engine) Tick() uint64 { return e.tick }

// Over reports whether a snake has died.
func (e *Engine) Over() bool { return e.over }

// AdvanceTick moves the game to the next tick. DirNone keeps a snake's heading,
// and a reversal is silently ignored. The remote input is ignored in Solo mode.
func (e *Engine) AdvanceTick(local, remote Direction) Snapshot {
	var inputs [2]Direction
	inputs[e.local] = local
	if e.mode == Duel {
		inputs[e.local.Other()] = remote
	}
	e.Step(inputs)
	return e.Snapshot()
}

// Step advances one tick with inputs indexed by slot.
func (e *Engine) Step(inputs [2]Direction) {
	e.tick++
	if e.over {
		return
	}

	for slot, s := range e.snakes {
		if s.alive {
			s.steer(inputs[slot])
		}
	}

	if e.movesThisTick() {
		e.moveSnakes()
	}
	e.spawnFood()

	for _, s := range e.snakes {
		if !s.alive {
			e.over = true
		}
	}
}

func (e *Engine) movesThisTick() bool {
	if e.tick < e.cfg.StartDelay {
		return false
	}
	return (e.tick-e.cfg.StartDelay)%uint64(e.cfg.MoveInterval) == 0
}

type move struct {
	next    Point
	moving  bool
	vacates bool // Tail leaves its cell this tick.
	dies    bool
}

// moveSnakes resolves all heads at once. Food is looked at before bodies: a
// snake's tail vacates unless growth was already pending, so eating never keeps
// the tail in place on the same tick.
func (e *Engine) moveSnakes() {
	moves := make([]move, len(e.snakes))
	for slot, s := range e.snakes {
		if !s.alive {
			continue
		}
		next := s.head().Add(s.dir.Delta())
		if !e.inBounds(next) {
			s.alive = false
			continue
		}
		moves[slot] = move{next: next, moving: true, vacates: s.growth == 0}
	}

	// A death turns a vacating tail back into an obstacle, so repeat until stable.
	for changed := true; changed; {
		changed = false
		blocked := e.blockedCells(moves)
		for slot := range moves {
			m := &moves[slot]
			if m.moving && !m.dies && blocked[m.next] {
				m.dies = true
				changed = true
			}
		}
		if !changed && e.headOn(moves) {
			moves[SlotA].dies, moves[SlotB].dies = true, true
			changed = true
		}
	}

	var eaten []Point
	for slot, s := range e.snakes {
		m := moves[slot]
		if !m.moving {
			continue
		}
		if m.dies {
			s.alive = false
			continue
		}

		s.cells = append([]Point{m.next}, s.cells...)
		if m.vacates {
			s.cells = s.cells[:len(s.cells)-1]
		} else {
			s.growth--
		}
		s.heading = s.dir

		if i := e.foodAt(m.next); i >= 0 {
			s.growth += e.food[i].Value
			s.score += e.food[i].Value
			eaten = append(eaten, m.next)
		}
	}

	for _, p := range eaten {
		if i := e.foodAt(p); i >= 0 {
			e.food = append(e.food[:i], e.food[i+1:]...)
		}
	}
}

func (e *Engine) blockedCells(moves []move) map[Point]bool {
	blocked := make(map[Point]bool)
	for slot, s := range e.snakes {
		cells := s.cells
		m := moves[slot]
		if m.moving && !m.dies && m.vacates {
			cells = cells[:len(cells)-1]
		}
		for _, c := range cells {
			blocked[c] = true
		}
	}
	return blocked
}

// headOn reports two surviving heads entering the same cell or swapping cells.
func (e *Engine) headOn(moves []move) bool {
	if len(moves) < 2 {
		return false
	}
	a, b := moves[SlotA], moves[SlotB]
	if !a.moving || !b.moving || a.dies || b.dies {
		return false
	}
	swapped := a.next == e.snakes[SlotB].head() && b.next == e.snakes[SlotA].head()
	return a.next == b.next || swapped
}

func (e *Engine) spawnFood() {
	draw := e.rng.float()
	if len(e.food) >= e.cfg.MaxFood || draw >= e.cfg.FoodSpawnProbability {
		return
	}

	occupied := make(map[Point]bool)
	for _, s := range e.snakes {
		for _, c := range s.cells {
			occupied[c] = true
		}
	}
	for _, f := range e.food {
		occupied[f.Pos] = true
	}

	free := e.cfg.BoardWidth*e.cfg.BoardHeight - len(occupied)
	if free <= 0 {
		return
	}
	k := e.rng.index(free)
	for y := 0; y < e.cfg.BoardHeight; y++ {
		for x := 0; x < e.cfg.BoardWidth; x++ {
			p := Point{X: x, Y: y}
			if occupied[p] {
				continue
			}
			if k == 0 {
				e.food = append(e.food, Food{Pos: p, Value: e.cfg.FoodValue})
				return
			}
			k--
		}
	}
}

func (e *Engine) foodAt(p Point) int {
	for i, f := range e.food {
		if f.Pos == p {
			return i
		}
	}
	return -1
}

func (e *Engine) inBounds(p Point) bool {
	return p.X >= 0 && p.X < e.cfg.BoardWidth && p.Y >= 0 && p.Y < e.cfg.BoardHeight
}
