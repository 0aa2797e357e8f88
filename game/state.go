package game

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// SnakeState is the full serializable state of one snake.
type SnakeState struct {
	Cells   []Point   `msgpack:"cells"`
	Dir     Direction `msgpack:"dir"`
	Heading Direction `msgpack:"heading"`
	Alive   bool      `msgpack:"alive"`
	Score   int       `msgpack:"score"`
	Growth  int       `msgpack:"growth"`
}

// State is everything needed to continue a game on another engine. It carries
// no local slot; the receiver keeps its own.
type State struct {
	Config Config       `msgpack:"config"`
	Mode   Mode         `msgpack:"mode"`
	Tick   uint64       `msgpack:"tick"`
	Snakes []SnakeState `msgpack:"snakes"`
	Food   []Food       `msgpack:"food"`
	RNG    []byte       `msgpack:"rng"`
	Over   bool         `msgpack:"over"`
}

// State returns a deep copy of the engine state.
func (e *Engine) State() State {
	rngState, _ := e.rng.marshal() // PCG marshaling cannot fail.
	st := State{
		Config: e.cfg,
		Mode:   e.mode,
		Tick:   e.tick,
		Food:   append([]Food(nil), e.food...),
		RNG:    rngState,
		Over:   e.over,
	}
	for _, s := range e.snakes {
		st.Snakes = append(st.Snakes, SnakeState{
			Cells:   append([]Point(nil), s.cells...),
			Dir:     s.dir,
			Heading: s.heading,
			Alive:   s.alive,
			Score:   s.score,
			Growth:  s.growth,
		})
	}
	return st
}

// Restore replaces the engine state. The local slot is kept unless the state is
// a solo game. On error the engine is left untouched.
func (e *Engine) Restore(st State) error {
	if err := st.Config.Validate(); err != nil {
		return err
	}
	want := 1
	if st.Mode == Duel {
		want = 2
	}
	if len(st.Snakes) != want {
		return fmt.Errorf("%w: %d snakes for %s mode", ErrInvalidState, len(st.Snakes), st.Mode)
	}

	snakes := make([]*snake, 0, want)
	for _, ss := range st.Snakes {
		if len(ss.Cells) == 0 {
			return fmt.Errorf("%w: empty snake", ErrInvalidState)
		}
		for _, c := range ss.Cells {
			if c.X < 0 || c.X >= st.Config.BoardWidth || c.Y < 0 || c.Y >= st.Config.BoardHeight {
				return fmt.Errorf("%w: cell %v outside board", ErrInvalidState, c)
			}
		}
		snakes = append(snakes, &snake{
			cells:   append([]Point(nil), ss.Cells...),
			dir:     ss.Dir,
			heading: ss.Heading,
			alive:   ss.Alive,
			score:   ss.Score,
			growth:  ss.Growth,
		})
	}

	r := newRNG(st.Config.Seed)
	if len(st.RNG) > 0 {
		if err := r.unmarshal(st.RNG); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
	}

	e.cfg = st.Config
	e.mode = st.Mode
	if e.mode == Solo {
		e.local = SlotA
	}
	e.tick = st.Tick
	e.snakes = snakes
	e.food = append([]Food(nil), st.Food...)
	e.rng = r
	e.over = st.Over
	return nil
}

// wireState has the fields of State without its methods, so msgpack does not
// call back into MarshalBinary.
type wireState State

// MarshalBinary encodes the state with msgpack.
func (st State) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal((*wireState)(&st))
}

// UnmarshalState decodes a state produced by State.MarshalBinary.
func UnmarshalState(b []byte) (State, error) {
	var st wireState
	if err := msgpack.Unmarshal(b, &st); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return State(st), nil
}
