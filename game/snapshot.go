package game

// SnakeView is the read-only copy of one snake.
type SnakeView struct {
	Slot      Slot      `json:"slot"`
	Cells     []Point   `json:"cells"` // Head first.
	Direction Direction `json:"direction"`
	Alive     bool      `json:"alive"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
}

// Snapshot is a copied-out view of the game at one tick. It shares no memory
// with the engine and may be kept across ticks.
type Snapshot struct {
	Tick      uint64      `json:"tick"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Mode      Mode        `json:"mode"`
	LocalSlot Slot        `json:"local_slot"`
	Snakes    []SnakeView `json:"snakes"` // Indexed by Slot.
	Food      []Food      `json:"food"`
	Over      bool        `json:"over"`
	Checksum  uint64      `json:"checksum"`
}

// Snapshot copies the current state out of the engine.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      e.tick,
		Width:     e.cfg.BoardWidth,
		Height:    e.cfg.BoardHeight,
		Mode:      e.mode,
		LocalSlot: e.local,
		Snakes:    make([]SnakeView, 0, len(e.snakes)),
		Food:      append([]Food(nil), e.food...),
		Over:      e.over,
		Checksum:  e.Checksum(),
	}
	for slot, s := range e.snakes {
		snap.Snakes = append(snap.Snakes, s.view(Slot(slot)))
	}
	return snap
}

// Local returns the snake steered on this peer.
func (s Snapshot) Local() SnakeView {
	return s.Snakes[s.LocalSlot]
}

// Remote returns the opponent's snake, if the game has one.
func (s Snapshot) Remote() (SnakeView, bool) {
	if s.Mode != Duel || len(s.Snakes) < 2 {
		return SnakeView{}, false
	}
	return s.Snakes[s.LocalSlot.Other()], true
}

// Winner returns the surviving slot of a finished duel. It reports false while
// the game runs, in solo games, and on a draw.
func (s Snapshot) Winner() (Slot, bool) {
	if !s.Over || s.Mode != Duel || len(s.Snakes) < 2 {
		return 0, false
	}
	a, b := s.Snakes[SlotA].Alive, s.Snakes[SlotB].Alive
	switch {
	case a && !b:
		return SlotA, true
	case b && !a:
		return SlotB, true
	}
	return 0, false
}
