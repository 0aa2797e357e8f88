package game

// snake is the mutable per-player state. Only the engine touches it.
type snake struct {
	cells   []Point   // Head first.
	dir     Direction // Heading applied at the next move.
	heading Direction // Heading of the last move, used to reject reversals.
	alive   bool
	score   int
	growth  int // Cells still to be added, one per move.
}

func spawnSnake(cfg Config, slot Slot) *snake {
	s := &snake{alive: true, cells: make([]Point, 0, cfg.InitialLength)}
	head := Point{X: cfg.BoardWidth / 4, Y: cfg.BoardHeight / 4}
	s.dir = DirRight
	if slot == SlotB {
		head = Point{X: cfg.BoardWidth - 1 - cfg.BoardWidth/4, Y: cfg.BoardHeight - 1 - cfg.BoardHeight/4}
		s.dir = DirLeft
	}
	s.heading = s.dir

	back := s.dir.Opposite().Delta()
	cell := head
	for range cfg.InitialLength {
		s.cells = append(s.cells, cell)
		cell = cell.Add(back)
	}
	return s
}

func (s *snake) head() Point {
	return s.cells[0]
}

// steer applies a direction request; reversing onto the neck is ignored.
func (s *snake) steer(d Direction) {
	if !d.Valid() || d == s.heading.Opposite() {
		return
	}
	s.dir = d
}

func (s *snake) view(slot Slot) SnakeView {
	return SnakeView{
		Slot:      slot,
		Cells:     append([]Point(nil), s.cells...),
		Direction: s.dir,
		Alive:     s.alive,
		Score:     s.score,
		Length:    len(s.cells),
	}
}
