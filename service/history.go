package service

import "github.com/beka-birhanu/snake-duel/game"

// frame is what was simulated at one tick.
type frame struct {
	tick     uint64
	local    game.Direction
	remote   game.Direction
	checksum uint64
	valid    bool
}

// history is a fixed ring of recent frames keyed by tick modulo its size.
type history struct {
	frames []frame
}

func newHistory(size int) *history {
	return &history{frames: make([]frame, max(size, 1))}
}

func (h *history) put(f frame) {
	f.valid = true
	h.frames[f.tick%uint64(len(h.frames))] = f
}

func (h *history) get(tick uint64) (frame, bool) {
	f := h.frames[tick%uint64(len(h.frames))]
	if !f.valid || f.tick != tick {
		return frame{}, false
	}
	return f, true
}

func (h *history) clear() {
	clear(h.frames)
}
