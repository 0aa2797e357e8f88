package i

import "github.com/beka-birhanu/snake-duel/game"

// Recorder captures the inputs of a game so it can be replayed later.
type Recorder interface {
	// Begin starts a new recording from start. Any open recording is finished.
	Begin(start game.State, local game.Slot) error

	// Record stores the inputs, indexed by slot, that produced tick.
	Record(tick uint64, inputs [2]game.Direction)

	// End closes the recording with the final snapshot.
	End(final game.Snapshot) error
}
