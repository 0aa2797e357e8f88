// Package replay records the inputs of played games and plays them back.
package replay

import (
	"errors"
	"fmt"
	"os"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/vmihailenco/msgpack/v5"
)

const formatVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported replay version")
	ErrChecksumMismatch   = errors.New("replay diverged from the recorded game")
	ErrTickGap            = errors.New("replay frames are not consecutive")
)

// Frame holds the inputs, by slot, that produced one tick.
type Frame struct {
	Tick   uint64            `msgpack:"t"`
	Inputs [2]game.Direction `msgpack:"i"`
}

// Final describes how the recorded game ended.
type Final struct {
	Tick     uint64 `msgpack:"tick"`
	Checksum uint64 `msgpack:"checksum"`
	Over     bool   `msgpack:"over"`
	Scores   []int  `msgpack:"scores"`
}

// Recording is one game from its start state to its end.
type Recording struct {
	Version   int       `msgpack:"version"`
	LocalSlot game.Slot `msgpack:"local_slot"`
	Start     []byte    `msgpack:"start"` // game.State.MarshalBinary output.
	Frames    []Frame   `msgpack:"frames"`
	Final     *Final    `msgpack:"final,omitempty"`
}

// StartState decodes the state the recording begins from.
func (r *Recording) StartState() (game.State, error) {
	return game.UnmarshalState(r.Start)
}

// Load reads a recording written by FileRecorder.
func Load(path string) (*Recording, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Recording
	if err := msgpack.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if rec.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	return &rec, nil
}

// Play re-runs the recording on a fresh engine and returns the last snapshot.
func Play(rec *Recording) (game.Snapshot, error) {
	st, err := rec.StartState()
	if err != nil {
		return game.Snapshot{}, err
	}
	e, err := game.NewEngine(st.Config, st.Mode, rec.LocalSlot)
	if err != nil {
		return game.Snapshot{}, err
	}
	if err := e.Restore(st); err != nil {
		return game.Snapshot{}, err
	}

	for _, f := range rec.Frames {
		if f.Tick != e.Tick()+1 {
			return game.Snapshot{}, fmt.Errorf("%w: expected %d, got %d", ErrTickGap, e.Tick()+1, f.Tick)
		}
		e.Step(f.Inputs)
	}
	return e.Snapshot(), nil
}

// Verify plays the recording and checks that it ends where the game did.
func Verify(rec *Recording) error {
	snap, err := Play(rec)
	if err != nil {
		return err
	}
	if rec.Final == nil {
		return nil
	}
	if snap.Tick != rec.Final.Tick || snap.Checksum != rec.Final.Checksum {
		return fmt.Errorf("%w at tick %d", ErrChecksumMismatch, snap.Tick)
	}
	return nil
}
