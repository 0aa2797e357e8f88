package replay

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const fileExt = ".replay"

var _ i.Recorder = &FileRecorder{}

// Option configures a FileRecorder.
type Option func(*FileRecorder)

// WithLogger sets the logger used for write failures.
func WithLogger(l *log.Logger) Option {
	return func(r *FileRecorder) {
		r.logger = l
	}
}

// WithMinFrames skips writing games shorter than n ticks.
func WithMinFrames(n int) Option {
	return func(r *FileRecorder) {
		r.minFrames = n
	}
}

// FileRecorder writes each recorded game to its own file in a directory.
// A game cut short by a new Begin is written without a Final.
type FileRecorder struct {
	dir       string
	logger    *log.Logger
	minFrames int

	current *Recording
	written []string
}

// NewFileRecorder creates dir if needed.
func NewFileRecorder(dir string, opts ...Option) (*FileRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRecorder{dir: dir, logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *FileRecorder) Begin(start game.State, local game.Slot) error {
	var err error
	if r.current != nil {
		err = r.flush()
	}
	raw, mErr := start.MarshalBinary()
	if mErr != nil {
		return mErr
	}
	r.current = &Recording{Version: formatVersion, LocalSlot: local, Start: raw}
	return err
}

func (r *FileRecorder) Record(tick uint64, inputs [2]game.Direction) {
	if r.current == nil || r.current.Final != nil {
		return
	}
	r.current.Frames = append(r.current.Frames, Frame{Tick: tick, Inputs: inputs})
}

func (r *FileRecorder) End(final game.Snapshot) error {
	if r.current == nil {
		return nil
	}
	f := &Final{Tick: final.Tick, Checksum: final.Checksum, Over: final.Over}
	for _, s := range final.Snakes {
		f.Scores = append(f.Scores, s.Score)
	}
	r.current.Final = f
	return r.flush()
}

// Written returns the paths of the files written so far.
func (r *FileRecorder) Written() []string {
	return append([]string(nil), r.written...)
}

func (r *FileRecorder) flush() error {
	rec := r.current
	r.current = nil
	if len(rec.Frames) == 0 || len(rec.Frames) < r.minFrames {
		return nil
	}

	b, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s-%s%s", time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8], fileExt)
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		r.logger.Printf("writing replay %s: %s", path, err)
		return err
	}
	r.written = append(r.written, path)
	return nil
}
