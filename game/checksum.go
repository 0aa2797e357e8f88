package game

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Checksum hashes everything that influences future ticks. Equal checksums at
// the same tick mean the two engines will keep agreeing given the same inputs.
func (e *Engine) Checksum() uint64 {
	b := make([]byte, 0, 256)
	b = binary.LittleEndian.AppendUint64(b, e.tick)
	b = append(b, byte(e.mode), boolByte(e.over))
	for _, s := range e.snakes {
		b = append(b, byte(s.dir), byte(s.heading), boolByte(s.alive))
		b = binary.LittleEndian.AppendUint32(b, uint32(s.score))
		b = binary.LittleEndian.AppendUint32(b, uint32(s.growth))
		b = binary.LittleEndian.AppendUint32(b, uint32(len(s.cells)))
		for _, c := range s.cells {
			b = appendPoint(b, c)
		}
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(len(e.food)))
	for _, f := range e.food {
		b = appendPoint(b, f.Pos)
		b = binary.LittleEndian.AppendUint32(b, uint32(f.Value))
	}
	if rngState, err := e.rng.marshal(); err == nil {
		b = append(b, rngState...)
	}
	return xxhash.Sum64(b)
}

// Digest identifies a config. Peers compare digests to tell whether they would
// simulate the same game.
func (c Config) Digest() uint64 {
	d := xxhash.New()
	var b []byte
	for _, v := range []uint64{
		uint64(c.TickDurationMs),
		uint64(c.BoardWidth),
		uint64(c.BoardHeight),
		uint64(c.InitialLength),
		uint64(c.MoveInterval),
		math.Float64bits(c.FoodSpawnProbability),
		uint64(c.FoodValue),
		uint64(c.MaxFood),
		c.Seed,
		c.StartDelay,
	} {
		b = binary.LittleEndian.AppendUint64(b, v)
	}
	_, _ = d.Write(b)
	return d.Sum64()
}

func appendPoint(b []byte, p Point) []byte {
	b = binary.LittleEndian.AppendUint16(b, uint16(p.X))
	return binary.LittleEndian.AppendUint16(b, uint16(p.Y))
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
