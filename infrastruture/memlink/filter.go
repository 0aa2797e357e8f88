package memlink

import "github.com/google/uuid"

// DropEvery drops every nth frame across all directions.
func DropEvery(n int) Filter {
	count := 0
	return func(_, _ uuid.UUID, p []byte) [][]byte {
		count++
		if n > 0 && count%n == 0 {
			return nil
		}
		return [][]byte{p}
	}
}

// Duplicate delivers every frame twice.
func Duplicate() Filter {
	return func(_, _ uuid.UUID, p []byte) [][]byte {
		return [][]byte{p, p}
	}
}

// Reorder holds each frame back until the next one on the same direction
// and delivers the pair swapped.
func Reorder() Filter {
	held := make(map[[2]uuid.UUID][]byte)
	return func(from, to uuid.UUID, p []byte) [][]byte {
		key := [2]uuid.UUID{from, to}
		if prev, ok := held[key]; ok {
			delete(held, key)
			return [][]byte{p, prev}
		}
		held[key] = p
		return nil
	}
}

// DropFrom drops everything sent by id while blocked reports true.
func DropFrom(id uuid.UUID, blocked func() bool) Filter {
	return func(from, _ uuid.UUID, p []byte) [][]byte {
		if from == id && blocked() {
			return nil
		}
		return [][]byte{p}
	}
}

// Chain applies filters in order, each to the output of the previous.
func Chain(filters ...Filter) Filter {
	return func(from, to uuid.UUID, p []byte) [][]byte {
		frames := [][]byte{p}
		for _, f := range filters {
			var next [][]byte
			for _, fr := range frames {
				next = append(next, f(from, to, fr)...)
			}
			frames = next
		}
		return frames
	}
}
