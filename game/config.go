package game

import (
	"errors"
	"fmt"
	"time"
)

// Game-related errors.
var (
	ErrInvalidConfig    = errors.New("invalid game config")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidState     = errors.New("invalid game state")
)

const (
	minDimension = 8   // Minimum board width or height.
	maxDimension = 256 // Keeps cell indexes and wire payloads small.

	minTickDuration = 5 * time.Millisecond
	maxTickDuration = 2 * time.Second
)

// Config holds the tuning parameters of one game. The engine keeps its own copy
// for the whole game, so mutating a Config never affects a running engine.
type Config struct {
	TickDurationMs       int     `json:"tick_duration_ms" msgpack:"tick_duration_ms"`             // Wall-clock length of one tick.
	BoardWidth           int     `json:"board_width" msgpack:"board_width"`                       // Cells along X.
	BoardHeight          int     `json:"board_height" msgpack:"board_height"`                     // Cells along Y.
	InitialLength        int     `json:"initial_length" msgpack:"initial_length"`                 // Cells per snake at reset.
	MoveInterval         int     `json:"move_interval" msgpack:"move_interval"`                   // Ticks per cell; 1 is the fastest.
	FoodSpawnProbability float64 `json:"food_spawn_probability" msgpack:"food_spawn_probability"` // Chance per tick that a food item appears.
	FoodValue            int     `json:"food_value" msgpack:"food_value"`                         // Score and growth granted by one food item.
	MaxFood              int     `json:"max_food" msgpack:"max_food"`                             // Cap on simultaneously active food.
	Seed                 uint64  `json:"seed" msgpack:"seed"`                                     // Seed of the food generator.
	StartDelay           uint64  `json:"start_delay" msgpack:"start_delay"`                       // Snakes hold still before this tick.
}

// DefaultConfig returns the configuration used when nothing else is provided.
func DefaultConfig() Config {
	return Config{
		TickDurationMs:       33,
		BoardWidth:           20,
		BoardHeight:          20,
		InitialLength:        3,
		MoveInterval:         3,
		FoodSpawnProbability: 0.02,
		FoodValue:            1,
		MaxFood:              3,
		Seed:                 0x5eed,
		StartDelay:           90,
	}
}

// TickDuration returns the tick length as a time.Duration.
func (c Config) TickDuration() time.Duration {
	return time.Duration(c.TickDurationMs) * time.Millisecond
}

// Validate checks that the config describes a playable board.
func (c Config) Validate() error {
	switch {
	case c.TickDuration() < minTickDuration || c.TickDuration() > maxTickDuration:
		return fmt.Errorf("%w: tick duration %dms out of range", ErrInvalidConfig, c.TickDurationMs)
	case c.BoardWidth < minDimension || c.BoardHeight < minDimension:
		return fmt.Errorf("%w: board %dx%d smaller than %d", ErrInvalidConfig, c.BoardWidth, c.BoardHeight, minDimension)
	case c.BoardWidth > maxDimension || c.BoardHeight > maxDimension:
		return fmt.Errorf("%w: board %dx%d larger than %d", ErrInvalidConfig, c.BoardWidth, c.BoardHeight, maxDimension)
	case c.InitialLength < 1 || c.InitialLength > c.BoardWidth/4+1:
		return fmt.Errorf("%w: initial length %d must be within [1, %d]", ErrInvalidConfig, c.InitialLength, c.BoardWidth/4+1)
	case c.MoveInterval < 1:
		return fmt.Errorf("%w: move interval %d must be positive", ErrInvalidConfig, c.MoveInterval)
	case c.FoodSpawnProbability < 0 || c.FoodSpawnProbability > 1:
		return fmt.Errorf("%w: food spawn probability %v not in [0, 1]", ErrInvalidConfig, c.FoodSpawnProbability)
	case c.FoodValue < 1:
		return fmt.Errorf("%w: food value %d must be positive", ErrInvalidConfig, c.FoodValue)
	case c.MaxFood < 0:
		return fmt.Errorf("%w: max food %d is negative", ErrInvalidConfig, c.MaxFood)
	}
	return nil
}
