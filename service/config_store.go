package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/beka-birhanu/snake-duel/game"
)

// ErrUnknownOption is returned by ConfigStore.Set for names it does not know.
var ErrUnknownOption = errors.New("unknown config option")

type option struct {
	get func(*game.Config) string
	set func(*game.Config, string) error
}

func intOption(field func(*game.Config) *int) option {
	return option{
		get: func(c *game.Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *game.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*field(c) = n
			return nil
		},
	}
}

func uintOption(field func(*game.Config) *uint64) option {
	return option{
		get: func(c *game.Config) string { return strconv.FormatUint(*field(c), 10) },
		set: func(c *game.Config, v string) error {
			n, err := strconv.ParseUint(v, 0, 64)
			if err != nil {
				return err
			}
			*field(c) = n
			return nil
		},
	}
}

var configOptions = map[string]option{
	"tick_duration_ms": intOption(func(c *game.Config) *int { return &c.TickDurationMs }),
	"board_width":      intOption(func(c *game.Config) *int { return &c.BoardWidth }),
	"board_height":     intOption(func(c *game.Config) *int { return &c.BoardHeight }),
	"initial_length":   intOption(func(c *game.Config) *int { return &c.InitialLength }),
	"move_interval":    intOption(func(c *game.Config) *int { return &c.MoveInterval }),
	"food_value":       intOption(func(c *game.Config) *int { return &c.FoodValue }),
	"max_food":         intOption(func(c *game.Config) *int { return &c.MaxFood }),
	"seed":             uintOption(func(c *game.Config) *uint64 { return &c.Seed }),
	"start_delay":      uintOption(func(c *game.Config) *uint64 { return &c.StartDelay }),
	"food_spawn_probability": {
		get: func(c *game.Config) string { return strconv.FormatFloat(c.FoodSpawnProbability, 'g', -1, 64) },
		set: func(c *game.Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			c.FoodSpawnProbability = f
			return nil
		},
	},
}

// OptionNames lists the settable option names in sorted order.
func OptionNames() []string {
	names := make([]string, 0, len(configOptions))
	for n := range configOptions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ConfigStore holds the game configuration between games. Running games keep
// the copy they were reset with, so a change only shows at the next reset.
//
// ConfigStore is owned by the Driver goroutine and is not safe for concurrent use.
type ConfigStore struct {
	cfg       game.Config
	listeners []func(game.Config)
}

// NewConfigStore returns a store holding cfg, or the defaults if cfg is invalid.
func NewConfigStore(cfg game.Config) *ConfigStore {
	if cfg.Validate() != nil {
		cfg = game.DefaultConfig()
	}
	return &ConfigStore{cfg: cfg}
}

// Get returns a copy of the current configuration.
func (s *ConfigStore) Get() game.Config { return s.cfg }

// Option returns the current value of a named option.
func (s *ConfigStore) Option(name string) (string, error) {
	opt, ok := configOptions[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return opt.get(&s.cfg), nil
}

// Set parses value into the named option. Nothing changes on error.
func (s *ConfigStore) Set(name, value string) error {
	opt, ok := configOptions[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	next := s.cfg
	if err := opt.set(&next, value); err != nil {
		return fmt.Errorf("%w: %s: %v", game.ErrInvalidConfig, name, err)
	}
	return s.Replace(next)
}

// Replace swaps the whole configuration after validating it.
func (s *ConfigStore) Replace(cfg game.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	for _, f := range s.listeners {
		f(cfg)
	}
	return nil
}

// OnChange registers f to be called after every successful change.
func (s *ConfigStore) OnChange(f func(game.Config)) {
	s.listeners = append(s.listeners, f)
}

// MarshalJSON encodes the current configuration.
func (s *ConfigStore) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.cfg)
}

// LoadJSON applies a JSON document on top of the current configuration, so a
// partial document only changes the options it names.
func (s *ConfigStore) LoadJSON(b []byte) error {
	next := s.cfg
	if err := json.Unmarshal(b, &next); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidConfig, err)
	}
	return s.Replace(next)
}

// LoadFile applies the JSON document stored at path.
func (s *ConfigStore) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.LoadJSON(b)
}

// SaveFile writes the configuration to path as indented JSON.
func (s *ConfigStore) SaveFile(path string) error {
	b, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
