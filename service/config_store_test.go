package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreSet(t *testing.T) {
	tests := []struct {
		name    string
		option  string
		value   string
		wantErr error
		check   func(t *testing.T, cfg game.Config)
	}{
		{
			name: "Board width", option: "board_width", value: "40",
			check: func(t *testing.T, cfg game.Config) { assert.Equal(t, 40, cfg.BoardWidth) },
		},
		{
			name: "Probability", option: "food_spawn_probability", value: "0.5",
			check: func(t *testing.T, cfg game.Config) { assert.Equal(t, 0.5, cfg.FoodSpawnProbability) },
		},
		{
			name: "Hex seed", option: "seed", value: "0xff",
			check: func(t *testing.T, cfg game.Config) { assert.Equal(t, uint64(255), cfg.Seed) },
		},
		{name: "Unknown option", option: "wrap_walls", value: "1", wantErr: ErrUnknownOption},
		{name: "Not a number", option: "max_food", value: "many", wantErr: game.ErrInvalidConfig},
		{name: "Invalid value", option: "board_height", value: "3", wantErr: game.ErrInvalidConfig},
		{name: "Negative speed", option: "move_interval", value: "0", wantErr: game.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewConfigStore(game.DefaultConfig())
			err := s.Set(tt.option, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, game.DefaultConfig(), s.Get())
				return
			}
			require.NoError(t, err)
			tt.check(t, s.Get())

			v, err := s.Option(tt.option)
			require.NoError(t, err)
			assert.NotEmpty(t, v)
		})
	}
}

func TestConfigStore(t *testing.T) {
	t.Run("Invalid initial config falls back to defaults", func(t *testing.T) {
		s := NewConfigStore(game.Config{})
		assert.Equal(t, game.DefaultConfig(), s.Get())
	})

	t.Run("Listeners see every change", func(t *testing.T) {
		s := NewConfigStore(game.DefaultConfig())
		var seen []int
		s.OnChange(func(cfg game.Config) { seen = append(seen, cfg.MaxFood) })

		require.NoError(t, s.Set("max_food", "5"))
		require.Error(t, s.Set("max_food", "-1"))
		require.NoError(t, s.Set("max_food", "7"))
		assert.Equal(t, []int{5, 7}, seen)
	})

	t.Run("Partial JSON overlay", func(t *testing.T) {
		s := NewConfigStore(game.DefaultConfig())
		require.NoError(t, s.LoadJSON([]byte(`{"board_width": 50}`)))

		want := game.DefaultConfig()
		want.BoardWidth = 50
		assert.Equal(t, want, s.Get())

		assert.ErrorIs(t, s.LoadJSON([]byte(`{"board_width": "wide"}`)), game.ErrInvalidConfig)
		assert.ErrorIs(t, s.LoadJSON([]byte(`{"board_width": 2}`)), game.ErrInvalidConfig)
		assert.Equal(t, want, s.Get())
	})

	t.Run("JSON round trip", func(t *testing.T) {
		s := NewConfigStore(game.DefaultConfig())
		require.NoError(t, s.Set("start_delay", "12"))
		raw, err := json.Marshal(s)
		require.NoError(t, err)

		other := NewConfigStore(game.DefaultConfig())
		require.NoError(t, other.LoadJSON(raw))
		assert.Equal(t, s.Get(), other.Get())
	})

	t.Run("File round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "game.json")
		s := NewConfigStore(game.DefaultConfig())
		require.NoError(t, s.Set("tick_duration_ms", "50"))
		require.NoError(t, s.SaveFile(path))

		other := NewConfigStore(game.DefaultConfig())
		require.NoError(t, other.LoadFile(path))
		assert.Equal(t, 50, other.Get().TickDurationMs)

		_, err := os.Stat(path)
		require.NoError(t, err)
		assert.Error(t, other.LoadFile(filepath.Join(t.TempDir(), "missing.json")))
	})

	t.Run("Option names", func(t *testing.T) {
		names := OptionNames()
		assert.Len(t, names, 10)
		assert.IsIncreasing(t, names)
		for _, n := range names {
			_, err := NewConfigStore(game.DefaultConfig()).Option(n)
			assert.NoError(t, err)
		}
	})
}
