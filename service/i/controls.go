package i

import (
	"context"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/game"
	"github.com/google/uuid"
)

// SessionControl is the connection surface exposed to operators.
type SessionControl interface {
	Host(ctx context.Context) (dmn.SessionStatus, error)
	Connect(ctx context.Context, peer uuid.UUID) (dmn.SessionStatus, error)
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	Status(ctx context.Context) (dmn.SessionStatus, error)
}

// GameControl feeds input to the running game and reads its state.
type GameControl interface {
	Steer(ctx context.Context, d game.Direction) error
	Snapshot(ctx context.Context) (game.Snapshot, error)
	Restart(ctx context.Context) error
	Rematch(ctx context.Context) error
}

// ConfigControl reads and changes the game configuration.
type ConfigControl interface {
	Config(ctx context.Context) (game.Config, error)
	SetOption(ctx context.Context, name, value string) (game.Config, error)
	ReplaceConfig(ctx context.Context, cfg game.Config) (game.Config, error)
}
