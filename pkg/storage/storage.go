package storage

import (
	"context"

	"github.com/jwebster45206/black-moon/pkg/state"
)

// Storage persists game state documents under named save slots.
// LoadGameState returns nil, nil when the slot holds no save.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// GameState operations
	SaveGameState(ctx context.Context, slot string, gs *state.GameState) error
	LoadGameState(ctx context.Context, slot string) (*state.GameState, error)
	DeleteGameState(ctx context.Context, slot string) error
	ListSlots(ctx context.Context) ([]string, error)
}
