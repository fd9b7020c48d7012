package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/jwebster45206/black-moon/pkg/state"
)

// MockStorage is an in-memory Storage. It backs the "memory" backend and
// tests. Saved states are cloned, so later changes by the caller do not
// leak into the slot.
type MockStorage struct {
	mu         sync.RWMutex
	gamestates map[string]*state.GameState
	pingError  error
	saveError  error
	loadError  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		gamestates: make(map[string]*state.GameState),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every save fail with err; nil restores normal saves.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetLoadError makes every load fail with err; nil restores normal loads.
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGameState(ctx context.Context, slot string, gs *state.GameState) error {
	if gs == nil {
		return errors.New("gamestate cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.gamestates[slot] = gs.Clone()
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, slot string) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadError != nil {
		return nil, m.loadError
	}
	gs, exists := m.gamestates[slot]
	if !exists {
		return nil, nil
	}
	return gs.Clone(), nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gamestates, slot)
	return nil
}

func (m *MockStorage) ListSlots(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slots := make([]string, 0, len(m.gamestates))
	for slot := range m.gamestates {
		slots = append(slots, slot)
	}
	slices.Sort(slots)
	return slots, nil
}
