package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/jwebster45206/black-moon/pkg/storage"
)

// DefaultSlot is stored at the configured path itself; other slots get
// their name spliced in before the extension (savegame.<slot>.json).
const DefaultSlot = "default"

// FileStorage writes each save slot as a JSON document on disk.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// Ensure FileStorage implements Storage interface
var _ storage.Storage = (*FileStorage)(nil)

// NewFileStorage stores the default slot at path.
func NewFileStorage(path string, logger *slog.Logger) *FileStorage {
	if path == "" {
		path = "savegame.json"
	}
	return &FileStorage{path: path, logger: logger}
}

func (f *FileStorage) Ping(ctx context.Context) error {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("save directory %s is not a directory", dir)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}

// slotPath maps a slot to its file. Slot names may not contain path
// separators or dots, so every slot stays next to the default save.
func (f *FileStorage) slotPath(slot string) (string, error) {
	if strings.ContainsAny(slot, `/\.`) {
		return "", fmt.Errorf("invalid save slot %q", slot)
	}
	if slot == "" || slot == DefaultSlot {
		return f.path, nil
	}
	ext := filepath.Ext(f.path)
	return strings.TrimSuffix(f.path, ext) + "." + slot + ext, nil
}

func (f *FileStorage) SaveGameState(ctx context.Context, slot string, gs *state.GameState) error {
	path, err := f.slotPath(slot)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Write then rename, so a crash never leaves a half-written save.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".save-*")
	if err != nil {
		return fmt.Errorf("failed to save gamestate: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to save gamestate: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save gamestate: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		f.logger.Error("Failed to save gamestate", "slot", slot, "path", path, "error", err)
		return fmt.Errorf("failed to save gamestate: %w", err)
	}
	return nil
}

func (f *FileStorage) LoadGameState(ctx context.Context, slot string) (*state.GameState, error) {
	path, err := f.slotPath(slot)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Warn("Gamestate not found", "slot", slot, "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		f.logger.Error("Failed to unmarshal gamestate", "slot", slot, "path", path, "error", err)
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}
	return &gs, nil
}

func (f *FileStorage) DeleteGameState(ctx context.Context, slot string) error {
	path, err := f.slotPath(slot)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete gamestate: %w", err)
	}
	return nil
}

func (f *FileStorage) ListSlots(ctx context.Context) ([]string, error) {
	ext := filepath.Ext(f.path)
	base := strings.TrimSuffix(f.path, ext)
	matches, err := filepath.Glob(base + ".*" + ext)
	if err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}

	var slots []string
	if _, err := os.Stat(f.path); err == nil {
		slots = append(slots, DefaultSlot)
	}
	for _, m := range matches {
		slots = append(slots, strings.TrimSuffix(strings.TrimPrefix(m, base+"."), ext))
	}
	sort.Strings(slots)
	return slots, nil
}
