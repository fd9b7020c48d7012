package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/jwebster45206/black-moon/pkg/storage"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saves (
	slot       TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStorage keeps one row per save slot holding the JSON document.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStorage implements Storage interface
var _ storage.Storage = (*SQLiteStorage)(nil)

// OpenSQLite opens (creating if needed) the save database at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) SaveGameState(ctx context.Context, slot string, gs *state.GameState) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		slot, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		s.logger.Error("Failed to save gamestate", "slot", slot, "error", err)
		return fmt.Errorf("failed to save gamestate: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LoadGameState(ctx context.Context, slot string) (*state.GameState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM saves WHERE slot = ?`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("Gamestate not found", "slot", slot)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load gamestate: %w", err)
	}

	var gs state.GameState
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		s.logger.Error("Failed to unmarshal gamestate", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}
	return &gs, nil
}

func (s *SQLiteStorage) DeleteGameState(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("failed to delete gamestate: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListSlots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("failed to list save slots: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
