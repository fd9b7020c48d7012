package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/redis/go-redis/v9"
)

// GameState operations (Redis-backed)

func (r *RedisStorage) SaveGameState(ctx context.Context, slot string, gs *state.GameState) error {
	doc := gs.Document()
	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", k, err)
		}
		fields[k] = string(data)
	}

	key := r.key(slot)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save gamestate", "slot", slot, "error", err)
		return fmt.Errorf("failed to save gamestate: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadGameState(ctx context.Context, slot string) (*state.GameState, error) {
	fields, err := r.client.HGetAll(ctx, r.key(slot)).Result()
	if err != nil {
		r.logger.Error("Failed to load gamestate", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to load gamestate: %w", err)
	}
	if len(fields) == 0 {
		r.logger.Warn("Gamestate not found", "slot", slot)
		return nil, nil
	}

	doc := make(state.Document, len(fields))
	for k, raw := range fields {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", k, err)
		}
		doc[k] = v
	}

	gs, err := state.FromDocument(doc)
	if err != nil {
		r.logger.Error("Failed to unmarshal gamestate", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}
	return gs, nil
}

func (r *RedisStorage) DeleteGameState(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, r.key(slot)).Err(); err != nil {
		r.logger.Error("Failed to delete gamestate", "slot", slot, "error", err)
		return fmt.Errorf("failed to delete gamestate: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListSlots(ctx context.Context) ([]string, error) {
	var slots []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		slots = append(slots, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	sort.Strings(slots)
	return slots, nil
}
