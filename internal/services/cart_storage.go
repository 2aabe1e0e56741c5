// internal/services/cart_storage.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/miastore/storefront/internal/cart"
	"github.com/miastore/storefront/internal/config"
)

// CartStorage is the durable store the host serializes cart lines into
// after every mutation. Carts are stored whole, as a JSON array under one
// string key per user; concurrent writers follow last-writer-wins.
type CartStorage interface {
	Load(ctx context.Context, userID string) ([]cart.Line, error)
	Save(ctx context.Context, userID string, lines []cart.Line) error
	Delete(ctx context.Context, userID string) error
}

type redisCartStorage struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisCartStorage(client *redis.Client, cfg config.CartConfig) CartStorage {
	return &redisCartStorage{
		client:    client,
		keyPrefix: cfg.StorageKeyPrefix,
		ttl:       time.Duration(cfg.TTLDays) * 24 * time.Hour,
	}
}

func (s *redisCartStorage) key(userID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, userID)
}

func (s *redisCartStorage) Load(ctx context.Context, userID string) ([]cart.Line, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []cart.Line{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []cart.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		// A snapshot we cannot parse is treated as an empty cart rather
		// than locking the shopper out of theirs.
		return []cart.Line{}, nil
	}
	return lines, nil
}

func (s *redisCartStorage) Save(ctx context.Context, userID string, lines []cart.Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := s.client.Set(ctx, s.key(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *redisCartStorage) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// memoryCartStorage backs tests and local development without redis.
type memoryCartStorage struct {
	carts map[string][]cart.Line
}

func NewMemoryCartStorage() CartStorage {
	return &memoryCartStorage{carts: make(map[string][]cart.Line)}
}

func (s *memoryCartStorage) Load(_ context.Context, userID string) ([]cart.Line, error) {
	lines := make([]cart.Line, len(s.carts[userID]))
	copy(lines, s.carts[userID])
	return lines, nil
}

func (s *memoryCartStorage) Save(_ context.Context, userID string, lines []cart.Line) error {
	stored := make([]cart.Line, len(lines))
	copy(stored, lines)
	s.carts[userID] = stored
	return nil
}

func (s *memoryCartStorage) Delete(_ context.Context, userID string) error {
	delete(s.carts, userID)
	return nil
}
