package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipe-catalog/internal/catalog"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Store keeps one catalog.State per browser session. States are replaced
// wholesale on every save.
type Store interface {
	Create(ctx context.Context) (string, catalog.State, error)
	Get(ctx context.Context, id string) (catalog.State, error)
	Save(ctx context.Context, id string, state catalog.State) error
	Delete(ctx context.Context, id string) error
}

// RedisStore stores states as JSON under "<prefix>:<id>" with a sliding TTL.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a new RedisStore instance
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		prefix: "catalog:session",
	}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

// Create starts a session on the default state.
func (s *RedisStore) Create(ctx context.Context) (string, catalog.State, error) {
	id := uuid.NewString()
	state := catalog.DefaultState()
	if err := s.Save(ctx, id, state); err != nil {
		return "", catalog.State{}, err
	}
	return id, state, nil
}

// Get loads the state of session id and refreshes its TTL.
func (s *RedisStore) Get(ctx context.Context, id string) (catalog.State, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catalog.State{}, ErrSessionNotFound
	}

	data, err := s.redis.GetEx(ctx, s.key(id), s.ttl).Bytes()
	if err == redis.Nil {
		return catalog.State{}, ErrSessionNotFound
	}
	if err != nil {
		return catalog.State{}, fmt.Errorf("failed to load session: %w", err)
	}

	var state catalog.State
	if err := json.Unmarshal(data, &state); err != nil {
		return catalog.State{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return state, nil
}

// Save replaces the state of session id.
func (s *RedisStore) Save(ctx context.Context, id string, state catalog.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete ends session id. Deleting an unknown session is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
