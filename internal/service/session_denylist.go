package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionDenylist guarda sesiones cerradas hasta que su token expira.
type SessionDenylist interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type memorySessionDenylist struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func NewMemorySessionDenylist() SessionDenylist {
	return &memorySessionDenylist{
		items: make(map[string]time.Time),
	}
}

func (s *memorySessionDenylist) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	s.items[sessionID] = time.Now().UTC().Add(ttl)
	return nil
}

func (s *memorySessionDenylist) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessionID = strings.TrimSpace(sessionID)
	exp, ok := s.items[sessionID]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		delete(s.items, sessionID)
		return false, nil
	}
	return true, nil
}

type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisSessionDenylist struct {
	client redisKV
	prefix string
}

func NewRedisSessionDenylist(client *redis.Client) SessionDenylist {
	if client == nil {
		return nil
	}
	return &redisSessionDenylist{
		client: client,
		prefix: "session:revoked:",
	}
}

func (s *redisSessionDenylist) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+sessionID, "1", ttl).Err()
}

func (s *redisSessionDenylist) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.prefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
