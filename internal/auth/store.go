package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned by Store.Resolve when the token is unknown or
// expired. Callers must treat every resolution failure uniformly as
// "unauthenticated"; no distinction is exposed between missing and expired.
var ErrNoSession = errors.New("no such session")

// Store persists the one-way mapping token -> actor id, namespaced by
// variant. Entries expire after the TTL passed at creation; there is no
// other revocation state.
type Store interface {
	Create(ctx context.Context, v Variant, actorID uint64, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, v Variant, token string) (uint64, error)
	Delete(ctx context.Context, v Variant, token string) error
}

func sessionKey(v Variant, token string) string {
	return "sess:" + string(v) + ":" + token
}

// RedisStore keeps sessions in Redis with a per-key TTL. This is the
// production store; expiry is enforced by Redis itself.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Create(ctx context.Context, v Variant, actorID uint64, ttl time.Duration) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKey(v, token), strconv.FormatUint(actorID, 10), ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, v Variant, token string) (uint64, error) {
	if token == "" {
		return 0, ErrNoSession
	}
	val, err := s.rdb.Get(ctx, sessionKey(v, token)).Result()
	if err == redis.Nil {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrNoSession
	}
	return id, nil
}

func (s *RedisStore) Delete(ctx context.Context, v Variant, token string) error {
	return s.rdb.Del(ctx, sessionKey(v, token)).Err()
}

// MemoryStore is the fallback used when Redis is unreachable at startup.
// Sessions then live only as long as the process, which is acceptable for a
// single-instance deployment. Expired entries are dropped lazily on read and
// in bulk by the periodic Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memorySession
}

type memorySession struct {
	actorID   uint64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memorySession)}
}

func (s *MemoryStore) Create(_ context.Context, v Variant, actorID uint64, ttl time.Duration) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.entries[sessionKey(v, token)] = memorySession{
		actorID:   actorID,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Resolve(_ context.Context, v Variant, token string) (uint64, error) {
	if token == "" {
		return 0, ErrNoSession
	}
	key := sessionKey(v, token)
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrNoSession
	}
	if time.Now().UTC().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return 0, ErrNoSession
	}
	return e.actorID, nil
}

func (s *MemoryStore) Delete(_ context.Context, v Variant, token string) error {
	s.mu.Lock()
	delete(s.entries, sessionKey(v, token))
	s.mu.Unlock()
	return nil
}

// Sweep removes expired sessions and returns how many were dropped. Wired to
// the hourly cron in main.
func (s *MemoryStore) Sweep() int {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}
