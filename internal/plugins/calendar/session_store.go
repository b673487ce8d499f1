package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix is the Redis key prefix for calendar view sessions.
const sessionKeyPrefix = "calsession:"

// SessionStore keeps calendar view sessions between requests. Get returns
// nil, nil when the session does not exist or has expired.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// --- In-memory ---

type memorySessionEntry struct {
	session   Session
	expiresAt time.Time
}

// memorySessionStore is the default store when Redis is not configured.
type memorySessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memorySessionEntry
}

// NewMemorySessionStore creates a process-local session store. Entries
// expire ttl after their last save; ttl <= 0 disables expiry.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memorySessionEntry),
	}
}

func (m *memorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	if m.ttl > 0 && m.now().After(entry.expiresAt) {
		delete(m.entries, id)
		return nil, nil
	}
	s := entry.session
	return &s, nil
}

func (m *memorySessionStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[s.ID] = memorySessionEntry{
		session:   *s,
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// --- Redis ---

// redisSessionStore shares view sessions across server replicas. Sessions
// are JSON values with a sliding TTL refreshed on every save.
type redisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{rdb: rdb, ttl: ttl}
}

func (r *redisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading calendar session from Redis: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshaling calendar session: %w", err)
	}
	return &s, nil
}

func (r *redisSessionStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling calendar session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKeyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing calendar session in Redis: %w", err)
	}
	return nil
}

func (r *redisSessionStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("deleting calendar session from Redis: %w", err)
	}
	return nil
}
