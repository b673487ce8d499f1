package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxRetained caps how many entries either store keeps. Older entries are
// dropped first.
const maxRetained = 5000

// Redis keys for the shared log.
const (
	redisLogKey = "calaudit:log"
	redisSeqKey = "calaudit:seq"
)

// AuditRepository defines the data access contract for audit log operations.
// Listings are newest first.
type AuditRepository interface {
	// Log stores an entry and assigns its ID.
	Log(ctx context.Context, entry *AuditEntry) error

	// List returns a page of entries and the total number retained.
	List(ctx context.Context, limit, offset int) ([]AuditEntry, int, error)

	// ListByEvent returns the most recent entries for one event.
	ListByEvent(ctx context.Context, eventID string, limit int) ([]AuditEntry, error)

	// Stats returns aggregate counts over every retained entry.
	Stats(ctx context.Context) (*ActivityStats, error)
}

// --- In-memory store ---

// memoryRepository keeps entries oldest first in a bounded slice.
type memoryRepository struct {
	mu      sync.RWMutex
	entries []AuditEntry
	seq     int64
}

// NewMemoryRepository creates a process-local audit log.
func NewMemoryRepository() AuditRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) Log(_ context.Context, entry *AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.seq++
	entry.ID = r.seq
	r.entries = append(r.entries, *entry)
	if over := len(r.entries) - maxRetained; over > 0 {
		r.entries = append([]AuditEntry(nil), r.entries[over:]...)
	}
	return nil
}

func (r *memoryRepository) List(_ context.Context, limit, offset int) ([]AuditEntry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.entries)
	if limit <= 0 || offset < 0 || offset >= total {
		return []AuditEntry{}, total, nil
	}
	out := make([]AuditEntry, 0, min(limit, total-offset))
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, total, nil
}

func (r *memoryRepository) ListByEvent(_ context.Context, eventID string, limit int) ([]AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []AuditEntry{}
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].EventID == eventID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *memoryRepository) Stats(_ context.Context) (*ActivityStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return summarize(r.entries), nil
}

// --- Redis store ---

// redisRepository keeps JSON entries newest first in a capped Redis list so
// every server instance shares one feed.
type redisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates an audit log stored in Redis.
func NewRedisRepository(client *redis.Client) AuditRepository {
	return &redisRepository{client: client}
}

// Log assigns an ID from a Redis counter, then pushes and trims in one
// pipeline.
func (r *redisRepository) Log(ctx context.Context, entry *AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	id, err := r.client.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return fmt.Errorf("allocating audit entry id: %w", err)
	}
	entry.ID = id

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, redisLogKey, data)
	pipe.LTrim(ctx, redisLogKey, 0, maxRetained-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing audit entry: %w", err)
	}
	return nil
}

func (r *redisRepository) List(ctx context.Context, limit, offset int) ([]AuditEntry, int, error) {
	total, err := r.client.LLen(ctx, redisLogKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("counting audit entries: %w", err)
	}
	if limit <= 0 || offset < 0 || int64(offset) >= total {
		return []AuditEntry{}, int(total), nil
	}
	raw, err := r.client.LRange(ctx, redisLogKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("listing audit entries: %w", err)
	}
	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, 0, err
	}
	return entries, int(total), nil
}

func (r *redisRepository) ListByEvent(ctx context.Context, eventID string, limit int) ([]AuditEntry, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	out := []AuditEntry{}
	for _, e := range all {
		if len(out) == limit {
			break
		}
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *redisRepository) Stats(ctx context.Context) (*ActivityStats, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(all), nil
}

func (r *redisRepository) all(ctx context.Context) ([]AuditEntry, error) {
	raw, err := r.client.LRange(ctx, redisLogKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return decodeEntries(raw)
}

func decodeEntries(raw []string) ([]AuditEntry, error) {
	entries := make([]AuditEntry, 0, len(raw))
	for _, s := range raw {
		var e AuditEntry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("decoding audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// summarize counts entries per action and finds the newest timestamp.
func summarize(entries []AuditEntry) *ActivityStats {
	stats := &ActivityStats{TotalEntries: len(entries), ByAction: map[string]int{}}
	for i := range entries {
		stats.ByAction[entries[i].Action]++
		if stats.LastActivity == nil || entries[i].CreatedAt.After(*stats.LastActivity) {
			t := entries[i].CreatedAt
			stats.LastActivity = &t
		}
	}
	return stats
}
