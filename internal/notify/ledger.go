package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReminderTTL is how long a sent reminder stays in the ledger
const ReminderTTL = 36 * time.Hour

// Ledger remembers which reminders were already sent
type Ledger interface {
	// MarkSent records key and reports false when it was already recorded
	MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Unmark releases key so a failed send is retried by the next run
	Unmark(ctx context.Context, keys ...string) error
}

// ReminderKey is the ledger key for one request reminder on one day
func ReminderKey(requestID fmt.Stringer, day time.Time) string {
	return fmt.Sprintf("gearguard:reminder:%s:%s", requestID, day.Format("2006-01-02"))
}

// RedisLedger stores ledger keys in Redis with SETNX
type RedisLedger struct {
	client *redis.Client
}

// NewRedisLedger creates a Redis backed ledger
func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// MarkSent sets the key if absent
func (l *RedisLedger) MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

// Unmark deletes the keys
func (l *RedisLedger) Unmark(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// MemoryLedger is a process-local ledger used when Redis is not configured
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: map[string]time.Time{}, now: time.Now}
}

// MarkSent records the key until ttl elapses
func (l *MemoryLedger) MarkSent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, expires := range l.entries {
		if !now.Before(expires) {
			delete(l.entries, k)
		}
	}
	if _, ok := l.entries[key]; ok {
		return false, nil
	}
	l.entries[key] = now.Add(ttl)
	return true, nil
}

// Unmark forgets the keys
func (l *MemoryLedger) Unmark(_ context.Context, keys ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, k := range keys {
		delete(l.entries, k)
	}
	return nil
}
