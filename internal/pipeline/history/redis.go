// internal/pipeline/history/redis.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"trip-planner/internal/models"
)

const (
	historyIndexKey = "trip:history:index"
	historyEntryKey = "trip:history:entry:%s"
)

// RedisStore keeps trip history in Redis with a session TTL, so a
// planning session restarted on another instance still sees its
// recent trips. The index and every entry share the same TTL and
// expire together.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed history store. ttl bounds how
// long a session's history survives; zero means no expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Record appends a new entry. The entry id is pushed onto the head of
// the index list so List reads back most recent first without sorting.
func (s *RedisStore) Record(ctx context.Context, req models.TravelRequest, itinerary models.Itinerary) (*models.TripHistoryEntry, error) {
	entry := models.TripHistoryEntry{
		ID:        uuid.New().String(),
		Request:   req,
		Itinerary: itinerary,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal history entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.entryKey(entry.ID), payload, s.ttl)
	pipe.LPush(ctx, historyIndexKey, entry.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, historyIndexKey, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("record history entry: %w", err)
	}

	return &entry, nil
}

// List returns all live entries, most recent first. Ids whose entry
// key has already expired are skipped.
func (s *RedisStore) List(ctx context.Context) ([]models.TripHistoryEntry, error) {
	ids, err := s.client.LRange(ctx, historyIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history index: %w", err)
	}

	entries := make([]models.TripHistoryEntry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Get returns the entry with the given id, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (*models.TripHistoryEntry, error) {
	payload, err := s.client.Get(ctx, s.entryKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read history entry: %w", err)
	}

	var entry models.TripHistoryEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, fmt.Errorf("decode history entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) entryKey(id string) string {
	return fmt.Sprintf(historyEntryKey, id)
}
