// internal/pipeline/history/redis_test.go
package history

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	entry, err := store.Record(ctx, sampleRequest("Porto"), sampleItinerary("Porto"))
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)

	got, err := store.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "Porto", got.Request.Destination)
	assert.Equal(t, entry.Itinerary.DayPlans, got.Itinerary.DayPlans)
}

func TestRedisStore_ListMostRecentFirst(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	for _, destination := range []string{"Porto", "Madrid", "Rome"} {
		_, err := store.Record(ctx, sampleRequest(destination), sampleItinerary(destination))
		require.NoError(t, err)
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Rome", entries[0].Request.Destination)
	assert.Equal(t, "Porto", entries[2].Request.Destination)
}

func TestRedisStore_GetUnknownID(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)

	got, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func TestRedisStore_SessionExpiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	entry, err := store.Record(ctx, sampleRequest("Porto"), sampleItinerary("Porto"))
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRedisStore_ExpiredEntriesSkippedInList(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	stale, err := store.Record(ctx, sampleRequest("Porto"), sampleItinerary("Porto"))
	require.NoError(t, err)

	// Expire only the entry payload; the index still references it.
	mr.Del(store.entryKey(stale.ID))

	fresh, err := store.Record(ctx, sampleRequest("Rome"), sampleItinerary("Rome"))
	require.NoError(t, err)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fresh.ID, entries[0].ID)
}
