// internal/pipeline/history/memory.go
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"trip-planner/internal/models"
)

// MemoryStore keeps trip history in process memory. It is the default
// backend; history lives for the lifetime of the process only.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []models.TripHistoryEntry
	byID    map[string]int
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]int),
	}
}

// Record appends a new entry. The stored itinerary is a value copy, so
// later mutation of the caller's struct cannot alter recorded history.
func (s *MemoryStore) Record(_ context.Context, req models.TravelRequest, itinerary models.Itinerary) (*models.TripHistoryEntry, error) {
	entry := models.TripHistoryEntry{
		ID:        uuid.New().String(),
		Request:   req,
		Itinerary: itinerary,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.byID[entry.ID] = len(s.entries)
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	return &entry, nil
}

// List returns all entries, most recent first.
func (s *MemoryStore) List(_ context.Context) ([]models.TripHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TripHistoryEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Get returns the entry with the given id, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.TripHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	entry := s.entries[idx]
	return &entry, nil
}
