// internal/pipeline/history/store.go
package history

import (
	"context"
	"errors"

	"trip-planner/internal/models"
)

// ErrNotFound is returned when no history entry matches the given id.
var ErrNotFound = errors.New("NOT_FOUND")

// Store is an append-only ledger of completed pipeline runs. Entries
// are immutable once recorded; re-generating a trip appends a new
// entry rather than replacing the old one.
type Store interface {
	// Record appends a new entry for the given request and itinerary
	// and returns it with its assigned id.
	Record(ctx context.Context, req models.TravelRequest, itinerary models.Itinerary) (*models.TripHistoryEntry, error)

	// List returns all entries, most recent first.
	List(ctx context.Context) ([]models.TripHistoryEntry, error)

	// Get returns the entry with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.TripHistoryEntry, error)
}
