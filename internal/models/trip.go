// internal/models/trip.go
package models

import "time"

// BudgetTier is the coarse cost preference used to bias, not filter,
// POI selection.
type BudgetTier string

const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

// Valid reports whether the tier is one of the known values.
func (b BudgetTier) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// TimeSlot identifies the part of the day an itinerary item occupies.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// Trip length bounds enforced at the request boundary.
const (
	MinTripDays = 1
	MaxTripDays = 30
)

// TravelRequest is the immutable input for a single pipeline run.
type TravelRequest struct {
	Destination string     `json:"destination"`
	Days        int        `json:"days"`
	BudgetTier  BudgetTier `json:"budgetTier"`
	Language    string     `json:"language"`
}

// PlanItem is a single scheduled activity within a day.
// POIRef carries a POI canonical key when the item came out of
// research, or an inline summary otherwise.
type PlanItem struct {
	POIRef   string   `json:"poiRef"`
	TimeSlot TimeSlot `json:"timeSlot"`
	Note     string   `json:"note,omitempty"`
}

// DayPlan holds the ordered items for one day of the trip.
// DayIndex values are contiguous 1..Days across an Itinerary.
type DayPlan struct {
	DayIndex int        `json:"dayIndex"`
	Items    []PlanItem `json:"items"`
}

// Itinerary is the finalized output of a pipeline run.
type Itinerary struct {
	Request     TravelRequest `json:"request"`
	DayPlans    []DayPlan     `json:"dayPlans"`
	SummaryText string        `json:"summaryText"`
	Degraded    bool          `json:"degraded"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// TripHistoryEntry is one append-only ledger entry. Entries are never
// mutated; re-generation appends a new entry for the same request.
type TripHistoryEntry struct {
	ID        string        `json:"id"`
	Request   TravelRequest `json:"request"`
	Itinerary Itinerary     `json:"itinerary"`
	CreatedAt time.Time     `json:"createdAt"`
}
