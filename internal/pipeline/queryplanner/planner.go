// internal/pipeline/queryplanner/planner.go
package queryplanner

import (
	"errors"
	"fmt"
	"strings"

	"trip-planner/internal/models"
)

var (
	ErrInvalidRequest = errors.New("INVALID_REQUEST")
)

// intentOrder fixes the query emission order so generation is
// deterministic for a given request.
var intentOrder = []models.QueryIntent{
	models.IntentActivity,
	models.IntentDining,
	models.IntentAccommodation,
	models.IntentTransport,
}

// intentThemes holds the sub-themes per intent, most general first.
// Longer trips pull in more themes for broader coverage.
var intentThemes = map[models.QueryIntent][]string{
	models.IntentActivity: {
		"things to do",
		"top attractions",
		"hidden gems",
		"day trips",
	},
	models.IntentDining: {
		"best restaurants",
		"local food",
		"cafes and street food",
		"fine dining",
	},
	models.IntentAccommodation: {
		"hotels",
		"guesthouses and hostels",
		"boutique hotels",
		"apartment rentals",
	},
	models.IntentTransport: {
		"getting around",
		"public transport",
		"airport transfer",
		"car rental",
	},
}

// Planner derives a bounded set of search queries from trip
// parameters.
type Planner struct {
	config *Config
}

func NewPlanner(config *Config) *Planner {
	return &Planner{config: config}
}

// Generate produces the ordered query set for a request. Pure and
// deterministic: the same request always yields the same queries.
func (p *Planner) Generate(req models.TravelRequest) ([]models.SearchQuery, error) {
	if strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is empty", ErrInvalidRequest)
	}
	if req.Days < models.MinTripDays {
		return nil, fmt.Errorf("%w: days must be >= %d", ErrInvalidRequest, models.MinTripDays)
	}

	maxQueries := p.config.MaxQueries
	if hardCap := 4 * len(intentOrder); hardCap < maxQueries {
		maxQueries = hardCap
	}

	// More days, broader coverage: one extra sub-theme per three days.
	themesPerIntent := 1 + req.Days/3
	if themesPerIntent > 4 {
		themesPerIntent = 4
	}

	queries := make([]models.SearchQuery, 0, maxQueries)
	for _, intent := range intentOrder {
		themes := intentThemes[intent]
		for i := 0; i < themesPerIntent && i < len(themes); i++ {
			if len(queries) >= maxQueries {
				return queries, nil
			}
			queries = append(queries, models.SearchQuery{
				Text:   p.queryText(req, intent, themes[i]),
				Intent: intent,
			})
		}
	}

	return queries, nil
}

func (p *Planner) queryText(req models.TravelRequest, intent models.QueryIntent, theme string) string {
	parts := []string{}

	switch req.BudgetTier {
	case models.BudgetLow:
		parts = append(parts, "budget")
	case models.BudgetHigh:
		parts = append(parts, "luxury")
	}

	parts = append(parts, theme, "in", strings.TrimSpace(req.Destination))

	// Language only matters where results are read by the traveler,
	// not for accommodation or transport pricing pages.
	if req.Language != "" && (intent == models.IntentActivity || intent == models.IntentDining) {
		parts = append(parts, "in", req.Language)
	}

	return strings.Join(parts, " ")
}
