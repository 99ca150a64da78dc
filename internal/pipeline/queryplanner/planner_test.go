// internal/pipeline/queryplanner/planner_test.go
package queryplanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/models"
)

func validRequest() models.TravelRequest {
	return models.TravelRequest{
		Destination: "Lisbon",
		Days:        5,
		BudgetTier:  models.BudgetMedium,
		Language:    "English",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestGenerate_Deterministic(t *testing.T) {
	planner := NewPlanner(LoadConfig())
	req := validRequest()

	first, err := planner.Generate(req)
	require.NoError(t, err)
	second, err := planner.Generate(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_BoundedQueryCount(t *testing.T) {
	planner := NewPlanner(LoadConfig())

	for days := models.MinTripDays; days <= models.MaxTripDays; days++ {
		req := validRequest()
		req.Days = days

		queries, err := planner.Generate(req)
		require.NoError(t, err)
		assert.NotEmpty(t, queries)
		assert.LessOrEqual(t, len(queries), 20, "days=%d", days)
	}
}

func TestGenerate_ConfiguredCapRespected(t *testing.T) {
	planner := NewPlanner(&Config{MaxQueries: 3})
	req := validRequest()
	req.Days = 30

	queries, err := planner.Generate(req)
	require.NoError(t, err)
	assert.Len(t, queries, 3)
}

func TestGenerate_LongerTripsBroaderCoverage(t *testing.T) {
	planner := NewPlanner(LoadConfig())

	short := validRequest()
	short.Days = 1
	long := validRequest()
	long.Days = 14

	shortQueries, err := planner.Generate(short)
	require.NoError(t, err)
	longQueries, err := planner.Generate(long)
	require.NoError(t, err)

	assert.Greater(t, len(longQueries), len(shortQueries))
}

func TestGenerate_CoversAllIntents(t *testing.T) {
	planner := NewPlanner(LoadConfig())

	queries, err := planner.Generate(validRequest())
	require.NoError(t, err)

	seen := make(map[models.QueryIntent]bool)
	for _, q := range queries {
		seen[q.Intent] = true
	}
	for _, intent := range intentOrder {
		assert.True(t, seen[intent], "missing intent %s", intent)
	}
}

// ==========================
// Query Text Tests
// ==========================

func TestGenerate_BudgetQualifier(t *testing.T) {
	tests := []struct {
		name   string
		tier   models.BudgetTier
		prefix string
	}{
		{"low tier gets budget prefix", models.BudgetLow, "budget "},
		{"high tier gets luxury prefix", models.BudgetHigh, "luxury "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := NewPlanner(LoadConfig())
			req := validRequest()
			req.BudgetTier = tt.tier

			queries, err := planner.Generate(req)
			require.NoError(t, err)
			for _, q := range queries {
				assert.True(t, strings.HasPrefix(q.Text, tt.prefix), "query %q", q.Text)
			}
		})
	}
}

func TestGenerate_MediumTierHasNoQualifier(t *testing.T) {
	planner := NewPlanner(LoadConfig())

	queries, err := planner.Generate(validRequest())
	require.NoError(t, err)
	for _, q := range queries {
		assert.False(t, strings.HasPrefix(q.Text, "budget "), "query %q", q.Text)
		assert.False(t, strings.HasPrefix(q.Text, "luxury "), "query %q", q.Text)
	}
}

func TestGenerate_LanguageOnlyOnTravelerFacingIntents(t *testing.T) {
	planner := NewPlanner(LoadConfig())
	req := validRequest()
	req.Days = 30 // all themes, all intents
	req.Language = "Portuguese"

	queries, err := planner.Generate(req)
	require.NoError(t, err)

	for _, q := range queries {
		hasLanguage := strings.Contains(q.Text, "Portuguese")
		switch q.Intent {
		case models.IntentActivity, models.IntentDining:
			assert.True(t, hasLanguage, "query %q", q.Text)
		default:
			assert.False(t, hasLanguage, "query %q", q.Text)
		}
	}
}

func TestGenerate_QueriesContainDestination(t *testing.T) {
	planner := NewPlanner(LoadConfig())
	req := validRequest()
	req.Destination = "Kyoto"

	queries, err := planner.Generate(req)
	require.NoError(t, err)
	for _, q := range queries {
		assert.Contains(t, q.Text, "Kyoto")
	}
}

// ==========================
// Validation Tests
// ==========================

func TestGenerate_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*models.TravelRequest)
	}{
		{"empty destination", func(r *models.TravelRequest) { r.Destination = "" }},
		{"whitespace destination", func(r *models.TravelRequest) { r.Destination = "   " }},
		{"zero days", func(r *models.TravelRequest) { r.Days = 0 }},
		{"negative days", func(r *models.TravelRequest) { r.Days = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := NewPlanner(LoadConfig())
			req := validRequest()
			tt.mut(&req)

			queries, err := planner.Generate(req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Nil(t, queries)
		})
	}
}
