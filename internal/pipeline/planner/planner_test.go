// internal/pipeline/planner/planner_test.go
package planner

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/common/logger"
	"trip-planner/internal/genai"
	"trip-planner/internal/models"
)

// ==========================
// Stub Generator
// ==========================

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt, _ string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func testRequest(days int) models.TravelRequest {
	return models.TravelRequest{
		Destination: "Lisbon",
		Days:        days,
		BudgetTier:  models.BudgetMedium,
		Language:    "English",
	}
}

func poi(name string, category models.QueryIntent, cost models.CostTier) models.POIRecord {
	return models.POIRecord{
		CanonicalKey:      models.CanonicalKey(name, category),
		Name:              name,
		Category:          category,
		EstimatedCostTier: cost,
	}
}

func newTestPlanner(t *testing.T, g genai.Generator) *Planner {
	return NewPlanner(LoadConfig(), g, logger.NewTestLogger(t))
}

const threeDayResponse = `DAY 1:
MORNING | Alfama District | Wander the old town
AFTERNOON | Castle of Sao Jorge | Panoramic views
EVENING | Fado house | Live music over dinner
DAY 2:
MORNING | Belem Tower | Riverside landmark
EVENING | Time Out Market | Dinner stalls
DAY 3:
MORNING | Sintra day trip | Palaces and gardens
SUMMARY:
Three days balancing history, food and a day trip.`

// ==========================
// Core Functionality Tests
// ==========================

func TestPlan_ParsesGeneratedItinerary(t *testing.T) {
	gen := &stubGenerator{response: threeDayResponse}
	itinerary, err := newTestPlanner(t, gen).Plan(context.Background(), testRequest(3), nil, false)
	require.NoError(t, err)

	require.Len(t, itinerary.DayPlans, 3)
	assert.Equal(t, 1, itinerary.DayPlans[0].DayIndex)
	require.Len(t, itinerary.DayPlans[0].Items, 3)
	assert.Equal(t, "Alfama District", itinerary.DayPlans[0].Items[0].POIRef)
	assert.Equal(t, models.SlotMorning, itinerary.DayPlans[0].Items[0].TimeSlot)
	assert.Equal(t, "Wander the old town", itinerary.DayPlans[0].Items[0].Note)
	assert.Equal(t, "Three days balancing history, food and a day trip.", itinerary.SummaryText)
	assert.False(t, itinerary.Degraded)
	assert.False(t, itinerary.GeneratedAt.IsZero())
}

func TestPlan_PadsMissingDays(t *testing.T) {
	gen := &stubGenerator{response: threeDayResponse}
	itinerary, err := newTestPlanner(t, gen).Plan(context.Background(), testRequest(5), nil, false)
	require.NoError(t, err)

	require.Len(t, itinerary.DayPlans, 5)
	for i, day := range itinerary.DayPlans {
		assert.Equal(t, i+1, day.DayIndex)
		assert.NotEmpty(t, day.Items)
	}
	assert.Equal(t, PlaceholderDayNote, itinerary.DayPlans[3].Items[0].POIRef)
	assert.Equal(t, PlaceholderDayNote, itinerary.DayPlans[4].Items[0].POIRef)
}

func TestPlan_TruncatesExtraDays(t *testing.T) {
	gen := &stubGenerator{response: threeDayResponse}
	itinerary, err := newTestPlanner(t, gen).Plan(context.Background(), testRequest(2), nil, false)
	require.NoError(t, err)

	require.Len(t, itinerary.DayPlans, 2)
	assert.Equal(t, 1, itinerary.DayPlans[0].DayIndex)
	assert.Equal(t, 2, itinerary.DayPlans[1].DayIndex)
}

func TestPlan_DegradedPrependsAdvisory(t *testing.T) {
	gen := &stubGenerator{response: threeDayResponse}
	itinerary, err := newTestPlanner(t, gen).Plan(context.Background(), testRequest(3), nil, true)
	require.NoError(t, err)

	assert.True(t, itinerary.Degraded)
	assert.True(t, strings.HasPrefix(itinerary.SummaryText, DegradedAdvisory))
	assert.Contains(t, itinerary.SummaryText, "Three days balancing")
}

func TestPlan_GenerationFailureIsFatal(t *testing.T) {
	gen := &stubGenerator{err: genai.ErrGenerationFailed}
	itinerary, err := newTestPlanner(t, gen).Plan(context.Background(), testRequest(3), nil, false)

	assert.Nil(t, itinerary)
	assert.ErrorIs(t, err, genai.ErrGenerationFailed)
}

func TestPlan_TimeoutPropagates(t *testing.T) {
	gen := &stubGenerator{err: genai.ErrGenerationTimeout}
	_, err := newTestPlanner(t, gen).Plan(context.Background(), testRequest(3), nil, false)
	assert.ErrorIs(t, err, genai.ErrGenerationTimeout)
}

// ==========================
// Prompt Construction Tests
// ==========================

func TestPlan_PromptCarriesRequestAndPOIs(t *testing.T) {
	gen := &stubGenerator{response: threeDayResponse}
	pois := []models.POIRecord{
		poi("Belem Tower", models.IntentActivity, models.CostLow),
		poi("Time Out Market", models.IntentDining, models.CostMedium),
	}

	req := testRequest(3)
	req.Language = "Portuguese"
	_, err := newTestPlanner(t, gen).Plan(context.Background(), req, pois, false)
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Lisbon")
	assert.Contains(t, prompt, "Portuguese")
	assert.Contains(t, prompt, "Belem Tower")
	assert.Contains(t, prompt, "Time Out Market")
	assert.Contains(t, prompt, "DAY 1:")
	assert.Contains(t, prompt, "SUMMARY:")
}

func TestPlan_DegradedPromptUsesGeneralKnowledge(t *testing.T) {
	gen := &stubGenerator{response: threeDayResponse}
	_, err := newTestPlanner(t, gen).Plan(context.Background(), testRequest(3), nil, true)
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "general knowledge")
	assert.NotContains(t, gen.prompts[0], "Researched points of interest")
}

func TestPlan_PromptPOICap(t *testing.T) {
	gen := &stubGenerator{response: threeDayResponse}
	planner := NewPlanner(&Config{MaxPromptPOIs: 2}, gen, logger.NewTestLogger(t))

	pois := []models.POIRecord{
		poi("Alpha", models.IntentActivity, models.CostUnknown),
		poi("Beta", models.IntentActivity, models.CostUnknown),
		poi("Gamma", models.IntentActivity, models.CostUnknown),
	}

	_, err := planner.Plan(context.Background(), testRequest(3), pois, false)
	require.NoError(t, err)
	assert.NotContains(t, gen.prompts[0], "Gamma")
}

// ==========================
// Ranking Tests
// ==========================

func TestRankPOIs_LowBudgetPrefersCheap(t *testing.T) {
	pois := []models.POIRecord{
		poi("Pricey", models.IntentDining, models.CostHigh),
		poi("Midway", models.IntentDining, models.CostMedium),
		poi("Bargain", models.IntentDining, models.CostLow),
		poi("Gratis", models.IntentActivity, models.CostFree),
	}

	ranked := rankPOIs(pois, models.BudgetLow)
	assert.Equal(t, "Gratis", ranked[0].Name)
	assert.Equal(t, "Bargain", ranked[1].Name)
	assert.Equal(t, "Pricey", ranked[3].Name)
}

func TestRankPOIs_HighBudgetPrefersPremium(t *testing.T) {
	pois := []models.POIRecord{
		poi("Gratis", models.IntentActivity, models.CostFree),
		poi("Pricey", models.IntentDining, models.CostHigh),
	}

	ranked := rankPOIs(pois, models.BudgetHigh)
	assert.Equal(t, "Pricey", ranked[0].Name)
}

func TestRankPOIs_BiasNeverFilters(t *testing.T) {
	pois := []models.POIRecord{
		poi("Pricey", models.IntentDining, models.CostHigh),
		poi("Bargain", models.IntentDining, models.CostLow),
	}

	ranked := rankPOIs(pois, models.BudgetLow)
	assert.Len(t, ranked, 2, "ranking must keep every candidate")
}

func TestRankPOIs_MediumBudgetIsStable(t *testing.T) {
	pois := []models.POIRecord{
		poi("First", models.IntentDining, models.CostHigh),
		poi("Second", models.IntentDining, models.CostLow),
		poi("Third", models.IntentActivity, models.CostFree),
	}

	ranked := rankPOIs(pois, models.BudgetMedium)
	assert.Equal(t, "First", ranked[0].Name)
	assert.Equal(t, "Second", ranked[1].Name)
	assert.Equal(t, "Third", ranked[2].Name)
}

// ==========================
// Day Block Tests
// ==========================

func TestBuildDayBlocks_RotatesLeadCategory(t *testing.T) {
	pois := []models.POIRecord{
		poi("Walk", models.IntentActivity, models.CostUnknown),
		poi("Hike", models.IntentActivity, models.CostUnknown),
		poi("Lunch", models.IntentDining, models.CostUnknown),
		poi("Dinner", models.IntentDining, models.CostUnknown),
	}

	blocks := buildDayBlocks(2, pois)
	require.Len(t, blocks, 2)
	require.NotEmpty(t, blocks[0].pois)
	require.NotEmpty(t, blocks[1].pois)
	assert.Equal(t, models.IntentActivity, blocks[0].pois[0].Category)
	assert.Equal(t, models.IntentDining, blocks[1].pois[0].Category)
}

func TestBuildDayBlocks_CapsThreePerDay(t *testing.T) {
	var pois []models.POIRecord
	for _, category := range categoryRotation {
		pois = append(pois,
			poi("a "+string(category), category, models.CostUnknown),
			poi("b "+string(category), category, models.CostUnknown),
		)
	}

	blocks := buildDayBlocks(1, pois)
	require.Len(t, blocks, 1)
	assert.LessOrEqual(t, len(blocks[0].pois), 3)
}

// ==========================
// Parser Tests
// ==========================

func TestParseResponse_SkipsMalformedLines(t *testing.T) {
	text := strings.Join([]string{
		"DAY 1:",
		"MORNING | Museum | Quiet start",
		"this line is noise",
		"BRUNCH | Not a slot | skipped",
		"EVENING | Riverside | Sunset walk",
		"SUMMARY:",
		"A short day.",
	}, "\n")

	days, summary := parseResponse(text)
	require.Len(t, days, 1)
	require.Len(t, days[0].Items, 2)
	assert.Equal(t, "Museum", days[0].Items[0].POIRef)
	assert.Equal(t, "Riverside", days[0].Items[1].POIRef)
	assert.Equal(t, "A short day.", summary)
}

func TestParseResponse_CaseInsensitiveMarkers(t *testing.T) {
	text := strings.Join([]string{
		"Day 1:",
		"morning | Market | Fresh fruit",
		"Summary: all done",
	}, "\n")

	days, summary := parseResponse(text)
	require.Len(t, days, 1)
	require.Len(t, days[0].Items, 1)
	assert.Equal(t, models.SlotMorning, days[0].Items[0].TimeSlot)
	assert.Equal(t, "all done", summary)
}

func TestParseResponse_NonNumericDayHeader(t *testing.T) {
	text := "DAY ONE:\nMORNING | Park | stroll"
	days, _ := parseResponse(text)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].DayIndex)
}

func TestParseResponse_EmptyInput(t *testing.T) {
	days, summary := parseResponse("")
	assert.Empty(t, days)
	assert.Empty(t, summary)
}

// ==========================
// Normalization Tests
// ==========================

func TestNormalizeDayCount_FillsEmptyDays(t *testing.T) {
	plans := []models.DayPlan{
		{DayIndex: 7, Items: []models.PlanItem{{POIRef: "x", TimeSlot: models.SlotMorning}}},
		{DayIndex: 9},
	}

	normalized := normalizeDayCount(plans, 3)
	require.Len(t, normalized, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{normalized[0].DayIndex, normalized[1].DayIndex, normalized[2].DayIndex})
	assert.Equal(t, PlaceholderDayNote, normalized[1].Items[0].POIRef)
	assert.Equal(t, PlaceholderDayNote, normalized[2].Items[0].POIRef)
}
