// internal/pipeline/planner/planner.go
package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"trip-planner/internal/common/logger"
	"trip-planner/internal/genai"
	"trip-planner/internal/models"
)

const (
	// DegradedAdvisory is prepended to the summary when the itinerary
	// was synthesized without research context.
	DegradedAdvisory = "Note: live research was unavailable for this trip; suggestions are based on general destination knowledge."

	// PlaceholderDayNote fills days the generator did not return.
	PlaceholderDayNote = "Free day - customize your own activities"
)

// Planner synthesizes a day-wise itinerary from researched POIs and
// request constraints via the text-generation collaborator.
type Planner struct {
	config    *Config
	generator genai.Generator
	logger    logger.Logger
}

func NewPlanner(config *Config, generator genai.Generator, log logger.Logger) *Planner {
	return &Planner{
		config:    config,
		generator: generator,
		logger:    log.WithFields(map[string]interface{}{"stage": "planner"}),
	}
}

// Plan builds the synthesis prompt, runs one generation call and
// normalizes the result into a valid Itinerary. Generation errors are
// fatal to the run; everything else is repaired locally.
func (p *Planner) Plan(ctx context.Context, req models.TravelRequest, pois []models.POIRecord, degraded bool) (*models.Itinerary, error) {
	start := time.Now()

	ranked := rankPOIs(pois, req.BudgetTier)
	if len(ranked) > p.config.MaxPromptPOIs {
		ranked = ranked[:p.config.MaxPromptPOIs]
	}

	blocks := buildDayBlocks(req.Days, ranked)
	prompt := buildPrompt(req, ranked, blocks, degraded)

	text, err := p.generator.Generate(ctx, prompt, req.Language)
	if err != nil {
		return nil, fmt.Errorf("itinerary generation: %w", err)
	}

	dayPlans, summary := parseResponse(text)
	dayPlans = normalizeDayCount(dayPlans, req.Days)

	if degraded {
		summary = DegradedAdvisory + "\n\n" + summary
	}

	p.logger.Info("plan synthesized", map[string]interface{}{
		"days":       len(dayPlans),
		"pois":       len(ranked),
		"degraded":   degraded,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &models.Itinerary{
		Request:     req,
		DayPlans:    dayPlans,
		SummaryText: strings.TrimSpace(summary),
		Degraded:    degraded,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// rankPOIs orders candidates by a budget-biased weight. The budget
// tier is a ranking bias, never a hard filter: a low-budget trip still
// keeps high-cost POIs, they just sort last.
func rankPOIs(pois []models.POIRecord, tier models.BudgetTier) []models.POIRecord {
	ranked := make([]models.POIRecord, len(pois))
	copy(ranked, pois)

	sort.SliceStable(ranked, func(i, j int) bool {
		return costWeight(ranked[i].EstimatedCostTier, tier) > costWeight(ranked[j].EstimatedCostTier, tier)
	})

	return ranked
}

func costWeight(cost models.CostTier, tier models.BudgetTier) float64 {
	switch tier {
	case models.BudgetLow:
		switch cost {
		case models.CostFree:
			return 1.3
		case models.CostLow:
			return 1.2
		case models.CostMedium:
			return 0.8
		case models.CostHigh:
			return 0.4
		}
	case models.BudgetHigh:
		switch cost {
		case models.CostHigh:
			return 1.3
		case models.CostMedium:
			return 1.1
		case models.CostLow:
			return 0.9
		case models.CostFree:
			return 0.8
		}
	}
	return 1.0
}

// dayBlock is the per-day candidate context handed to the generator.
type dayBlock struct {
	dayIndex int
	pois     []models.POIRecord
}

// categoryRotation rotates the lead category between days so two
// consecutive days are not dominated by the same category when
// alternatives exist.
var categoryRotation = []models.QueryIntent{
	models.IntentActivity,
	models.IntentDining,
	models.IntentTransport,
	models.IntentAccommodation,
}

// buildDayBlocks deals ranked POIs into one block per day, rotating
// the category preference day over day for variety.
func buildDayBlocks(days int, ranked []models.POIRecord) []dayBlock {
	byCategory := make(map[models.QueryIntent][]models.POIRecord)
	for _, poi := range ranked {
		byCategory[poi.Category] = append(byCategory[poi.Category], poi)
	}

	next := make(map[models.QueryIntent]int)
	blocks := make([]dayBlock, 0, days)

	for day := 1; day <= days; day++ {
		block := dayBlock{dayIndex: day}
		// Up to three candidates per day, starting from a rotated
		// category so day N+1 leads with something different.
		for offset := 0; offset < len(categoryRotation) && len(block.pois) < 3; offset++ {
			category := categoryRotation[(day-1+offset)%len(categoryRotation)]
			pool := byCategory[category]
			if next[category] < len(pool) {
				block.pois = append(block.pois, pool[next[category]])
				next[category]++
			}
		}
		blocks = append(blocks, block)
	}

	return blocks
}

// normalizeDayCount repairs a mismatched generator response: extra
// days are truncated, missing days padded with a placeholder, and
// indexes rewritten to the contiguous range 1..days.
func normalizeDayCount(dayPlans []models.DayPlan, days int) []models.DayPlan {
	if len(dayPlans) > days {
		dayPlans = dayPlans[:days]
	}
	for len(dayPlans) < days {
		dayPlans = append(dayPlans, models.DayPlan{
			Items: []models.PlanItem{{
				POIRef:   PlaceholderDayNote,
				TimeSlot: models.SlotMorning,
			}},
		})
	}
	for i := range dayPlans {
		dayPlans[i].DayIndex = i + 1
		if len(dayPlans[i].Items) == 0 {
			dayPlans[i].Items = []models.PlanItem{{
				POIRef:   PlaceholderDayNote,
				TimeSlot: models.SlotMorning,
			}}
		}
	}
	return dayPlans
}
