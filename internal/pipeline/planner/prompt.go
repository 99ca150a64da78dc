// internal/pipeline/planner/prompt.go
package planner

import (
	"fmt"
	"strings"

	"trip-planner/internal/models"
)

// buildPrompt assembles the full synthesis context for one call.
// Prompt construction is stateless: every invocation carries the
// complete context, there is no conversational memory between calls.
func buildPrompt(req models.TravelRequest, ranked []models.POIRecord, blocks []dayBlock, degraded bool) string {
	var parts []string

	parts = append(parts, "You are a senior travel planner. Create a day-wise itinerary for the trip below.")
	parts = append(parts, fmt.Sprintf("\nDestination: %s", req.Destination))
	parts = append(parts, fmt.Sprintf("Days: %d", req.Days))
	parts = append(parts, fmt.Sprintf("Budget tier: %s", req.BudgetTier))
	parts = append(parts, fmt.Sprintf("Language: respond ONLY in %s.", req.Language))

	if degraded || len(ranked) == 0 {
		parts = append(parts, "\nNo research results are available for this trip. Rely on your general knowledge of the destination. Do not fabricate specific prices or opening hours.")
	} else {
		parts = append(parts, "\nResearched points of interest, ranked for this budget (higher first):")
		for _, poi := range ranked {
			line := fmt.Sprintf("- [%s/%s] %s", poi.Category, poi.EstimatedCostTier, poi.Name)
			if poi.Description != "" {
				line += ": " + poi.Description
			}
			parts = append(parts, line)
		}

		parts = append(parts, "\nSuggested focus per day (vary categories, do not repeat the same focus two days in a row):")
		for _, block := range blocks {
			names := make([]string, 0, len(block.pois))
			for _, poi := range block.pois {
				names = append(names, poi.Name)
			}
			if len(names) > 0 {
				parts = append(parts, fmt.Sprintf("Day %d: %s", block.dayIndex, strings.Join(names, "; ")))
			}
		}
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Quote the researched points of interest where available, do not invent look-alikes")
	parts = append(parts, fmt.Sprintf("- Respect the %s budget tier when choosing between alternatives", req.BudgetTier))
	parts = append(parts, fmt.Sprintf("- Produce exactly %d days", req.Days))
	parts = append(parts, "- Use EXACTLY this output format, one block per day, then the summary:")
	parts = append(parts, "\nDAY 1:")
	parts = append(parts, "MORNING | <place or activity> | <short note>")
	parts = append(parts, "AFTERNOON | <place or activity> | <short note>")
	parts = append(parts, "EVENING | <place or activity> | <short note>")
	parts = append(parts, "DAY 2:")
	parts = append(parts, "...")
	parts = append(parts, "SUMMARY:")
	parts = append(parts, "<engaging narrative summary of the whole trip>")

	return strings.Join(parts, "\n")
}
