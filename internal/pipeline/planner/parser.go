// internal/pipeline/planner/parser.go
package planner

import (
	"strconv"
	"strings"

	"trip-planner/internal/models"
)

var slotByLabel = map[string]models.TimeSlot{
	"MORNING":   models.SlotMorning,
	"AFTERNOON": models.SlotAfternoon,
	"EVENING":   models.SlotEvening,
}

// parseResponse extracts day plans and the trailing summary from the
// generated text. The format is line oriented: "DAY <n>:" headers,
// "SLOT | ref | note" entries, and a "SUMMARY:" section. Malformed
// lines are skipped rather than failing the run; day-count mismatches
// are fixed up later by normalizeDayCount.
func parseResponse(content string) ([]models.DayPlan, string) {
	var days []models.DayPlan
	var current *models.DayPlan
	var summary []string
	inSummary := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)

		if inSummary {
			summary = append(summary, line)
			continue
		}

		if strings.HasPrefix(upper, "SUMMARY") {
			if rest := strings.TrimSpace(trimAfterColon(line)); rest != "" {
				summary = append(summary, rest)
			}
			inSummary = true
			continue
		}

		if strings.HasPrefix(upper, "DAY ") {
			if current != nil {
				days = append(days, *current)
			}
			current = &models.DayPlan{DayIndex: parseDayIndex(upper, len(days)+1)}
			continue
		}

		if item, ok := parseSlotLine(line); ok && current != nil {
			current.Items = append(current.Items, item)
		}
	}

	if current != nil {
		days = append(days, *current)
	}

	return days, strings.Join(summary, " ")
}

func parseSlotLine(line string) (models.PlanItem, bool) {
	fields := strings.SplitN(line, "|", 3)
	if len(fields) < 2 {
		return models.PlanItem{}, false
	}

	label := strings.ToUpper(strings.TrimSpace(fields[0]))
	slot, ok := slotByLabel[label]
	if !ok {
		return models.PlanItem{}, false
	}

	ref := strings.TrimSpace(fields[1])
	if ref == "" {
		return models.PlanItem{}, false
	}

	note := ""
	if len(fields) == 3 {
		note = strings.TrimSpace(fields[2])
	}

	return models.PlanItem{POIRef: ref, TimeSlot: slot, Note: note}, true
}

// parseDayIndex pulls the number out of a "DAY <n>:" header, falling
// back to the positional index when the model writes "DAY ONE:" or
// similar.
func parseDayIndex(upper string, fallback int) int {
	rest := strings.TrimPrefix(upper, "DAY ")
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ":")
	if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func trimAfterColon(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return line[idx+1:]
	}
	return ""
}
