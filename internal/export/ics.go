// internal/export/ics.go
package export

import (
	"fmt"
	"strings"
	"time"

	"trip-planner/internal/models"
)

const icsDateLayout = "20060102"

// slot start hours for the all-day-agnostic calendar entries
var slotStartHour = map[models.TimeSlot]int{
	models.SlotMorning:   9,
	models.SlotAfternoon: 14,
	models.SlotEvening:   19,
}

// WriteICS renders the trip as an RFC 5545 calendar, one event per
// plan item, anchored on the day the itinerary was generated. Lines
// use CRLF endings as the format requires.
func WriteICS(entry *models.TripHistoryEntry) []byte {
	tripStart := entry.Itinerary.GeneratedAt.UTC().Truncate(24 * time.Hour)
	stamp := entry.Itinerary.GeneratedAt.UTC().Format("20060102T150405Z")

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//trip-planner//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")

	for _, day := range entry.Itinerary.DayPlans {
		date := tripStart.AddDate(0, 0, day.DayIndex-1)
		for i, item := range day.Items {
			start := date.Add(time.Duration(slotStartHour[item.TimeSlot]) * time.Hour)
			end := start.Add(3 * time.Hour)

			writeLine(&b, "BEGIN:VEVENT")
			writeLine(&b, fmt.Sprintf("UID:%s-d%d-%d@trip-planner", entry.ID, day.DayIndex, i))
			writeLine(&b, "DTSTAMP:"+stamp)
			writeLine(&b, "DTSTART:"+start.Format("20060102T150405Z"))
			writeLine(&b, "DTEND:"+end.Format("20060102T150405Z"))
			writeLine(&b, "SUMMARY:"+escapeText(item.POIRef))
			if item.Note != "" {
				writeLine(&b, "DESCRIPTION:"+escapeText(item.Note))
			}
			writeLine(&b, "LOCATION:"+escapeText(entry.Request.Destination))
			writeLine(&b, "END:VEVENT")
		}
	}

	writeLine(&b, "END:VCALENDAR")
	return []byte(b.String())
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeText escapes the characters RFC 5545 reserves in TEXT values.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}
