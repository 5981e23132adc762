package summary

import (
	"fmt"
	"time"

	"github.com/pcordone/dataToSummaryCSV/internal/models"
)

// InvalidDate is written for a time of day that could not be computed
const InvalidDate = "Invalid Date"

// FormatInstant writes i as an ISO 8601 UTC date-time that omits trailing
// zero components: "1970-01-01T14:00Z", "1970-01-01T14:00:30Z",
// "1970-01-01T14:00:30.250Z", or just "1970-01-01" at midnight.
func FormatInstant(i models.Instant) string {
	if !i.Valid {
		return InvalidDate
	}
	t := i.Time.UTC()
	date := formatYear(t.Year()) + t.Format("-01-02")

	ms := t.Nanosecond() / int(time.Millisecond)
	switch {
	case ms != 0:
		return date + fmt.Sprintf("T%02d:%02d:%02d.%03dZ", t.Hour(), t.Minute(), t.Second(), ms)
	case t.Second() != 0:
		return date + fmt.Sprintf("T%02d:%02d:%02dZ", t.Hour(), t.Minute(), t.Second())
	case t.Minute() != 0 || t.Hour() != 0:
		return date + fmt.Sprintf("T%02d:%02dZ", t.Hour(), t.Minute())
	}
	return date
}

// formatYear uses the expanded +YYYYYY / -YYYYYY form outside 0..9999.
func formatYear(year int) string {
	switch {
	case year < 0:
		return fmt.Sprintf("-%06d", -year)
	case year > 9999:
		return fmt.Sprintf("+%06d", year)
	}
	return fmt.Sprintf("%04d", year)
}

var instantLayouts = []string{
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02",
}

// ParseInstant reads text produced by FormatInstant.
func ParseInstant(text string) (models.Instant, error) {
	if text == InvalidDate {
		return models.Instant{}, nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return models.NewInstant(t), nil
		}
	}
	return models.Instant{}, fmt.Errorf("parse time of day %q", text)
}
