package transpose

import (
	"time"

	"github.com/pcordone/dataToSummaryCSV/internal/models"
)

// HourResolution is the only resolution that truncates minutes
const HourResolution = 60

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02Z07:00",
}

// ParseTimestamp reads a DateTimeUTC cell, which carries no zone suffix and
// is always UTC. A bare date means midnight. Sub-millisecond digits are
// dropped. Unparseable text yields an invalid instant.
func ParseTimestamp(text string) models.Instant {
	s := text + "Z"
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.NewInstant(t)
		}
	}
	return models.Instant{}
}

// TimeOfDay moves ts to 1970-01-01 keeping its UTC clock time. At hourly
// resolution the minutes are zeroed as well; seconds are left untouched.
// Other resolutions keep the full clock time.
func TimeOfDay(ts models.Instant, resolution int) models.Instant {
	if !ts.Valid {
		return ts
	}
	t := ts.Time.UTC()
	minute := t.Minute()
	if resolution == HourResolution {
		minute = 0
	}
	return models.NewInstant(time.Date(1970, time.January, 1, t.Hour(), minute, t.Second(), t.Nanosecond(), time.UTC))
}
