package survey

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. Form exports use month-first dates.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"2006-01-02",
	"1/2/2006",
}

// ParseTimestamp reads a submission timestamp in UTC. Unparseable text reports false.
func ParseTimestamp(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
