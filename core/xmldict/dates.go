package xmldict

import (
	"fmt"
	"strings"
	"time"
)

// DateParser converts a raw attribute or text payload into a timestamp.
// Parsers are injectable through Options so callers can accept additional
// formats.
type DateParser func(raw string) (time.Time, error)

var iso8601Formats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var spacedFormats = []string{
	"2006-01-02 15:04:05.999999 UTC",
	"2006-01-02 15:04:05 UTC",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseISO8601 parses an ISO 8601 timestamp. Formats without an explicit
// zone are taken as UTC; an explicit offset is preserved.
func ParseISO8601(raw string) (time.Time, error) {
	for _, layout := range iso8601Formats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ISO 8601 date %q", raw)
}

// ParseSpacedDate parses the space-separated timestamp form used by older
// OSM exports, such as "2006-01-02 15:04:05 UTC". The result is always UTC.
func ParseSpacedDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range spacedFormats {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized spaced date %q", raw)
}
