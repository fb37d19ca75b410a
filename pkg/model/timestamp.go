package model

import (
	"fmt"
	"time"
)

// Layouts accepted for form timestamps, tried in order. Naive layouts (no
// offset) are interpreted in the supplied location instead of being guessed
// from string formatting.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
}

// ParseTimestamp parses an ISO-8601 timestamp. Offset-qualified inputs keep
// their offset; naive inputs are placed in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, l := range timestampLayouts {
		if l.naive {
			if t, err := time.ParseInLocation(l.layout, value, loc); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.Parse(l.layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}
