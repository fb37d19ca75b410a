package model

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	toronto, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	tests := []struct {
		name  string
		value string
		loc   *time.Location
		want  time.Time
	}{
		{
			name:  "rfc3339 with offset keeps offset",
			value: "2026-09-14T10:00:00-04:00",
			loc:   toronto,
			want:  time.Date(2026, 9, 14, 14, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 zulu",
			value: "2026-09-14T10:00:00Z",
			loc:   toronto,
			want:  time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "naive seconds in location",
			value: "2026-09-14T10:00:00",
			loc:   toronto,
			want:  time.Date(2026, 9, 14, 10, 0, 0, 0, toronto),
		},
		{
			name:  "naive minutes in location",
			value: "2026-09-14T10:00",
			loc:   toronto,
			want:  time.Date(2026, 9, 14, 10, 0, 0, 0, toronto),
		},
		{
			name:  "nil location falls back to UTC",
			value: "2026-09-14T10:00:00",
			loc:   nil,
			want:  time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value, tt.loc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, value := range []string{"", "next tuesday", "2026-09-14", "14:00"} {
		if _, err := ParseTimestamp(value, time.UTC); err == nil {
			t.Errorf("ParseTimestamp(%q) accepted", value)
		}
	}
}
