package model

import "time"

// CalendarEvent is the persisted shop-calendar entry. The store owns the ID;
// callers must leave it empty on insert.
type CalendarEvent struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string    `json:"title" bson:"title"`
	Description   string    `json:"description" bson:"description"`
	Location      string    `json:"location" bson:"location"`
	StartTime     time.Time `json:"start_time" bson:"start_time"`
	EndTime       time.Time `json:"end_time" bson:"end_time"`
	AttendeeName  string    `json:"attendee_name,omitempty" bson:"attendee_name,omitempty"`
	AttendeeEmail string    `json:"attendee_email,omitempty" bson:"attendee_email,omitempty"`
	HTMLLink      string    `json:"html_link,omitempty" bson:"html_link,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// Overlaps reports whether the event intersects [start, end) under half-open
// semantics. Touching endpoints do not overlap.
func (e *CalendarEvent) Overlaps(start, end time.Time) bool {
	return start.Before(e.EndTime) && end.After(e.StartTime)
}
