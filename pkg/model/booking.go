package model

import (
	"time"
)

// BookingRequest is the inbound payload from the booking form. Start and End
// arrive as ISO-8601 strings because the form may submit naive local
// timestamps; the scheduler parses them against the configured shop timezone.
type BookingRequest struct {
	FullName string   `json:"fullName" validate:"required,min=2,max=100"`
	Gender   string   `json:"gender,omitempty" validate:"omitempty,max=40"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone" validate:"required,booking_phone"`
	Start    string   `json:"start" validate:"required"`
	End      string   `json:"end" validate:"required"`
	InHome   bool     `json:"inHome"`
	Location string   `json:"location,omitempty" validate:"required_if=InHome true,max=200"`
	Notes    string   `json:"notes,omitempty" validate:"omitempty,max=500"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// BookingResult describes a committed booking.
type BookingResult struct {
	EventID   string    `json:"event_id"`
	EventLink string    `json:"event_link,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
