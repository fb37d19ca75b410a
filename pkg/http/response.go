package http

import (
	"encoding/json"
	"net/http"

	apperrors "urbarber/pkg/errors"
)

// BookingResponse is the wire shape consumed by the booking form. Conflict is
// set only for the "slot taken" outcome so the form can render it as
// "pick another time" rather than a generic failure.
type BookingResponse struct {
	OK        bool   `json:"ok"`
	EventID   string `json:"eventId,omitempty"`
	EventLink string `json:"eventLink,omitempty"`
	Conflict  bool   `json:"conflict,omitempty"`
	Message   string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteBooked(w http.ResponseWriter, eventID, eventLink string) error {
	return WriteJSON(w, http.StatusCreated, BookingResponse{
		OK:        true,
		EventID:   eventID,
		EventLink: eventLink,
	})
}

// WriteOutcome maps an application error onto the booking response shape.
// Internal causes are never echoed; only the AppError message crosses the wire.
func WriteOutcome(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	resp := BookingResponse{
		OK:      false,
		Message: appErr.Message,
	}
	if appErr.Code == apperrors.CodeConflict {
		resp.Conflict = true
	}
	return WriteJSON(w, appErr.StatusCode(), resp)
}
