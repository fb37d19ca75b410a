package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"urbarber/internal/booking/service"
	apperrors "urbarber/pkg/errors"
	httputil "urbarber/pkg/http"
	"urbarber/pkg/logger"
	"urbarber/pkg/model"
)

type BookingHandler struct {
	scheduler service.BookingScheduler
	log       *logger.Logger
	timezone  *time.Location
}

func NewBookingHandler(scheduler service.BookingScheduler, timezone *time.Location, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		scheduler: scheduler,
		log:       log,
		timezone:  timezone,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/availability", h.Availability)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteOutcome(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	result, err := h.scheduler.AttemptBooking(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteOutcome(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteBooked(w, result.EventID, result.EventLink); err != nil {
		h.log.Error("failed to write booked response", "handler", "Create", "error", err)
	}
}

type AvailabilityResponse struct {
	OK        bool      `json:"ok"`
	Available bool      `json:"available"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// Availability is the advisory probe used by the form to grey out taken
// slots. The answer is not a reservation; the booking path re-checks under
// the slot lock.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start, end, err := httputil.ExtractInterval(r, h.timezone)
	if err != nil {
		if writeErr := httputil.WriteOutcome(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "error", writeErr)
		}
		return
	}

	available, err := h.scheduler.CheckAvailability(r.Context(), start, end)
	if err != nil {
		if writeErr := httputil.WriteOutcome(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, AvailabilityResponse{
		OK:        true,
		Available: available,
		Start:     start,
		End:       end,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Availability", "error", err)
	}
}
