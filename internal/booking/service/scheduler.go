package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"urbarber/internal/booking/repository"
	"urbarber/internal/booking/validator"
	"urbarber/pkg/config"
	apperrors "urbarber/pkg/errors"
	"urbarber/pkg/model"
	"urbarber/pkg/sanitizer"
)

// Notifier dispatches post-booking confirmations. Implementations must be
// best effort: a failed notification is logged, never surfaced as a booking
// failure.
type Notifier interface {
	BookingConfirmed(event *model.CalendarEvent, req *model.BookingRequest, price float64)
}

type BookingScheduler interface {
	AttemptBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error)
	CheckAvailability(ctx context.Context, start, end time.Time) (bool, error)
}

type bookingScheduler struct {
	store     repository.CalendarStore
	locks     repository.SlotLockRepository
	validator *validator.BookingValidator
	notifier  Notifier
	cfg       *config.Config
}

func NewBookingScheduler(
	store repository.CalendarStore,
	locks repository.SlotLockRepository,
	validator *validator.BookingValidator,
	notifier Notifier,
	cfg *config.Config,
) BookingScheduler {
	return &bookingScheduler{
		store:     store,
		locks:     locks,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// AttemptBooking decides atomically whether the requested slot is free and, if
// so, records it as a calendar event. Concurrent attempts are serialized
// through the slot lock, which is held across the whole read-check-insert
// sequence; checking and inserting under separate holds would let two
// attempts both pass the overlap check before either inserts.
func (s *bookingScheduler) AttemptBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	s.sanitize(req)

	// Everything that can fail on the caller's side fails here, before any
	// lock or store traffic.
	if req.Start == "" || req.End == "" {
		return nil, apperrors.InvalidInput("missing start/end")
	}
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	start, err := model.ParseTimestamp(req.Start, s.cfg.Timezone)
	if err != nil {
		return nil, apperrors.InvalidInput("missing start/end")
	}
	end, err := model.ParseTimestamp(req.End, s.cfg.Timezone)
	if err != nil {
		return nil, apperrors.InvalidInput("missing start/end")
	}
	if !end.After(start) {
		return nil, apperrors.InvalidInput("end must be after start")
	}

	price := s.priceFor(req)

	// The padded interval exists only for the conflict check; the persisted
	// event always uses the requested times.
	paddedStart := start.Add(-s.cfg.SlotPadding)
	paddedEnd := end.Add(s.cfg.SlotPadding)

	owner, err := s.acquireSlotLock(ctx)
	if err != nil {
		return nil, err
	}
	defer s.releaseSlotLock(owner)

	if taken, err := s.slotTaken(ctx, paddedStart, paddedEnd); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.Conflict("This time slot is already booked. Please pick another time.")
	}

	event := &model.CalendarEvent{
		Title:         fmt.Sprintf("%s - %s", s.cfg.ShopName, req.FullName),
		Description:   s.describeBooking(req, price),
		Location:      s.locationFor(req),
		StartTime:     start,
		EndTime:       end,
		AttendeeName:  req.FullName,
		AttendeeEmail: req.Email,
	}

	inserted, err := s.store.InsertEvent(ctx, event)
	if err != nil {
		s.cfg.Log.Error("Failed to create calendar event",
			"client", req.FullName,
			"start", start,
			"end", end,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create calendar event", err)
	}

	s.cfg.Log.Info("Booking created",
		"event_id", inserted.ID,
		"client", req.FullName,
		"start", start,
		"end", end,
		"in_home", req.InHome,
	)

	if s.notifier != nil {
		s.notifier.BookingConfirmed(inserted, req, price)
	}

	return &model.BookingResult{
		EventID:   inserted.ID,
		EventLink: inserted.HTMLLink,
		StartTime: inserted.StartTime,
		EndTime:   inserted.EndTime,
	}, nil
}

// CheckAvailability is the advisory probe behind the form's slot picker. It
// takes no lock; the answer can go stale the moment it is produced, and the
// booking path re-checks under the lock anyway.
func (s *bookingScheduler) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	paddedStart := start.Add(-s.cfg.SlotPadding)
	paddedEnd := end.Add(s.cfg.SlotPadding)

	taken, err := s.slotTaken(ctx, paddedStart, paddedEnd)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// slotTaken scans a generous window around the padded interval and tests each
// event for half-open overlap. The window is a scan bound, not a correctness
// bound: the store's filter matches any event reaching into the window, and
// ScanWindow only has to be wide enough that a conflicting event's bounds
// fall inside it.
func (s *bookingScheduler) slotTaken(ctx context.Context, paddedStart, paddedEnd time.Time) (bool, error) {
	windowStart := paddedStart.Add(-s.cfg.OverlapScanWindow)
	windowEnd := paddedEnd.Add(s.cfg.OverlapScanWindow)

	events, err := s.store.ListEvents(ctx, windowStart, windowEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to list calendar events", "error", err)
		return false, apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, ev := range events {
		if ev.Overlaps(paddedStart, paddedEnd) {
			return true, nil
		}
	}
	return false, nil
}

// acquireSlotLock polls the advisory lock until it is ours or the bounded
// wait elapses. Timing out is a transient condition distinct from a slot
// conflict; callers may retry with backoff.
func (s *bookingScheduler) acquireSlotLock(ctx context.Context) (string, error) {
	owner := uuid.NewString()
	lockID := "slot_lock_" + s.cfg.CalendarID
	deadline := time.Now().Add(s.cfg.LockWaitTimeout)

	for {
		acquired, err := s.locks.TryAcquire(ctx, &model.SlotLock{
			ID:        lockID,
			Owner:     owner,
			ExpiresAt: time.Now().Add(s.cfg.LockTTL),
		})
		if err != nil {
			s.cfg.Log.Error("Slot lock acquisition failed", "lock_id", lockID, "error", err)
			return "", apperrors.Internal("Failed to acquire booking lock", err)
		}
		if acquired {
			return owner, nil
		}

		if time.Now().Add(s.cfg.LockRetryInterval).After(deadline) {
			s.cfg.Log.Warn("Slot lock wait timed out", "lock_id", lockID, "waited", s.cfg.LockWaitTimeout)
			return "", apperrors.LockTimeout("Booking system is busy. Please try again.")
		}

		select {
		case <-ctx.Done():
			return "", apperrors.Internal("Request cancelled while waiting for booking lock", ctx.Err())
		case <-time.After(s.cfg.LockRetryInterval):
		}
	}
}

// releaseSlotLock runs on every exit path. It deliberately ignores the
// request context, which may already be cancelled; a leaked lock would stall
// every booking attempt until the TTL reaper catches up.
func (s *bookingScheduler) releaseSlotLock(owner string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	lockID := "slot_lock_" + s.cfg.CalendarID
	if err := s.locks.Release(ctx, lockID, owner); err != nil {
		s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
	}
}

func (s *bookingScheduler) sanitize(req *model.BookingRequest) {
	req.FullName = sanitizer.NormalizeName(req.FullName)
	req.Notes = sanitizer.NormalizeNotes(req.Notes)
	req.Location = sanitizer.TrimAndNormalize(req.Location)
	if normalized := sanitizer.NormalizePhone(req.Phone); normalized != "" {
		req.Phone = normalized
	}
}

func (s *bookingScheduler) priceFor(req *model.BookingRequest) float64 {
	if req.Price != nil {
		return *req.Price
	}
	price := s.cfg.BasePrice
	if req.InHome {
		price += s.cfg.HomeServicePremium
	}
	return price
}

func (s *bookingScheduler) locationFor(req *model.BookingRequest) string {
	if req.InHome {
		return req.Location
	}
	return s.cfg.ShopLocation
}

func (s *bookingScheduler) describeBooking(req *model.BookingRequest, price float64) string {
	serviceKind := "In-Shop"
	if req.InHome {
		serviceKind = "Home Service"
	}
	return fmt.Sprintf(
		"Service: Standard cut (%s)\nGender: %s\nPrice: $%.2f\nPhone: %s\nEmail: %s\nNotes: %s",
		serviceKind,
		orDash(req.Gender),
		price,
		req.Phone,
		req.Email,
		orDash(req.Notes),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
