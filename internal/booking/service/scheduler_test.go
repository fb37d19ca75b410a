package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"urbarber/internal/booking/validator"
	"urbarber/pkg/config"
	apperrors "urbarber/pkg/errors"
	"urbarber/pkg/logger"
	"urbarber/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockCalendarStore struct {
	mu        sync.Mutex
	events    []*model.CalendarEvent
	insertErr error
	listErr   error
	listCalls int
	nextID    int
}

func (m *mockCalendarStore) ListEvents(ctx context.Context, windowStart, windowEnd time.Time) ([]*model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.CalendarEvent
	for _, ev := range m.events {
		if ev.StartTime.Before(windowEnd) && ev.EndTime.After(windowStart) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockCalendarStore) InsertEvent(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.nextID++
	event.ID = string(rune('a' + m.nextID - 1))
	event.CreatedAt = time.Now()
	m.events = append(m.events, event)
	return event, nil
}

func (m *mockCalendarStore) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// mockLockRepo mirrors the duplicate-key semantics of the Mongo lock
// collection: one document per lock id, inserts race on the id.
type mockLockRepo struct {
	mu    sync.Mutex
	locks map[string]*model.SlotLock
}

func newMockLockRepo() *mockLockRepo {
	return &mockLockRepo{locks: make(map[string]*model.SlotLock)}
}

func (m *mockLockRepo) TryAcquire(ctx context.Context, lock *model.SlotLock) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, held := m.locks[lock.ID]; held && existing.ExpiresAt.After(time.Now()) {
		return false, nil
	}
	m.locks[lock.ID] = lock
	return true, nil
}

func (m *mockLockRepo) Release(ctx context.Context, lockID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, held := m.locks[lockID]; held && existing.Owner == owner {
		delete(m.locks, lockID)
	}
	return nil
}

func (m *mockLockRepo) held(lockID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, held := m.locks[lockID]
	return held && existing.ExpiresAt.After(time.Now())
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ShopName:           "Urbarber",
		ShopLocation:       "Urbarber Barbershop",
		CalendarID:         "test-calendar",
		Timezone:           time.UTC,
		SlotPadding:        0,
		LockWaitTimeout:    200 * time.Millisecond,
		LockTTL:            1 * time.Second,
		LockRetryInterval:  5 * time.Millisecond,
		OverlapScanWindow:  12 * time.Hour,
		BasePrice:          25,
		HomeServicePremium: 10,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestScheduler(cfg *config.Config, store *mockCalendarStore, locks *mockLockRepo) BookingScheduler {
	return NewBookingScheduler(store, locks, validator.NewBookingValidator(cfg.Log), nil, cfg)
}

func validRequest(start, end string) *model.BookingRequest {
	return &model.BookingRequest{
		FullName: "Test Client",
		Email:    "client@example.com",
		Phone:    "+14165550123",
		Start:    start,
		End:      end,
	}
}

func existingEvent(start, end time.Time) *model.CalendarEvent {
	return &model.CalendarEvent{
		ID:        "existing",
		Title:     "Urbarber - Someone Else",
		StartTime: start,
		EndTime:   end,
	}
}

var day = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func iso(hour, min int) string {
	return at(hour, min).Format(time.RFC3339)
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestAttemptBooking_Success(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{}
	locks := newMockLockRepo()
	scheduler := newTestScheduler(cfg, store, locks)

	result, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(10, 0), iso(10, 45)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EventID == "" {
		t.Error("expected event ID to be assigned")
	}
	if store.eventCount() != 1 {
		t.Fatalf("expected 1 event, got %d", store.eventCount())
	}
	if locks.held("slot_lock_test-calendar") {
		t.Error("lock still held after successful booking")
	}

	ev := store.events[0]
	if !ev.StartTime.Equal(at(10, 0)) || !ev.EndTime.Equal(at(10, 45)) {
		t.Errorf("persisted interval [%v, %v), want [%v, %v)", ev.StartTime, ev.EndTime, at(10, 0), at(10, 45))
	}
	if ev.Title != "Urbarber - Test Client" {
		t.Errorf("unexpected title %q", ev.Title)
	}
	if ev.Location != "Urbarber Barbershop" {
		t.Errorf("unexpected location %q", ev.Location)
	}
}

func TestAttemptBooking_OverlapIsConflict(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{events: []*model.CalendarEvent{existingEvent(at(10, 0), at(10, 45))}}
	locks := newMockLockRepo()
	scheduler := newTestScheduler(cfg, store, locks)

	_, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(10, 44), iso(11, 0)))
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if store.eventCount() != 1 {
		t.Errorf("conflict must not create events, store has %d", store.eventCount())
	}
	if locks.held("slot_lock_test-calendar") {
		t.Error("lock still held after conflict")
	}
}

func TestAttemptBooking_BoundaryTouchIsNotOverlap(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{events: []*model.CalendarEvent{existingEvent(at(10, 0), at(10, 45))}}
	locks := newMockLockRepo()
	scheduler := newTestScheduler(cfg, store, locks)

	result, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(10, 45), iso(11, 30)))
	if err != nil {
		t.Fatalf("back-to-back slot should book, got %v", err)
	}
	if result.EventID == "" {
		t.Error("expected event ID")
	}
}

func TestAttemptBooking_PaddingWidensCheckButNotEvent(t *testing.T) {
	cfg := testConfig(t)
	cfg.SlotPadding = 10 * time.Minute
	store := &mockCalendarStore{events: []*model.CalendarEvent{existingEvent(at(10, 0), at(10, 45))}}
	locks := newMockLockRepo()
	scheduler := newTestScheduler(cfg, store, locks)

	// [10:46, 11:30) padded to [10:36, 11:40) overlaps the existing event.
	_, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(10, 46), iso(11, 30)))
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("padded check should conflict, got %v", err)
	}

	// A clear slot persists the unpadded interval.
	result, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(13, 0), iso(13, 45)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.StartTime.Equal(at(13, 0)) || !result.EndTime.Equal(at(13, 45)) {
		t.Errorf("persisted interval [%v, %v) should be unpadded", result.StartTime, result.EndTime)
	}
}

func TestAttemptBooking_MissingEnd(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{}
	locks := newMockLockRepo()
	scheduler := newTestScheduler(cfg, store, locks)

	req := validRequest(iso(10, 0), "")
	_, err := scheduler.AttemptBooking(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if store.eventCount() != 0 {
		t.Errorf("invalid request must not create events, store has %d", store.eventCount())
	}
	if store.listCalls != 0 {
		t.Errorf("invalid request must not touch the store, saw %d list calls", store.listCalls)
	}
}

func TestAttemptBooking_UnparseableTimestamps(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{}
	scheduler := newTestScheduler(cfg, store, newMockLockRepo())

	_, err := scheduler.AttemptBooking(context.Background(), validRequest("next tuesday", iso(11, 0)))
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAttemptBooking_EndBeforeStart(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{}
	scheduler := newTestScheduler(cfg, store, newMockLockRepo())

	_, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(11, 0), iso(10, 0)))
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if store.eventCount() != 0 {
		t.Errorf("expected no events, got %d", store.eventCount())
	}
}

func TestAttemptBooking_ValidationFailure(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{}
	scheduler := newTestScheduler(cfg, store, newMockLockRepo())

	req := validRequest(iso(10, 0), iso(10, 45))
	req.Email = "not-an-email"
	_, err := scheduler.AttemptBooking(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	req = validRequest(iso(10, 0), iso(10, 45))
	req.InHome = true
	req.Location = ""
	_, err = scheduler.AttemptBooking(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("home service without location should fail validation, got %v", err)
	}
}

func TestAttemptBooking_LockReleasedOnStoreError(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{insertErr: errors.New("mongo: write failed")}
	locks := newMockLockRepo()
	scheduler := newTestScheduler(cfg, store, locks)

	_, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(10, 0), iso(10, 45)))
	if !apperrors.IsCode(err, apperrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if locks.held("slot_lock_test-calendar") {
		t.Fatal("lock still held after store failure")
	}

	// A later attempt on a disjoint interval must go through.
	store.insertErr = nil
	if _, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(15, 0), iso(15, 45))); err != nil {
		t.Fatalf("follow-up booking failed: %v", err)
	}
}

func TestAttemptBooking_LockTimeout(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{}
	locks := newMockLockRepo()
	scheduler := newTestScheduler(cfg, store, locks)

	// Another attempt holds the lock for longer than the bounded wait.
	locks.locks["slot_lock_test-calendar"] = &model.SlotLock{
		ID:        "slot_lock_test-calendar",
		Owner:     "someone-else",
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	_, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(10, 0), iso(10, 45)))
	if !apperrors.IsCode(err, apperrors.CodeLockTimeout) {
		t.Fatalf("expected lock timeout, got %v", err)
	}
	if store.eventCount() != 0 {
		t.Errorf("lock timeout must not create events, store has %d", store.eventCount())
	}
}

func TestAttemptBooking_ConcurrentOverlap(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{}
	locks := newMockLockRepo()
	scheduler := newTestScheduler(cfg, store, locks)

	const attempts = 8
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := scheduler.AttemptBooking(context.Background(), validRequest(iso(10, 0), iso(10, 45)))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var booked, conflicts, timeouts int
	for err := range results {
		switch {
		case err == nil:
			booked++
		case apperrors.IsCode(err, apperrors.CodeConflict):
			conflicts++
		case apperrors.IsCode(err, apperrors.CodeLockTimeout):
			timeouts++
		default:
			t.Errorf("unexpected outcome: %v", err)
		}
	}

	if booked != 1 {
		t.Errorf("expected exactly 1 booked, got %d (conflicts=%d timeouts=%d)", booked, conflicts, timeouts)
	}
	if store.eventCount() != 1 {
		t.Errorf("expected exactly 1 stored event, got %d", store.eventCount())
	}
}

func TestAttemptBooking_DefaultsPriceIntoDescription(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{}
	scheduler := newTestScheduler(cfg, store, newMockLockRepo())

	req := validRequest(iso(10, 0), iso(10, 45))
	req.InHome = true
	req.Location = "12 Main St"
	if _, err := scheduler.AttemptBooking(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := store.events[0]
	if ev.Location != "12 Main St" {
		t.Errorf("home-service booking should use client address, got %q", ev.Location)
	}
	// Base price plus home-service premium.
	if want := "Price: $35.00"; !strings.Contains(ev.Description, want) {
		t.Errorf("description %q missing %q", ev.Description, want)
	}
	if want := "Home Service"; !strings.Contains(ev.Description, want) {
		t.Errorf("description %q missing %q", ev.Description, want)
	}
}

func TestCheckAvailability(t *testing.T) {
	cfg := testConfig(t)
	store := &mockCalendarStore{events: []*model.CalendarEvent{existingEvent(at(10, 0), at(10, 45))}}
	scheduler := newTestScheduler(cfg, store, newMockLockRepo())

	available, err := scheduler.CheckAvailability(context.Background(), at(10, 30), at(11, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if available {
		t.Error("overlapping slot reported available")
	}

	available, err = scheduler.CheckAvailability(context.Background(), at(10, 45), at(11, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !available {
		t.Error("free slot reported unavailable")
	}
}
