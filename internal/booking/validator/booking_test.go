package validator

import (
	"errors"
	"testing"

	"urbarber/pkg/logger"
	"urbarber/pkg/model"
)

func testValidator(t *testing.T) *BookingValidator {
	t.Helper()
	return NewBookingValidator(logger.New(logger.Config{Level: "error", Service: "test"}))
}

func baseRequest() *model.BookingRequest {
	return &model.BookingRequest{
		FullName: "Jordan Reyes",
		Email:    "jordan@example.com",
		Phone:    "+14165550123",
		Start:    "2026-09-14T10:00:00Z",
		End:      "2026-09-14T10:45:00Z",
	}
}

func TestValidate_ValidRequest(t *testing.T) {
	if err := testValidator(t).Validate(baseRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	negative := -5.0

	tests := []struct {
		name   string
		mutate func(*model.BookingRequest)
		field  string
	}{
		{
			name:   "missing full name",
			mutate: func(r *model.BookingRequest) { r.FullName = "" },
			field:  "FullName",
		},
		{
			name:   "full name too short",
			mutate: func(r *model.BookingRequest) { r.FullName = "J" },
			field:  "FullName",
		},
		{
			name:   "invalid email",
			mutate: func(r *model.BookingRequest) { r.Email = "not-an-email" },
			field:  "Email",
		},
		{
			name:   "invalid phone",
			mutate: func(r *model.BookingRequest) { r.Phone = "call me" },
			field:  "Phone",
		},
		{
			name: "home service without location",
			mutate: func(r *model.BookingRequest) {
				r.InHome = true
				r.Location = ""
			},
			field: "Location",
		},
		{
			name:   "negative price",
			mutate: func(r *model.BookingRequest) { r.Price = &negative },
			field:  "Price",
		},
	}

	v := testValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(req)

			err := v.Validate(req)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErrs ValidationErrors
			if !errors.As(err, &validationErrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			for _, ve := range validationErrs {
				if ve.Field == tt.field {
					return
				}
			}
			t.Errorf("no error for field %s in %v", tt.field, validationErrs)
		})
	}
}

func TestValidate_HomeServiceWithLocation(t *testing.T) {
	req := baseRequest()
	req.InHome = true
	req.Location = "12 Main St"
	if err := testValidator(t).Validate(req); err != nil {
		t.Fatalf("home service with address rejected: %v", err)
	}
}

func TestValidate_PhonePatterns(t *testing.T) {
	tests := []struct {
		phone string
		ok    bool
	}{
		{"+14165550123", true},
		{"416 555 0123", true},
		{"416-555-0123", true},
		{"12345", false},
		{"(416) 555-0123", false},
		{"+1416555012345678901234", false},
		{"abc-def-ghij", false},
	}

	v := testValidator(t)
	for _, tt := range tests {
		req := baseRequest()
		req.Phone = tt.phone
		err := v.Validate(req)
		if tt.ok && err != nil {
			t.Errorf("phone %q rejected: %v", tt.phone, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("phone %q accepted", tt.phone)
		}
	}
}
