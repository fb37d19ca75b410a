// Package notify delivers post-booking confirmations: email with a calendar
// invite, an SMS, and a booking event on the bus. Every channel is best
// effort and config-gated; failures are logged and never reach the caller.
package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"urbarber/pkg/config"
	"urbarber/pkg/kafka"
	"urbarber/pkg/model"
)

type Service struct {
	cfg      *config.Config
	producer *kafka.Producer
}

// NewService wires the notifier. producer may be nil when no Kafka brokers
// are configured.
func NewService(cfg *config.Config, producer *kafka.Producer) *Service {
	return &Service{
		cfg:      cfg,
		producer: producer,
	}
}

// BookingConfirmed fans the confirmation out to every configured channel.
// It returns immediately; delivery happens on background goroutines whose
// outcomes are observed only for logging.
func (s *Service) BookingConfirmed(event *model.CalendarEvent, req *model.BookingRequest, price float64) {
	go s.sendEmail(event, req)
	go s.sendSMS(event, req)
	go s.publishEvent(event, req, price)
}

func (s *Service) sendEmail(event *model.CalendarEvent, req *model.BookingRequest) {
	if s.cfg.SendGridAPIKey == "" {
		s.cfg.Log.Debug("Email notification skipped, SendGrid not configured", "event_id", event.ID)
		return
	}

	startStr := event.StartTime.In(s.cfg.Timezone).Format("Mon, Jan 2, 2006 3:04 PM")
	endStr := event.EndTime.In(s.cfg.Timezone).Format("3:04 PM")

	subject := fmt.Sprintf("%s Appointment Confirmation", s.cfg.ShopName)
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your appointment is confirmed.\n\n"+
			"When: %s - %s\n"+
			"Where: %s\n\n"+
			"Details:\n%s\n\n"+
			"If you need to make changes, reply to this email.\n\n"+
			"- %s",
		req.FullName, startStr, endStr, event.Location, event.Description, s.cfg.ShopName,
	)

	from := mail.NewEmail(s.cfg.EmailFromName, s.cfg.EmailFrom)
	to := mail.NewEmail(req.FullName, req.Email)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	invite := mail.NewAttachment()
	invite.SetContent(base64.StdEncoding.EncodeToString([]byte(BuildInvite(event, s.cfg.ShopName, s.cfg.EmailFrom))))
	invite.SetType("text/calendar; method=REQUEST")
	invite.SetFilename("appointment.ics")
	invite.SetDisposition("attachment")
	message.AddAttachment(invite)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		s.cfg.Log.Warn("Confirmation email failed", "event_id", event.ID, "error", err)
		return
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		s.cfg.Log.Warn("Confirmation email rejected",
			"event_id", event.ID,
			"status", response.StatusCode,
			"body", response.Body,
		)
		return
	}

	s.cfg.Log.Info("Confirmation email sent", "event_id", event.ID, "to", req.Email)
}

func (s *Service) sendSMS(event *model.CalendarEvent, req *model.BookingRequest) {
	if s.cfg.TwilioAccountSID == "" {
		s.cfg.Log.Debug("SMS notification skipped, Twilio not configured", "event_id", event.ID)
		return
	}

	body := fmt.Sprintf("%s: Your appointment is confirmed!\nWhen: %s.\nMore details in your email.",
		s.cfg.ShopName,
		event.StartTime.In(s.cfg.Timezone).Format("Jan 2 3:04 PM"),
	)

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   s.cfg.TwilioAccountSID,
		Password:   s.cfg.TwilioAuthToken,
		AccountSid: s.cfg.TwilioAccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(req.Phone)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		s.cfg.Log.Warn("Confirmation SMS failed", "event_id", event.ID, "error", err)
		return
	}

	s.cfg.Log.Info("Confirmation SMS sent", "event_id", event.ID, "to", req.Phone)
}

type bookingEvent struct {
	EventID    string    `json:"event_id"`
	ClientName string    `json:"client_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Location   string    `json:"location"`
	InHome     bool      `json:"in_home"`
	Price      float64   `json:"price"`
}

func (s *Service) publishEvent(event *model.CalendarEvent, req *model.BookingRequest, price float64) {
	if s.producer == nil {
		return
	}

	payload, err := json.Marshal(bookingEvent{
		EventID:    event.ID,
		ClientName: req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		StartTime:  event.StartTime,
		EndTime:    event.EndTime,
		Location:   event.Location,
		InHome:     req.InHome,
		Price:      price,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to encode booking event", "event_id", event.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.producer.Publish(ctx, kafka.Message{
		Key:       event.ID,
		Value:     payload,
		Headers:   map[string]string{"type": "booking.confirmed"},
		Timestamp: time.Now(),
	}); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "event_id", event.ID, "error", err)
		return
	}

	s.cfg.Log.Info("Booking event published", "event_id", event.ID, "topic", s.cfg.KafkaTopic)
}
