package notify

import (
	"fmt"
	"strings"
	"time"

	"urbarber/pkg/model"
)

const icsTimeLayout = "20060102T150405Z"

// BuildInvite renders a calendar event as an iCalendar REQUEST so mail
// clients show an add-to-calendar card on the confirmation email.
func BuildInvite(event *model.CalendarEvent, organizerName, organizerEmail string) string {
	var b strings.Builder

	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//" + organizerName + "//Booking//EN")
	writeLine("METHOD:REQUEST")
	writeLine("BEGIN:VEVENT")
	writeLine("UID:" + event.ID + "@urbarber")
	writeLine("DTSTAMP:" + time.Now().UTC().Format(icsTimeLayout))
	writeLine("DTSTART:" + event.StartTime.UTC().Format(icsTimeLayout))
	writeLine("DTEND:" + event.EndTime.UTC().Format(icsTimeLayout))
	writeLine("SUMMARY:" + escapeText(event.Title))
	writeLine("DESCRIPTION:" + escapeText(event.Description))
	writeLine("LOCATION:" + escapeText(event.Location))
	if organizerEmail != "" {
		writeLine(fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s", escapeText(organizerName), organizerEmail))
	}
	if event.AttendeeEmail != "" {
		writeLine(fmt.Sprintf("ATTENDEE;CN=%s;RSVP=TRUE:mailto:%s", escapeText(event.AttendeeName), event.AttendeeEmail))
	}
	writeLine("STATUS:CONFIRMED")
	writeLine("END:VEVENT")
	writeLine("END:VCALENDAR")

	return b.String()
}

// escapeText applies RFC 5545 TEXT escaping.
func escapeText(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
