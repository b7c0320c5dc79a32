// Package calendar builds the iCalendar artifact attached to reservation
// confirmation emails and offered to the client for download.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/thecajunmenu/reservations/internal/model"
)

// AttachmentName is the filename used for the email attachment.
const AttachmentName = "reservation.ics"

// ContentType is the MIME type of the attachment.
const ContentType = "text/calendar"

const uidDomain = "thecajunmenu.online"

// Every reservation blocks out one hour.
const eventDuration = time.Hour

// Artifact is an immutable rendered calendar event for one reservation.
// It lives for the duration of the request and is never persisted.
type Artifact struct {
	UID   string
	Start time.Time
	End   time.Time
	body  string
}

// Text returns the serialized VCALENDAR blob.
func (a Artifact) Text() string { return a.body }

// Build renders the reservation as a one-hour CONFIRMED VEVENT with a unique
// UID. The date and time fields are interpreted as UTC: the form submits the
// instant the guest picked and carries no timezone of its own.
func Build(req model.ReservationRequest, venueName, venueAddress string) (Artifact, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, time.UTC)
	if err != nil {
		return Artifact{}, fmt.Errorf("parse reservation time: %w", err)
	}
	end := start.Add(eventDuration)
	uid := uuid.New().String() + "@" + uidDomain

	cal := ics.NewCalendar()
	cal.SetProductId("-//" + venueName + "//Reservations//EN")

	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(start)
	ev.SetStartAt(start)
	ev.SetEndAt(end)
	ev.SetSummary(fmt.Sprintf("Reservation: %s (%s Guests)", req.Name, req.Guests))
	ev.SetDescription(fmt.Sprintf(
		"Reservation for %s.\nPhone: %s\nEmail: %s\nGuests: %s\nNotes: %s",
		req.Name, req.Phone, req.Email, req.Guests, req.NotesOrNone(),
	))
	ev.SetLocation(venueName + ", " + venueAddress)
	ev.SetStatus(ics.ObjectStatusConfirmed)

	return Artifact{UID: uid, Start: start, End: end, body: cal.Serialize()}, nil
}
