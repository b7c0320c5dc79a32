// Package model defines the request and response types for the reservation
// notification service.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ReservationRequest is the payload submitted by the reservation form.
// Every field arrives untrusted; validation happens in the service layer
// before any message is dispatched.
type ReservationRequest struct {
	Name   string     `json:"name" validate:"required"`
	Email  string     `json:"email" validate:"required,email"`
	Phone  string     `json:"phone" validate:"required"`
	Date   string     `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string     `json:"time" validate:"required,datetime=15:04"`
	Guests GuestCount `json:"guests" validate:"required,numeric"`
	Notes  string     `json:"notes"`
}

// NotesOrNone returns the free-text notes, or "None" when the guest left the
// field empty. Messages always render a notes line.
func (r ReservationRequest) NotesOrNone() string {
	if r.Notes == "" {
		return "None"
	}
	return r.Notes
}

// GuestCount accepts either a JSON number or a numeric string; the form has
// historically submitted both shapes. The value is display-only downstream.
type GuestCount string

// UnmarshalJSON implements json.Unmarshaler.
func (g *GuestCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = GuestCount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("guests must be a number or a numeric string")
	}
	*g = GuestCount(n.String())
	return nil
}

func (g GuestCount) String() string { return string(g) }

// ChannelResult describes the outcome of one notification channel. A channel
// covers both of its recipients; a failure on either marks the channel failed.
type ChannelResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DispatchResult aggregates the per-channel outcomes of one reservation.
type DispatchResult struct {
	Email ChannelResult `json:"email"`
	SMS   ChannelResult `json:"sms"`
}

// Delivered reports whether at least one channel got a notification out.
// The business goal is "the operator finds out", so one working path is
// enough for the reservation to count as received.
func (d DispatchResult) Delivered() bool {
	return d.Email.Success || d.SMS.Success
}

// ReserveResponse is the body returned by POST /api/reserve. Calendar carries
// the iCalendar text so the client can offer a local download.
type ReserveResponse struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Details  DispatchResult `json:"details"`
	Calendar string         `json:"calendar,omitempty"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ReservationRecord is the persisted audit row for a processed reservation.
// The calendar artifact itself is never stored, only the request fields and
// the per-channel outcome.
type ReservationRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Guests    string    `json:"guests"`
	Notes     string    `json:"notes"`
	EmailSent bool      `json:"email_sent"`
	SMSSent   bool      `json:"sms_sent"`
	CreatedAt time.Time `json:"created_at"`
}
