package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thecajunmenu/reservations/internal/config"
	"github.com/thecajunmenu/reservations/internal/model"
	"github.com/thecajunmenu/reservations/internal/notify"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type fakeEmailSender struct {
	mu    sync.Mutex
	delay time.Duration
	err   error
	sent  []notify.EmailMessage
}

func (f *fakeEmailSender) Send(ctx context.Context, msg notify.EmailMessage) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	return f.err
}

func (f *fakeEmailSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeEmailSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	return out
}

type fakeSMSSender struct {
	mu    sync.Mutex
	delay time.Duration
	err   error
	sent  []notify.SMSMessage
}

func (f *fakeSMSSender) Send(ctx context.Context, msg notify.SMSMessage) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	return f.err
}

func (f *fakeSMSSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeSMSSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	return out
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func testConfig() config.Config {
	return config.Config{
		SendTimeout:  2 * time.Second,
		VenueName:    "The Cajun Menu",
		VenueAddress: "140 Keith Dr, Canton, GA 30114",
		Email: config.EmailConfig{
			SMTPHost:   "smtp.example.com",
			SMTPPort:   587,
			User:       "bot@example.com",
			Password:   "app-password",
			OwnerEmail: "owner@example.com",
		},
		SMS: config.SMSConfig{
			AccountSID:  "AC123",
			AuthToken:   "token",
			SenderPhone: "+15550001111",
			OwnerPhone:  "+15550002222",
		},
	}
}

func testRequest() model.ReservationRequest {
	return model.ReservationRequest{
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Phone:  "(404) 640-7734",
		Date:   "2026-03-10",
		Time:   "18:30",
		Guests: "4",
		Notes:  "window seat",
	}
}

func newService(cfg config.Config, email notify.EmailSender, sms notify.SMSSender) *ReservationService {
	return NewReservationService(cfg, email, sms, nil, zap.NewNop())
}

// ─── Dispatch tests ───────────────────────────────────────────────────────────

func TestProcessBothChannelsSucceed(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := newService(testConfig(), email, sms)

	result, artifact, err := svc.Process(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, result.Email.Success)
	assert.True(t, result.SMS.Success)
	assert.True(t, result.Delivered())
	assert.Contains(t, artifact.Text(), "BEGIN:VCALENDAR")

	// Each channel reaches both recipients.
	assert.ElementsMatch(t, []string{"owner@example.com", "jane@example.com"}, email.recipients())
	assert.ElementsMatch(t, []string{"+15550002222", "+14046407734"}, sms.recipients())
}

func TestProcessChannelIndependence(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("smtp: authentication rejected")}
	sms := &fakeSMSSender{}
	svc := newService(testConfig(), email, sms)

	result, _, err := svc.Process(context.Background(), testRequest())
	require.NoError(t, err)

	assert.False(t, result.Email.Success)
	assert.Contains(t, result.Email.Error, "authentication rejected")
	assert.True(t, result.SMS.Success)
	assert.Empty(t, result.SMS.Error)
	assert.True(t, result.Delivered())

	// The email failure must not prevent the SMS channel from being attempted.
	assert.Equal(t, 2, sms.calls())
}

func TestProcessBothChannelsFail(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("smtp: connection refused")}
	sms := &fakeSMSSender{err: errors.New("twilio: invalid recipient")}
	svc := newService(testConfig(), email, sms)

	result, _, err := svc.Process(context.Background(), testRequest())
	require.NoError(t, err)

	assert.False(t, result.Delivered())
	assert.Contains(t, result.Email.Error, "connection refused")
	assert.Contains(t, result.SMS.Error, "invalid recipient")
}

func TestProcessMissingSMSConfiguration(t *testing.T) {
	cfg := testConfig()
	cfg.SMS = config.SMSConfig{}

	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := newService(cfg, email, sms)

	result, _, err := svc.Process(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, result.Email.Success)
	assert.False(t, result.SMS.Success)
	assert.Equal(t,
		"Missing Environment Variables: TWILIO_SID, TWILIO_TOKEN, TWILIO_PHONE or TWILIO_MESSAGING_SERVICE_SID, OWNER_PHONE",
		result.SMS.Error)

	// A skipped channel performs zero provider calls.
	assert.Equal(t, 0, sms.calls())
	assert.Equal(t, 2, email.calls())
}

func TestProcessMissingEmailConfiguration(t *testing.T) {
	cfg := testConfig()
	cfg.Email = config.EmailConfig{}

	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := newService(cfg, email, sms)

	result, _, err := svc.Process(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Missing Environment Variables: EMAIL_USER, EMAIL_PASS, OWNER_EMAIL", result.Email.Error)
	assert.Equal(t, 0, email.calls())
	assert.True(t, result.SMS.Success)
}

func TestProcessDispatchesConcurrently(t *testing.T) {
	const delay = 300 * time.Millisecond

	email := &fakeEmailSender{delay: delay}
	sms := &fakeSMSSender{delay: delay}
	svc := newService(testConfig(), email, sms)

	start := time.Now()
	result, _, err := svc.Process(context.Background(), testRequest())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, result.Delivered())
	assert.Equal(t, 2, email.calls())
	assert.Equal(t, 2, sms.calls())

	// All four sends overlap: sequential recipients within one channel alone
	// would already take 2×delay.
	assert.Less(t, elapsed, 2*delay,
		"expected concurrent fan-out, got %v for four %v sends", elapsed, delay)
}

func TestProcessTimeoutBoundsChannel(t *testing.T) {
	cfg := testConfig()
	cfg.SendTimeout = 50 * time.Millisecond

	email := &fakeEmailSender{delay: time.Second}
	sms := &fakeSMSSender{}
	svc := newService(cfg, email, sms)

	result, _, err := svc.Process(context.Background(), testRequest())
	require.NoError(t, err)

	assert.False(t, result.Email.Success)
	assert.Contains(t, result.Email.Error, "context deadline exceeded")
	assert.True(t, result.SMS.Success)
}

// ─── Validation tests ─────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	svc := newService(testConfig(), &fakeEmailSender{}, &fakeSMSSender{})

	t.Run("valid request", func(t *testing.T) {
		assert.NoError(t, svc.Validate(testRequest()))
	})

	t.Run("optional notes", func(t *testing.T) {
		req := testRequest()
		req.Notes = ""
		assert.NoError(t, svc.Validate(req))
	})

	cases := []struct {
		name    string
		mutate  func(*model.ReservationRequest)
		wantMsg string
	}{
		{"missing name", func(r *model.ReservationRequest) { r.Name = "" }, "name is required"},
		{"missing email", func(r *model.ReservationRequest) { r.Email = "" }, "email is required"},
		{"invalid email", func(r *model.ReservationRequest) { r.Email = "not-an-address" }, "valid email"},
		{"missing phone", func(r *model.ReservationRequest) { r.Phone = "" }, "phone is required"},
		{"invalid date", func(r *model.ReservationRequest) { r.Date = "03/10/2026" }, "YYYY-MM-DD"},
		{"invalid time", func(r *model.ReservationRequest) { r.Time = "6:30 PM" }, "HH:MM"},
		{"non-numeric guests", func(r *model.ReservationRequest) { r.Guests = "four" }, "guests must be a number"},
		{"missing guests", func(r *model.ReservationRequest) { r.Guests = "" }, "guests is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testRequest()
			tc.mutate(&req)
			err := svc.Validate(req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}
