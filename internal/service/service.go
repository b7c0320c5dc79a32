// Package service implements the reservation dispatch orchestration:
// request validation, calendar-artifact construction, concurrent fan-out to
// the email and SMS channels, and result aggregation.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/thecajunmenu/reservations/internal/calendar"
	"github.com/thecajunmenu/reservations/internal/config"
	"github.com/thecajunmenu/reservations/internal/model"
	"github.com/thecajunmenu/reservations/internal/notify"
	"github.com/thecajunmenu/reservations/internal/repository"
)

// ReservationService notifies the operator and the customer about a new
// reservation over two independent channels. Senders are injected at
// construction; a nil sender means the channel was not configured and is
// skipped without a provider call.
type ReservationService struct {
	cfg      config.Config
	email    notify.EmailSender
	sms      notify.SMSSender
	records  *repository.ReservationRepository // nil without storage
	log      *zap.Logger
	validate *validator.Validate
}

// NewReservationService constructs a ReservationService with its dependencies.
func NewReservationService(
	cfg config.Config,
	email notify.EmailSender,
	sms notify.SMSSender,
	records *repository.ReservationRepository,
	log *zap.Logger,
) *ReservationService {
	return &ReservationService{
		cfg:      cfg,
		email:    email,
		sms:      sms,
		records:  records,
		log:      log,
		validate: validator.New(),
	}
}

// Validate checks the request before any side effect is attempted. The error
// message is safe to return to the client.
func (s *ReservationService) Validate(req model.ReservationRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", field)
		case "email":
			return fmt.Errorf("email is not a valid email address")
		case "datetime":
			if fe.Field() == "Date" {
				return fmt.Errorf("date must be a calendar date in YYYY-MM-DD format")
			}
			return fmt.Errorf("time must be a 24-hour time in HH:MM format")
		case "numeric":
			return fmt.Errorf("guests must be a number")
		}
		return fmt.Errorf("%s is invalid", field)
	}
	return err
}

// Process builds the calendar artifact and dispatches all four notifications:
// operator and customer on each channel. The two channels share no state and
// run concurrently; within a channel both recipients are fanned out and
// jointly awaited. Channel errors never escape their channel, so the returned
// result always describes every attempt.
func (s *ReservationService) Process(ctx context.Context, req model.ReservationRequest) (model.DispatchResult, calendar.Artifact, error) {
	artifact, err := calendar.Build(req, s.cfg.VenueName, s.cfg.VenueAddress)
	if err != nil {
		return model.DispatchResult{}, calendar.Artifact{}, err
	}
	customerPhone := notify.NormalizePhone(req.Phone)

	var result model.DispatchResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Email = s.dispatchEmail(ctx, req, artifact)
	}()
	go func() {
		defer wg.Done()
		result.SMS = s.dispatchSMS(ctx, req, customerPhone)
	}()
	wg.Wait()

	s.record(ctx, req, customerPhone, result)

	s.log.Info("reservation processed",
		zap.String("name", req.Name),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.Bool("email_sent", result.Email.Success),
		zap.Bool("sms_sent", result.SMS.Success),
	)
	return result, artifact, nil
}

// ListReservations returns the operator's reservation log, newest first.
func (s *ReservationService) ListReservations(ctx context.Context) ([]model.ReservationRecord, error) {
	if s.records == nil {
		return nil, errors.New("reservation log is not configured")
	}
	return s.records.List(ctx)
}

func (s *ReservationService) dispatchEmail(ctx context.Context, req model.ReservationRequest, artifact calendar.Artifact) model.ChannelResult {
	if missing := s.cfg.Email.Missing(); len(missing) > 0 {
		s.log.Info("skipping email channel", zap.Strings("missing", missing))
		return model.ChannelResult{Error: missingEnvError(missing)}
	}
	if s.email == nil {
		return model.ChannelResult{Error: "email sender not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	owner := notify.EmailMessage{
		To:      s.cfg.Email.OwnerEmail,
		Subject: fmt.Sprintf("New Reservation: %s - %s @ %s", req.Name, req.Date, req.Time),
		Body: fmt.Sprintf(
			"New reservation received!\n\nName: %s\nDate: %s\nTime: %s\nGuests: %s\nPhone: %s\nEmail: %s\nNotes: %s\n\nAn event file (.ics) is attached. Click it to add to your calendar.",
			req.Name, req.Date, req.Time, req.Guests, req.Phone, req.Email, req.NotesOrNone(),
		),
		Attachment: artifact.Text(),
	}
	customer := notify.EmailMessage{
		To:      req.Email,
		Subject: fmt.Sprintf("Reservation Confirmed - %s", s.cfg.VenueName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour reservation at %s is confirmed.\n\nDate: %s\nTime: %s\nGuests: %s\nNotes: %s\n\nThe attached event file (.ics) adds the reservation to your calendar. We look forward to seeing you!\n\n%s\n%s",
			req.Name, s.cfg.VenueName, req.Date, req.Time, req.Guests, req.NotesOrNone(),
			s.cfg.VenueName, s.cfg.VenueAddress,
		),
		Attachment: artifact.Text(),
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, msg := range []notify.EmailMessage{owner, customer} {
		i, msg := i, msg
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.email.Send(ctx, msg)
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		s.log.Warn("email channel failed", zap.Error(err))
		return model.ChannelResult{Error: err.Error()}
	}
	return model.ChannelResult{Success: true}
}

func (s *ReservationService) dispatchSMS(ctx context.Context, req model.ReservationRequest, customerPhone string) model.ChannelResult {
	if missing := s.cfg.SMS.Missing(); len(missing) > 0 {
		s.log.Info("skipping sms channel", zap.Strings("missing", missing))
		return model.ChannelResult{Error: missingEnvError(missing)}
	}
	if s.sms == nil {
		return model.ChannelResult{Error: "sms sender not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	owner := notify.SMSMessage{
		To: s.cfg.SMS.OwnerPhone,
		Body: fmt.Sprintf("New Reservation: %s for %s ppl on %s at %s. Phone: %s",
			req.Name, req.Guests, req.Date, req.Time, customerPhone),
	}
	customer := notify.SMSMessage{
		To: customerPhone,
		Body: fmt.Sprintf("%s: your reservation for %s on %s at %s is confirmed. See you soon!",
			s.cfg.VenueName, req.Guests, req.Date, req.Time),
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, msg := range []notify.SMSMessage{owner, customer} {
		i, msg := i, msg
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.sms.Send(ctx, msg)
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		s.log.Warn("sms channel failed", zap.Error(err))
		return model.ChannelResult{Error: err.Error()}
	}
	return model.ChannelResult{Success: true}
}

// record writes the audit row when storage is configured. A persistence
// failure is logged and never surfaced: the notifications already went out.
func (s *ReservationService) record(ctx context.Context, req model.ReservationRequest, customerPhone string, result model.DispatchResult) {
	if s.records == nil {
		return
	}
	if _, err := s.records.Create(ctx, req, customerPhone, result); err != nil {
		s.log.Error("record reservation", zap.Error(err))
	}
}

func missingEnvError(missing []string) string {
	return "Missing Environment Variables: " + strings.Join(missing, ", ")
}
