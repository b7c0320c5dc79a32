// Package notify provides the outbound notification channels: an SMTP email
// sender and a Twilio SMS sender, behind small interfaces so the service
// layer can be exercised with fakes.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/thecajunmenu/reservations/internal/calendar"
	"github.com/thecajunmenu/reservations/internal/config"
)

// EmailMessage is one outbound email with an optional calendar attachment.
type EmailMessage struct {
	To         string
	Subject    string
	Body       string
	Attachment string // iCalendar text; empty means no attachment
}

// EmailSender dispatches a single email message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPSender sends mail through an authenticated SMTP relay. Construct one at
// process start and reuse it; the underlying client dials per send but keeps
// its configuration and TLS policy fixed.
type SMTPSender struct {
	client   *mail.Client
	from     string
	fromName string
}

// NewSMTPSender builds the shared SMTP client. The send timeout bounds the
// whole dial-auth-send sequence.
func NewSMTPSender(cfg config.EmailConfig, fromName string, timeout time.Duration) (*SMTPSender, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.User, fromName: fromName}, nil
}

// Send implements EmailSender.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.Attachment != "" {
		err := m.AttachReader(calendar.AttachmentName, strings.NewReader(msg.Attachment),
			mail.WithFileContentType(mail.ContentType(calendar.ContentType)))
		if err != nil {
			return fmt.Errorf("attach calendar: %w", err)
		}
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
