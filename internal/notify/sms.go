package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/thecajunmenu/reservations/internal/config"
)

// SMSMessage is one outbound text message.
type SMSMessage struct {
	To   string // E.164
	Body string
}

// SMSSender dispatches a single SMS message.
type SMSSender interface {
	Send(ctx context.Context, msg SMSMessage) error
}

// TwilioSender sends SMS through the Twilio Programmable Messaging API. The
// sender identity is a messaging-service pool when one is configured, a
// literal sender number otherwise.
type TwilioSender struct {
	client              *twilio.RestClient
	from                string
	messagingServiceSID string
}

// NewTwilioSender builds the shared Twilio client with a bounded HTTP
// timeout. Construct once at process start.
func NewTwilioSender(cfg config.SMSConfig, timeout time.Duration) *TwilioSender {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
		Client: &twclient.Client{
			Credentials: twclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
			HTTPClient:  &http.Client{Timeout: timeout},
		},
	})
	return &TwilioSender{
		client:              rest,
		from:                cfg.SenderPhone,
		messagingServiceSID: cfg.MessagingServiceSID,
	}
}

// Send implements SMSSender. The Twilio SDK does not take a context; the
// client's HTTP timeout bounds the call, and a context already past its
// deadline short-circuits before the wire is touched.
func (s *TwilioSender) Send(ctx context.Context, msg SMSMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetBody(msg.Body)
	if s.messagingServiceSID != "" {
		params.SetMessagingServiceSid(s.messagingServiceSID)
	} else {
		params.SetFrom(s.from)
	}
	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms to %s: %w", msg.To, err)
	}
	return nil
}
