// Package config loads service configuration from environment variables.
// Channel credentials are optional: a channel with missing variables is
// skipped at dispatch time and reported in the result, never attempted.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the service reads from the environment. There are
// no hardcoded credential or phone-number fallbacks anywhere.
type Config struct {
	ListenAddr  string
	DatabaseURL string // optional; enables the reservation log when set
	SendTimeout time.Duration

	Email EmailConfig
	SMS   SMSConfig

	VenueName    string
	VenueAddress string
}

// EmailConfig configures the SMTP channel.
type EmailConfig struct {
	SMTPHost   string
	SMTPPort   int
	User       string
	Password   string
	OwnerEmail string
}

// Missing returns the names of required environment variables that are unset.
func (c EmailConfig) Missing() []string {
	var missing []string
	if c.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.Password == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if c.OwnerEmail == "" {
		missing = append(missing, "OWNER_EMAIL")
	}
	return missing
}

// Configured reports whether the email channel can be attempted.
func (c EmailConfig) Configured() bool { return len(c.Missing()) == 0 }

// SMSConfig configures the Twilio channel. Either a messaging-service SID or
// a literal sender phone number must be present; the messaging service wins
// when both are set.
type SMSConfig struct {
	AccountSID          string
	AuthToken           string
	SenderPhone         string
	MessagingServiceSID string
	OwnerPhone          string
}

// Missing returns the names of required environment variables that are unset.
func (c SMSConfig) Missing() []string {
	var missing []string
	if c.AccountSID == "" {
		missing = append(missing, "TWILIO_SID")
	}
	if c.AuthToken == "" {
		missing = append(missing, "TWILIO_TOKEN")
	}
	if c.SenderPhone == "" && c.MessagingServiceSID == "" {
		missing = append(missing, "TWILIO_PHONE or TWILIO_MESSAGING_SERVICE_SID")
	}
	if c.OwnerPhone == "" {
		missing = append(missing, "OWNER_PHONE")
	}
	return missing
}

// Configured reports whether the SMS channel can be attempted.
func (c SMSConfig) Configured() bool { return len(c.Missing()) == 0 }

// FromEnv reads the full service configuration.
func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		VenueName:    getenv("VENUE_NAME", "The Cajun Menu"),
		VenueAddress: getenv("VENUE_ADDRESS", "140 Keith Dr, Canton, GA 30114"),
		Email: EmailConfig{
			SMTPHost:   getenv("SMTP_HOST", "smtp.gmail.com"),
			User:       strings.TrimSpace(os.Getenv("EMAIL_USER")),
			Password:   os.Getenv("EMAIL_PASS"),
			OwnerEmail: strings.TrimSpace(os.Getenv("OWNER_EMAIL")),
		},
		SMS: SMSConfig{
			AccountSID:          strings.TrimSpace(os.Getenv("TWILIO_SID")),
			AuthToken:           strings.TrimSpace(os.Getenv("TWILIO_TOKEN")),
			SenderPhone:         strings.TrimSpace(os.Getenv("TWILIO_PHONE")),
			MessagingServiceSID: strings.TrimSpace(os.Getenv("TWILIO_MESSAGING_SERVICE_SID")),
			OwnerPhone:          strings.TrimSpace(os.Getenv("OWNER_PHONE")),
		},
	}

	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil || port < 1 {
		return Config{}, fmt.Errorf("invalid SMTP_PORT")
	}
	cfg.Email.SMTPPort = port

	timeoutSec, err := strconv.Atoi(getenv("SEND_TIMEOUT", "10"))
	if err != nil || timeoutSec < 1 {
		return Config{}, fmt.Errorf("invalid SEND_TIMEOUT")
	}
	cfg.SendTimeout = time.Duration(timeoutSec) * time.Second

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
