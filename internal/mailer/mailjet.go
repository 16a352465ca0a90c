// Package mailer sends transactional email through the Mailjet v3.1 send
// API. Only one message type exists today: the password-reset link.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const sendURL = "https://api.mailjet.com/v3.1/send"

// Mailer wraps a resty client configured with Mailjet credentials. When the
// credentials are empty the mailer only logs the reset link, which keeps the
// forgot-password flow usable in development without an email account.
type Mailer struct {
	apiKey    string
	apiSecret string
	fromEmail string
	fromName  string
	client    *resty.Client
	log       *zap.Logger
}

func New(apiKey, apiSecret, fromEmail, fromName string, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    resty.New().SetTimeout(10 * time.Second),
		log:       log,
	}
}

type address struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type message struct {
	From     address   `json:"From"`
	To       []address `json:"To"`
	Subject  string    `json:"Subject"`
	HTMLPart string    `json:"HTMLPart"`
}

type sendRequest struct {
	Messages []message `json:"Messages"`
}

// SendResetEmail delivers a password-reset link to the given recipient.
func (m *Mailer) SendResetEmail(ctx context.Context, to, name, resetURL string) error {
	if m.apiKey == "" || m.apiSecret == "" {
		m.log.Warn("mailjet credentials not configured, skipping reset email",
			zap.String("to", to), zap.String("reset_url", resetURL))
		return nil
	}
	if name == "" {
		name = "User"
	}
	body := sendRequest{Messages: []message{{
		From:     address{Email: m.fromEmail, Name: m.fromName},
		To:       []address{{Email: to, Name: name}},
		Subject:  "Reset your password",
		HTMLPart: fmt.Sprintf(`<a href="%s">Reset Password</a>`, resetURL),
	}}}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBasicAuth(m.apiKey, m.apiSecret).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(sendURL)
	if err != nil {
		m.log.Error("mailjet send failed", zap.Error(err))
		return fmt.Errorf("mailjet send: %w", err)
	}
	if resp.IsError() {
		m.log.Error("mailjet send rejected",
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()))
		return fmt.Errorf("mailjet send: status %d", resp.StatusCode())
	}
	m.log.Info("reset email sent", zap.String("to", to))
	return nil
}
