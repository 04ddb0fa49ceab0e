package mailer

import (
	"context"
	"fmt"

	"github.com/cardmachineworks/taxreporter/pkg/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outbound email.
type Message struct {
	To        string
	Subject   string
	PlainText string
	HTML      string
}

// Sender delivers messages to a recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type sendgridSender struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

// NewSendgridSender builds a Sender backed by the SendGrid API.
func NewSendgridSender(cfg config.SendgridConfig) (Sender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key required")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("sendgrid from address required")
	}
	return &sendgridSender{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		fromName: cfg.FromName,
		fromAddr: cfg.DefaultFrom,
	}, nil
}

func (s *sendgridSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient address required")
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.fromAddr))
	message.Subject = msg.Subject

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", msg.To))
	message.AddPersonalizations(personalization)

	if msg.PlainText != "" {
		message.AddContent(mail.NewContent("text/plain", msg.PlainText))
	}
	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
