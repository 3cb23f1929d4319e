package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/config"
)

// Message is a single transactional email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender delivers transactional email. One call per recipient batch; the
// broadcast path invokes it once per address.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Module provides the configured sender to the Fx graph.
var Module = fx.Provide(NewSender)

// NewSender initialises the configured email backend (resend or noop).
func NewSender(cfg config.Config, logger *zap.Logger) (Sender, error) {
	switch cfg.Mail.Driver {
	case "noop":
		if logger != nil {
			logger.Info("mail disabled; using noop sender")
		}
		return &noopSender{logger: logger}, nil
	case "resend":
		return &resendSender{client: resend.NewClient(cfg.Mail.APIKey)}, nil
	default:
		return nil, fmt.Errorf("unsupported mail driver: %s", cfg.Mail.Driver)
	}
}

// noopSender logs instead of delivering; used in local development.
type noopSender struct {
	logger *zap.Logger
}

func (s *noopSender) Send(_ context.Context, msg Message) error {
	if s.logger != nil {
		s.logger.Info("mail suppressed",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
	return nil
}

// resendSender delivers through the Resend API.
type resendSender struct {
	client *resend.Client
}

func (s *resendSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
