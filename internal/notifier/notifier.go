// Package notifier formats and sends the two email types this business runs
// on: the new-order alert to the operator and the status broadcast to paying
// customers. Both are best-effort; neither may fail the caller's primary
// action.
package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/dto"
	"github.com/timrodina/hostdesk/internal/entity"
	"github.com/timrodina/hostdesk/internal/mailer"
	"github.com/timrodina/hostdesk/pkg/errorbank"
)

var notifierTracer = otel.Tracer("github.com/timrodina/hostdesk/notifier")

// Status is a hosting availability state broadcast to customers.
type Status string

const (
	StatusOnline      Status = "online"
	StatusOffline     Status = "offline"
	StatusMaintenance Status = "maintenance"
)

// ParseStatus validates a raw broadcast status.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusOnline, StatusOffline, StatusMaintenance:
		return Status(raw), nil
	default:
		return "", errorbank.BadRequest(fmt.Sprintf("unknown status %q", raw), errorbank.WithField("status"))
	}
}

// BroadcastResult aggregates per-recipient outcomes of a status broadcast.
type BroadcastResult struct {
	Successful  int
	Failed      int
	TotalEmails int
}

// RecipientSource yields the distinct addresses of paying customers.
type RecipientSource interface {
	PaidEmails(ctx context.Context) ([]string, error)
}

// Service is the notification dispatcher.
type Service struct {
	sender     mailer.Sender
	recipients RecipientSource
	logger     *zap.Logger

	siteName    string
	fromOrders  string
	fromStatus  string
	operator    string
	sendTimeout time.Duration
}

// NewService builds the dispatcher from the mail configuration.
func NewService(sender mailer.Sender, recipients RecipientSource, cfg config.Config, logger *zap.Logger) *Service {
	sendTimeout := cfg.Mail.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 15 * time.Second
	}
	return &Service{
		sender:      sender,
		recipients:  recipients,
		logger:      logger,
		siteName:    cfg.Observability.ServiceName,
		fromOrders:  cfg.Mail.FromOrders,
		fromStatus:  cfg.Mail.FromStatus,
		operator:    cfg.Mail.OperatorEmail,
		sendTimeout: sendTimeout,
	}
}

// AlertFromOrder projects a persisted order into the alert payload.
func AlertFromOrder(order *entity.Order) dto.NewOrderNotification {
	return dto.NewOrderNotification{
		OrderNumber: order.Number,
		FullName:    order.FullName,
		Email:       order.Email,
		Plan:        string(order.Plan),
		WordPress:   order.WordPress,
		Duration:    order.Duration,
		TotalAmount: order.TotalAmount,
	}
}

// SendNewOrderAlert emails the operator a summary of a new order.
func (s *Service) SendNewOrderAlert(ctx context.Context, alert dto.NewOrderNotification) error {
	ctx, span := notifierTracer.Start(ctx, "Notifier.SendNewOrderAlert", trace.WithAttributes(
		attribute.String("order.number", alert.OrderNumber),
	))
	defer span.End()

	if s.operator == "" {
		if s.logger != nil {
			s.logger.Warn("no operator email configured; dropping new order alert",
				zap.String("order_number", alert.OrderNumber))
		}
		return nil
	}

	html, err := renderNewOrderEmail(alert)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	return s.sender.Send(sendCtx, mailer.Message{
		From:    s.fromOrders,
		To:      []string{s.operator},
		Subject: fmt.Sprintf("New order #%s - %s", alert.OrderNumber, alert.FullName),
		HTML:    html,
	})
}

// BroadcastStatus sends the status email to every distinct paying customer,
// concurrently, and gathers all outcomes. Individual delivery failures are
// counted, never aborted on; a rejected input is the only way no email goes
// out.
func (s *Service) BroadcastStatus(ctx context.Context, status Status, reason string) (BroadcastResult, error) {
	ctx, span := notifierTracer.Start(ctx, "Notifier.BroadcastStatus", trace.WithAttributes(
		attribute.String("broadcast.status", string(status)),
	))
	defer span.End()

	if _, err := ParseStatus(string(status)); err != nil {
		return BroadcastResult{}, err
	}
	if status == StatusOffline && reason == "" {
		return BroadcastResult{}, errorbank.BadRequest("a reason is required when going offline", errorbank.WithField("reason"))
	}

	emails, err := s.recipients.PaidEmails(ctx)
	if err != nil {
		return BroadcastResult{}, errorbank.Internal("failed to load recipients", errorbank.WithCause(err))
	}
	emails = dedupe(emails)
	if len(emails) == 0 {
		return BroadcastResult{}, nil
	}

	html, err := renderStatusEmail(s.siteName, status, reason)
	if err != nil {
		return BroadcastResult{}, err
	}
	subject := statusSubjects[status]

	// Scatter one send per recipient, gather every outcome.
	outcomes := make([]error, len(emails))
	var wg sync.WaitGroup
	for i, email := range emails {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
			defer cancel()
			outcomes[i] = s.sender.Send(sendCtx, mailer.Message{
				From:    s.fromStatus,
				To:      []string{email},
				Subject: subject,
				HTML:    html,
			})
		}(i, email)
	}
	wg.Wait()

	result := BroadcastResult{TotalEmails: len(emails)}
	for i, sendErr := range outcomes {
		if sendErr != nil {
			result.Failed++
			if s.logger != nil {
				s.logger.Error("status email delivery failed",
					zap.String("recipient", emails[i]),
					zap.Error(sendErr),
				)
			}
			continue
		}
		result.Successful++
	}

	if s.logger != nil {
		s.logger.Info("status broadcast complete",
			zap.String("status", string(status)),
			zap.Int("successful", result.Successful),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}

func dedupe(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
