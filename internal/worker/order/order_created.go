package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/messaging"
	"github.com/timrodina/hostdesk/internal/notifier"
	"github.com/timrodina/hostdesk/internal/worker"
)

var workerTracer = otel.Tracer("github.com/timrodina/hostdesk/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderCreatedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderCreatedHandler consumes order-created events and mails the
// operator alert. Returning an error makes the engine surface the failure,
// but the event is not redelivered, matching the fire-and-forget contract of
// order placement.
func NewOrderCreatedHandler(notifierSvc *notifier.Service, logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.notify", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event notifier.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order created event", zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		if err := notifierSvc.SendNewOrderAlert(ctx, event.NewOrderNotification); err != nil {
			logger.Error("new order alert failed",
				zap.String("order_number", event.OrderNumber),
				zap.Error(err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "alert send failed")
			return err
		}

		logger.Info("new order alert sent", zap.String("order_number", event.OrderNumber))
		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
