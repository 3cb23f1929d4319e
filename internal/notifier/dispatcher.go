package notifier

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/dto"
	"github.com/timrodina/hostdesk/internal/entity"
	"github.com/timrodina/hostdesk/internal/messaging"
)

// OrderCreatedEvent is published after an order commit so the operator alert
// can be sent off the request path.
type OrderCreatedEvent struct {
	dto.NewOrderNotification
	CreatedAt time.Time `json:"created_at"`
}

// Dispatcher hands off the new-order side effect after a committed write.
// Dispatch never blocks the intake path and never propagates failure; a lost
// alert is logged, the order stands.
type Dispatcher interface {
	DispatchNewOrder(ctx context.Context, order *entity.Order)
}

// NewDispatcher selects the bus-backed dispatcher when messaging is enabled,
// falling back to in-process async dispatch for single-binary deployments.
func NewDispatcher(cfg config.Config, client messaging.Client, svc *Service, logger *zap.Logger) Dispatcher {
	if cfg.Messaging.Enabled && cfg.Messaging.Driver != "noop" {
		return &busDispatcher{client: client, logger: logger}
	}
	return &directDispatcher{svc: svc, logger: logger}
}

// busDispatcher publishes the order-created event for the worker to consume.
type busDispatcher struct {
	client messaging.Client
	logger *zap.Logger
}

func (d *busDispatcher) DispatchNewOrder(ctx context.Context, order *entity.Order) {
	event := OrderCreatedEvent{
		NewOrderNotification: AlertFromOrder(order),
		CreatedAt:            order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("marshal order created event", zap.Error(err))
		return
	}
	if err := d.client.Publish(ctx, []byte("order-"+order.Number), payload); err != nil {
		d.logger.Error("publish order created event",
			zap.String("order_number", order.Number),
			zap.Error(err),
		)
	}
}

// directDispatcher sends the alert from a goroutine detached from the request.
type directDispatcher struct {
	svc    *Service
	logger *zap.Logger
}

func (d *directDispatcher) DispatchNewOrder(_ context.Context, order *entity.Order) {
	alert := AlertFromOrder(order)
	go func() {
		// Detached from the request context on purpose: the order is already
		// committed and the alert must not be cancelled with the request.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := d.svc.SendNewOrderAlert(ctx, alert); err != nil {
			d.logger.Error("new order alert failed",
				zap.String("order_number", alert.OrderNumber),
				zap.Error(err),
			)
		}
	}()
}
