package order

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/dto"
	"github.com/timrodina/hostdesk/internal/entity"
	"github.com/timrodina/hostdesk/internal/pricing"
	"github.com/timrodina/hostdesk/internal/presentation/http/response"
	service "github.com/timrodina/hostdesk/internal/service/order"
	"github.com/timrodina/hostdesk/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/timrodina/hostdesk/transport/http/order")

// Handler exposes the public order endpoints: plan listing, live quoting,
// intake submission, and the confirmation-page lookup.
type Handler struct {
	svc     *service.Service
	payment config.Payment
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return &Handler{svc: svc, payment: cfg.Payment}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/plans", h.listPlans)

	g := e.Group("/orders")
	g.POST("", h.create)
	g.POST("/quote", h.quote)
	g.GET("/:number", h.getByNumber)
}

func (h *Handler) listPlans(c echo.Context) error {
	return response.New(c).WithData(pricing.Catalog()).Build()
}

func (h *Handler) quote(c echo.Context) error {
	b := response.New(c)

	var payload dto.QuoteRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	total, err := h.svc.Quote(payload.Plan, payload.WordPress, payload.Duration)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.QuoteResponse{
		Plan:        payload.Plan,
		WordPress:   payload.WordPress,
		Duration:    payload.Duration,
		TotalAmount: total,
	}).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.String("order.plan", payload.Plan),
	))
	defer span.End()

	order, err := h.svc.Place(ctx, service.Intake{
		FullName:  payload.FullName,
		Email:     payload.Email,
		Plan:      payload.Plan,
		WordPress: payload.WordPress,
		Duration:  payload.Duration,
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.OrderConfirmation{
		Order: toDTO(order),
		Payment: dto.PaymentInstructions{
			Link:        h.payment.Link,
			Note:        h.payment.Note,
			OrderNumber: order.Number,
		},
	}).Build()
}

func (h *Handler) getByNumber(c echo.Context) error {
	b := response.New(c)

	number := c.Param("number")
	if number == "" {
		return b.WithError(errorbank.BadRequest("order number is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByNumber", trace.WithAttributes(
		attribute.String("order.number", number),
	))
	defer span.End()

	order, err := h.svc.GetByNumber(ctx, number)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          order.ID,
		OrderNumber: order.Number,
		Plan:        string(order.Plan),
		WordPress:   order.WordPress,
		Duration:    order.Duration,
		FullName:    order.FullName,
		Email:       order.Email,
		TotalAmount: order.TotalAmount,
		IsPaid:      order.IsPaid,
		CreatedAt:   order.CreatedAt,
	}
}
