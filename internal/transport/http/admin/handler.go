package admin

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/timrodina/hostdesk/internal/dto"
	"github.com/timrodina/hostdesk/internal/notifier"
	"github.com/timrodina/hostdesk/internal/presentation/http/response"
	"github.com/timrodina/hostdesk/internal/service/auth"
	service "github.com/timrodina/hostdesk/internal/service/order"
	"github.com/timrodina/hostdesk/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/timrodina/hostdesk/transport/http/admin")

// Handler exposes the operator dashboard endpoints. Everything except login
// sits behind the session guard.
type Handler struct {
	orders   *service.Service
	auth     *auth.Service
	notifier *notifier.Service
}

// NewHandler constructs an admin Handler.
func NewHandler(orders *service.Service, authSvc *auth.Service, notifierSvc *notifier.Service) *Handler {
	return &Handler{orders: orders, auth: authSvc, notifier: notifierSvc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/admin")
	g.POST("/login", h.login)

	guarded := g.Group("", h.guard)
	guarded.POST("/logout", h.logout)
	guarded.GET("/orders", h.listOrders)
	guarded.GET("/orders/stats", h.orderStats)
	guarded.GET("/orders/:id", h.getOrder)
	guarded.POST("/orders/:id/pay", h.markPaid)
	guarded.POST("/status-email", h.statusEmail)
}

// guard verifies the bearer token before any dashboard handler runs. Token
// verification retries transient upstream failures inside the auth service,
// so a flaky identity provider does not log the operator out.
func (h *Handler) guard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request())
		if token == "" {
			return response.New(c).WithError(errorbank.Unauthorized("missing bearer token")).Build()
		}

		user, err := h.auth.Verify(c.Request().Context(), token)
		if err != nil {
			return response.New(c).WithError(err).Build()
		}

		c.Set("admin_email", user.Email)
		c.Set("access_token", token)
		return next(c)
	}
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var payload dto.LoginRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.login")
	defer span.End()

	session, err := h.auth.Login(ctx, payload.Email, payload.Password)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.SessionResponse{
		AccessToken:  session.AccessToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		RefreshToken: session.RefreshToken,
	}).Build()
}

func (h *Handler) logout(c echo.Context) error {
	token, _ := c.Get("access_token").(string)
	h.auth.Logout(c.Request().Context(), token)
	return response.New(c).WithData(map[string]string{"status": "signed out"}).Build()
}

func (h *Handler) listOrders(c echo.Context) error {
	b := response.New(c)

	filter := service.Filter{
		Search: c.QueryParam("search"),
		Status: service.StatusFilter(c.QueryParam("status")),
	}
	switch filter.Status {
	case "", service.StatusAll, service.StatusPaid, service.StatusPending:
	default:
		return b.WithError(errorbank.BadRequest("unknown status filter", errorbank.WithField("status"))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.listOrders")
	defer span.End()

	orders, err := h.orders.List(ctx, filter)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return b.WithData(out).WithMeta("count", len(out)).Build()
}

func (h *Handler) orderStats(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.orderStats")
	defer span.End()

	stats, err := h.orders.Stats(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.OrderStats{
		Total:   stats.Total,
		Paid:    stats.Paid,
		Pending: stats.Pending,
		Revenue: stats.Revenue,
	}).Build()
}

func (h *Handler) getOrder(c echo.Context) error {
	b := response.New(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid order id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.getOrder", trace.WithAttributes(
		attribute.String("order.id", id.String()),
	))
	defer span.End()

	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) markPaid(c echo.Context) error {
	b := response.New(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid order id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.markPaid", trace.WithAttributes(
		attribute.String("order.id", id.String()),
	))
	defer span.End()

	order, err := h.orders.MarkPaid(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) statusEmail(c echo.Context) error {
	b := response.New(c)

	var payload dto.StatusEmailRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	status, err := notifier.ParseStatus(payload.Status)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.statusEmail", trace.WithAttributes(
		attribute.String("broadcast.status", payload.Status),
	))
	defer span.End()

	result, err := h.notifier.BroadcastStatus(ctx, status, payload.Reason)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.BroadcastResponse{
		Successful:  result.Successful,
		Failed:      result.Failed,
		TotalEmails: result.TotalEmails,
	}).Build()
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
