package functions

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/timrodina/hostdesk/internal/dto"
	"github.com/timrodina/hostdesk/internal/notifier"
	"github.com/timrodina/hostdesk/pkg/errorbank"
)

// Handler ports the serverless mail functions onto the API: browser clients
// call these directly, so they speak a bare JSON contract instead of the
// envelope the rest of the API uses, and they answer CORS preflights.
type Handler struct {
	notifier *notifier.Service
}

// NewHandler constructs a functions Handler.
func NewHandler(notifierSvc *notifier.Service) *Handler {
	return &Handler{notifier: notifierSvc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/functions", middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}))
	g.POST("/notify-new-order", h.notifyNewOrder)
	g.POST("/send-status-email", h.sendStatusEmail)
}

func (h *Handler) notifyNewOrder(c echo.Context) error {
	var payload dto.NewOrderNotification
	if err := c.Bind(&payload); err != nil {
		return writeError(c, errorbank.BadRequest("invalid payload", errorbank.WithCause(err)))
	}
	if payload.OrderNumber == "" {
		return writeError(c, errorbank.BadRequest("orderNumber is required"))
	}

	if err := h.notifier.SendNewOrderAlert(c.Request().Context(), payload); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) sendStatusEmail(c echo.Context) error {
	var payload dto.StatusEmailRequest
	if err := c.Bind(&payload); err != nil {
		return writeError(c, errorbank.BadRequest("invalid payload", errorbank.WithCause(err)))
	}

	status, err := notifier.ParseStatus(payload.Status)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.notifier.BroadcastStatus(c.Request().Context(), status, payload.Reason)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BroadcastResponse{
		Successful:  result.Successful,
		Failed:      result.Failed,
		TotalEmails: result.TotalEmails,
		Message:     fmt.Sprintf("Status emails sent to %d of %d recipients", result.Successful, result.TotalEmails),
	})
}

func writeError(c echo.Context, err error) error {
	appErr := errorbank.From(err)
	return c.JSON(appErr.StatusCode(), map[string]any{"error": appErr.Message()})
}
