package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/mailer"
	"github.com/timrodina/hostdesk/internal/notifier"
)

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (s *captureSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

type fixedRecipients struct{ emails []string }

func (f fixedRecipients) PaidEmails(context.Context) ([]string, error) {
	return f.emails, nil
}

func newTestServer(t *testing.T, sender mailer.Sender, recipients notifier.RecipientSource) *echo.Echo {
	t.Helper()

	cfg := config.Config{}
	cfg.Observability.ServiceName = "hostdesk"
	cfg.Mail.FromOrders = "orders@hostdesk.test"
	cfg.Mail.FromStatus = "status@hostdesk.test"
	cfg.Mail.OperatorEmail = "operator@hostdesk.test"

	svc := notifier.NewService(sender, recipients, cfg, zap.NewNop())

	e := echo.New()
	Register(e, NewHandler(svc))
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNotifyNewOrder(t *testing.T) {
	sender := &captureSender{}
	e := newTestServer(t, sender, fixedRecipients{})

	rec := postJSON(e, "/functions/notify-new-order", `{
		"orderNumber": "ORD-20260830-K4FQ72MX",
		"fullName": "Jana Nováková",
		"email": "jana@example.com",
		"plan": "pro",
		"wordpress": true,
		"duration": 12,
		"totalAmount": "48.00"
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"operator@hostdesk.test"}, msg.To)
	assert.Contains(t, msg.Subject, "ORD-20260830-K4FQ72MX")
	assert.Contains(t, msg.HTML, "Jana Nováková")
}

func TestNotifyNewOrderRequiresOrderNumber(t *testing.T) {
	sender := &captureSender{}
	e := newTestServer(t, sender, fixedRecipients{})

	rec := postJSON(e, "/functions/notify-new-order", `{"fullName": "Jana"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sender.sent)
}

func TestSendStatusEmail(t *testing.T) {
	sender := &captureSender{}
	e := newTestServer(t, sender, fixedRecipients{emails: []string{"a@example.com", "b@example.com"}})

	rec := postJSON(e, "/functions/send-status-email", `{"status": "online"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Successful  int    `json:"successful"`
		Failed      int    `json:"failed"`
		TotalEmails int    `json:"totalEmails"`
		Message     string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Successful)
	assert.Equal(t, 0, body.Failed)
	assert.Equal(t, 2, body.TotalEmails)
	assert.Contains(t, body.Message, "2 of 2")
	assert.Len(t, sender.sent, 2)
}

func TestSendStatusEmailOfflineNeedsReason(t *testing.T) {
	sender := &captureSender{}
	e := newTestServer(t, sender, fixedRecipients{emails: []string{"a@example.com"}})

	rec := postJSON(e, "/functions/send-status-email", `{"status": "offline"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sender.sent)
}

func TestSendStatusEmailUnknownStatus(t *testing.T) {
	sender := &captureSender{}
	e := newTestServer(t, sender, fixedRecipients{})

	rec := postJSON(e, "/functions/send-status-email", `{"status": "degraded"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestServer(t, &captureSender{}, fixedRecipients{})

	req := httptest.NewRequest(http.MethodOptions, "/functions/send-status-email", nil)
	req.Header.Set(echo.HeaderOrigin, "https://hostdesk.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	req.Header.Set(echo.HeaderAccessControlRequestHeaders, "authorization, content-type")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	allowed := rec.Header().Get(echo.HeaderAccessControlAllowHeaders)
	assert.Contains(t, allowed, "authorization")
	assert.Contains(t, allowed, "apikey")
}
