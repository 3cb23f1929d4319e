package notifier

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/timrodina/hostdesk/internal/dto"
)

// The three status templates are fixed; only the offline variant takes a
// reason. Content mirrors what customers have been receiving, trimmed to the
// parts that matter: what happened and what to expect.

var statusTemplates = template.Must(template.New("status").Parse(`{{define "online" -}}
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Webhosting is online</h1>
  <p>Good news! Your webhosting is fully operational and your sites are running without any issues.</p>
  <p><strong>Status:</strong> all services operating normally<br>
  <strong>Last update:</strong> {{.Now}}</p>
  <p>{{.SiteName}} Team</p>
</body>
</html>
{{- end}}

{{define "offline" -}}
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Webhosting is offline</h1>
  <p>We are sorry, but your webhosting is currently unavailable for the following reason:</p>
  <p><strong>Reason:</strong> {{.Reason}}</p>
  <p>We are working on a fix and will let you know as soon as service is restored.
  Your sites are temporarily unreachable and email may be affected, but all data is safe.</p>
  <p>{{.SiteName}} Team</p>
</body>
</html>
{{- end}}

{{define "maintenance" -}}
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Webhosting maintenance in progress</h1>
  <p>Maintenance and updates are currently running on your webhosting.</p>
  <p>Your sites should keep working normally, but we recommend not making any
  important changes while maintenance is in progress, as they may not be saved correctly.</p>
  <p>Maintenance should be finished shortly. Thank you for your patience.</p>
  <p>{{.SiteName}} Team</p>
</body>
</html>
{{- end}}`))

var newOrderTemplate = template.Must(template.New("new_order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>New order {{.Alert.OrderNumber}}</h1>
  <h2>Customer</h2>
  <p>{{.Alert.FullName}} &lt;{{.Alert.Email}}&gt;</p>
  <h2>Order</h2>
  <p>
    <strong>Plan:</strong> {{.Alert.Plan}}<br>
    <strong>WordPress:</strong> {{if .Alert.WordPress}}yes (+€1/month){{else}}no{{end}}<br>
    <strong>Duration:</strong> {{.Alert.Duration}} month(s)<br>
    <strong>Total:</strong> €{{.Alert.TotalAmount}}
  </p>
  <p>Received {{.Now}}.</p>
  <p>Next steps: confirm the payment in the admin panel, set up the hosting
  account, and contact the customer.</p>
</body>
</html>`))

var statusSubjects = map[Status]string{
	StatusOnline:      "Webhosting is online - your sites are up",
	StatusOffline:     "Webhosting is offline - temporary outage",
	StatusMaintenance: "Webhosting maintenance - scheduled work in progress",
}

type statusTemplateData struct {
	SiteName string
	Reason   string
	Now      string
}

func renderStatusEmail(siteName string, status Status, reason string) (string, error) {
	var buf strings.Builder
	data := statusTemplateData{
		SiteName: siteName,
		Reason:   reason,
		Now:      time.Now().UTC().Format("2 January 2006 15:04 MST"),
	}
	if err := statusTemplates.ExecuteTemplate(&buf, string(status), data); err != nil {
		return "", fmt.Errorf("render %s template: %w", status, err)
	}
	return buf.String(), nil
}

type newOrderTemplateData struct {
	Alert dto.NewOrderNotification
	Now   string
}

func renderNewOrderEmail(alert dto.NewOrderNotification) (string, error) {
	var buf strings.Builder
	data := newOrderTemplateData{
		Alert: alert,
		Now:   time.Now().UTC().Format("2 January 2006 15:04 MST"),
	}
	if err := newOrderTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render new order template: %w", err)
	}
	return buf.String(), nil
}
