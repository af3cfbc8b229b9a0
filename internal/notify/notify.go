// Package notify handles outbound email and analytics fanout after form
// submissions. All sends are best-effort; callers record outcomes but never
// retry or fail the request over them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/inneranimal/rescue-api/internal/config"
)

// Notifier sends submission emails through Resend and posts submission
// events to the analytics dashboard webhook. Either channel is disabled
// when its configuration is absent.
type Notifier struct {
	resend      *resend.Client
	httpClient  *http.Client
	from        string
	adminEmail  string
	webhookURL  string
	apiKey      string
	projectID   string
	projectName string
}

// NewNotifier creates a notifier from configuration
func NewNotifier(cfg *config.Config) *Notifier {
	n := &Notifier{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		from:        cfg.EmailFrom,
		adminEmail:  cfg.EmailAdmin,
		webhookURL:  cfg.AnalyticsWebhookURL,
		apiKey:      cfg.AnalyticsAPIKey,
		projectID:   cfg.ProjectID,
		projectName: cfg.ProjectName,
	}
	if cfg.ResendAPIKey != "" {
		n.resend = resend.NewClient(cfg.ResendAPIKey)
	}
	return n
}

// NotifyAdmin emails the rescue inbox about a new submission
func (n *Notifier) NotifyAdmin(ctx context.Context, formType string, fields map[string]string) error {
	if n.resend == nil || n.adminEmail == "" {
		return fmt.Errorf("admin email delivery not configured")
	}

	subject := fmt.Sprintf("New %s submission", formLabel(formType))
	_, err := n.resend.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.adminEmail},
		Subject: subject,
		Html:    renderFields(subject, fields),
	})
	if err != nil {
		return fmt.Errorf("failed to send admin email: %w", err)
	}
	return nil
}

// ConfirmUser emails the submitter a receipt confirmation
func (n *Notifier) ConfirmUser(ctx context.Context, email, firstName, formType string) error {
	if n.resend == nil {
		return fmt.Errorf("email delivery not configured")
	}

	label := formLabel(formType)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received your %s and will be in touch soon.</p><p>Southern Pets Animal Rescue</p>",
		html.EscapeString(firstName), label)

	_, err := n.resend.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{email},
		Subject: fmt.Sprintf("We received your %s", label),
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// PostAnalytics posts a submission event to the analytics dashboard.
// Failures are logged and dropped.
func (n *Notifier) PostAnalytics(ctx context.Context, event string, payload map[string]interface{}) {
	if n.webhookURL == "" {
		return
	}

	body := map[string]interface{}{
		"event":     event,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"data":      payload,
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		log.Printf("analytics: failed to encode event %s: %v", event, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(encoded))
	if err != nil {
		log.Printf("analytics: failed to build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}
	req.Header.Set("X-Project-ID", n.projectID)
	req.Header.Set("X-Project-Name", n.projectName)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		log.Printf("analytics: post failed for event %s: %v", event, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("analytics: dashboard returned %d for event %s", resp.StatusCode, event)
	}
}

// renderFields builds a plain field table email body
func renderFields(title string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h2>%s</h2><table>", html.EscapeString(title)))
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("<tr><td><strong>%s</strong></td><td>%s</td></tr>",
			html.EscapeString(k), html.EscapeString(fields[k])))
	}
	sb.WriteString("</table>")
	return sb.String()
}

func formLabel(formType string) string {
	switch formType {
	case "tnr_request":
		return "TNR request"
	case "adoption_application":
		return "adoption application"
	case "contact":
		return "contact message"
	default:
		return "form submission"
	}
}
