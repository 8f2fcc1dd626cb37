package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"law_office_app_go/config"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
	Kind     string // metrics label
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		logEmail(email)
		EmailsSentTotal.WithLabelValues(email.Kind, "logged").Inc()
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		EmailsSentTotal.WithLabelValues(email.Kind, "failed").Inc()
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	EmailsSentTotal.WithLabelValues(email.Kind, "sent").Inc()
	zap.L().Info("email sent", zap.String("id", sent.Id), zap.Strings("to", email.To), zap.String("kind", email.Kind))
	return nil
}

// logEmail writes the email to the log instead of sending it
func logEmail(email *Email) {
	zap.L().Info("email (test mode, not sent)",
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("kind", email.Kind),
		zap.String("text", email.TextBody),
	)
}

// SendEmailAsync sends an email in a goroutine so handlers do not wait on the provider.
// A nil config disables sending.
func SendEmailAsync(cfg *config.Config, email *Email) {
	if cfg == nil || email == nil || len(email.To) == 0 {
		return
	}
	emailCopy := *email
	emailCopy.To = append([]string{}, email.To...)

	go func() {
		if err := SendEmail(cfg, &emailCopy); err != nil {
			zap.L().Error("failed to send async email", zap.String("kind", emailCopy.Kind), zap.Error(err))
		}
	}()
}

// CaseAssignmentEmailData contains data for the case assignment email
type CaseAssignmentEmailData struct {
	LawyerName string
	CaseNumber string
	CaseTitle  string
	ClientName string
	CaseURL    string
}

// TaskEmailData contains data for task assignment and reminder emails
type TaskEmailData struct {
	AssigneeName string
	TaskTitle    string
	Priority     string
	DueDate      string
	TaskURL      string
}

var (
	caseAssignmentHTML = htmltemplate.Must(htmltemplate.New("case_assignment").Parse(
		`<p>Hello {{.LawyerName}},</p>
<p>You have been assigned case <strong>{{.CaseNumber}}</strong>: {{.CaseTitle}}{{if .ClientName}} for client {{.ClientName}}{{end}}.</p>
<p><a href="{{.CaseURL}}">Open the case</a></p>`))
	caseAssignmentText = texttemplate.Must(texttemplate.New("case_assignment").Parse(
		`Hello {{.LawyerName}},

You have been assigned case {{.CaseNumber}}: {{.CaseTitle}}{{if .ClientName}} for client {{.ClientName}}{{end}}.

{{.CaseURL}}
`))

	taskAssignmentHTML = htmltemplate.Must(htmltemplate.New("task_assignment").Parse(
		`<p>Hello {{.AssigneeName}},</p>
<p>A {{.Priority}} priority task was assigned to you: <strong>{{.TaskTitle}}</strong>{{if .DueDate}}, due {{.DueDate}}{{end}}.</p>
<p><a href="{{.TaskURL}}">Open the task</a></p>`))
	taskAssignmentText = texttemplate.Must(texttemplate.New("task_assignment").Parse(
		`Hello {{.AssigneeName}},

A {{.Priority}} priority task was assigned to you: {{.TaskTitle}}{{if .DueDate}}, due {{.DueDate}}{{end}}.

{{.TaskURL}}
`))

	taskReminderHTML = htmltemplate.Must(htmltemplate.New("task_reminder").Parse(
		`<p>Hello {{.AssigneeName}},</p>
<p>Reminder: <strong>{{.TaskTitle}}</strong> is due {{.DueDate}}.</p>
<p><a href="{{.TaskURL}}">Open the task</a></p>`))
	taskReminderText = texttemplate.Must(texttemplate.New("task_reminder").Parse(
		`Hello {{.AssigneeName}},

Reminder: {{.TaskTitle}} is due {{.DueDate}}.

{{.TaskURL}}
`))
)

func render(html *htmltemplate.Template, text *texttemplate.Template, data interface{}) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s html: %w", html.Name(), err)
	}
	if err := text.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s text: %w", text.Name(), err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// BuildCaseAssignmentEmail notifies a lawyer that a case was assigned to them
func BuildCaseAssignmentEmail(lawyerEmail string, data CaseAssignmentEmailData) (*Email, error) {
	html, text, err := render(caseAssignmentHTML, caseAssignmentText, data)
	if err != nil {
		return nil, err
	}
	return &Email{
		To:       []string{lawyerEmail},
		Subject:  fmt.Sprintf("Case %s assigned to you", data.CaseNumber),
		HTMLBody: html,
		TextBody: text,
		Kind:     "case_assignment",
	}, nil
}

// BuildTaskAssignmentEmail notifies a user that a task was assigned to them
func BuildTaskAssignmentEmail(assigneeEmail string, data TaskEmailData) (*Email, error) {
	html, text, err := render(taskAssignmentHTML, taskAssignmentText, data)
	if err != nil {
		return nil, err
	}
	return &Email{
		To:       []string{assigneeEmail},
		Subject:  "New task: " + truncate(data.TaskTitle, 80),
		HTMLBody: html,
		TextBody: text,
		Kind:     "task_assignment",
	}, nil
}

// BuildTaskReminderEmail reminds the assignee of a task that is due soon
func BuildTaskReminderEmail(assigneeEmail string, data TaskEmailData) (*Email, error) {
	html, text, err := render(taskReminderHTML, taskReminderText, data)
	if err != nil {
		return nil, err
	}
	return &Email{
		To:       []string{assigneeEmail},
		Subject:  "Task due soon: " + truncate(data.TaskTitle, 80),
		HTMLBody: html,
		TextBody: text,
		Kind:     "task_reminder",
	}, nil
}

// FormatDueDate renders a due date for emails
func FormatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Monday, January 2, 2006")
}

// AppLink joins the public app URL and a path
func AppLink(cfg *config.Config, path string) string {
	return strings.TrimSuffix(cfg.AppURL, "/") + path
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
