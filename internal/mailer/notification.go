package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/osa911/contactrelay/internal/contact"
)

var notificationTemplate = template.Must(template.New("notification").Parse(`
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong></p>
<p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
<hr>
<p><small>This email was sent from the {{.Site}} contact form.</small></p>
`))

type notificationData struct {
	Name  string
	Email string
	Lines []string
	Site  string
}

// NotificationConfig holds the fixed envelope of contact notifications
type NotificationConfig struct {
	From string
	To   string
	Site string
}

// BuildNotification formats a submission into the message sent to the site owner.
// Replies go straight to the submitter.
func BuildNotification(cfg NotificationConfig, sub contact.Submission) (*Message, error) {
	message := strings.ReplaceAll(sub.Message, "\r\n", "\n")

	var body bytes.Buffer
	err := notificationTemplate.Execute(&body, notificationData{
		Name:  sub.Name,
		Email: sub.Email,
		Lines: strings.Split(message, "\n"),
		Site:  cfg.Site,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render notification: %w", err)
	}

	return &Message{
		From:    cfg.From,
		To:      cfg.To,
		Subject: "New Contact Form Submission from " + singleLine(sub.Name),
		HTML:    body.String(),
		ReplyTo: sub.Email,
	}, nil
}

// singleLine keeps user input from breaking the subject onto several lines
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
