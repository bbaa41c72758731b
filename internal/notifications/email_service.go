package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"darshan/internal/shared/config"
)

// EmailService sends notification emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *Notification) error
}

const handoffEmailTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
<h2>Booking received for {{.PlaceName}}</h2>
<p>Your booking <strong>{{.BookingRef}}</strong> has been registered and you
have been forwarded to the payment gateway.</p>
<table cellpadding="6">
<tr><td>Visit date</td><td><strong>{{.VisitDate}}</strong></td></tr>
<tr><td>Tickets</td><td>{{.Tickets}}</td></tr>
<tr><td>Amount</td><td>&#8377;{{.Total}}</td></tr>
</table>
<p>If the payment did not complete, your tickets are not reserved and you
can simply book again.</p>
</body>
</html>
`

type smtpEmailService struct {
	cfg  *config.EmailConfig
	tmpl *template.Template
}

// NewSMTPEmailService creates an SMTP-backed email service
func NewSMTPEmailService(cfg *config.EmailConfig) (EmailService, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is not configured")
	}
	tmpl, err := template.New("handoff").Parse(handoffEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	return &smtpEmailService{cfg: cfg, tmpl: tmpl}, nil
}

func (s *smtpEmailService) SendNotification(ctx context.Context, notification *Notification) error {
	var body bytes.Buffer
	err := s.tmpl.Execute(&body, struct {
		PlaceName  string
		BookingRef string
		VisitDate  string
		Tickets    int
		Total      int64
	}{
		PlaceName:  notification.PlaceName,
		BookingRef: notification.BookingRef,
		VisitDate:  notification.VisitDate.Format("Monday, 2 January 2006"),
		Tickets:    notification.Tickets,
		Total:      notification.Total,
	})
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.FromEmail,
		"To: " + notification.Recipient,
		"Subject: " + notification.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"Date: " + time.Now().Format(time.RFC1123Z),
		"",
		body.String(),
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{notification.Recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", notification.Recipient, err)
	}
	return nil
}
