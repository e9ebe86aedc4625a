// Package mailer is the outbound email gateway. Sends are fire-and-forget:
// callers never wait on delivery and send failures are only logged.
package mailer

import (
	"fmt"
	"html"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Notifier delivers a notification email to a single recipient.
type Notifier interface {
	Notify(recipientName, recipientEmail, subject, bodyHTML, ctaLabel, ctaLink string)
}

// SMTPMailer sends mail through an SMTP relay via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewFromEnv builds a Notifier from SMTP_* environment variables. When
// SMTP_HOST is unset it returns a no-op notifier so the rest of the app
// works without a mail relay (local development).
func NewFromEnv() Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, email notifications disabled")
		return NopNotifier{}
	}

	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			port = parsed
		}
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS")),
		from:   from,
	}
}

// Notify sends the email on a background goroutine. The HTTP response (or
// sweep tick) that triggered it never waits on delivery.
func (m *SMTPMailer) Notify(recipientName, recipientEmail, subject, bodyHTML, ctaLabel, ctaLink string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", recipientEmail, recipientName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", renderBody(recipientName, bodyHTML, ctaLabel, ctaLink))

	go func() {
		if err := m.dialer.DialAndSend(msg); err != nil {
			log.Printf("Mail send to %s failed: %v", recipientEmail, err)
		}
	}()
}

// renderBody assembles the email. The recipient name, CTA label and link are
// caller data and get escaped; bodyHTML is markup built by us.
func renderBody(recipientName, bodyHTML, ctaLabel, ctaLink string) string {
	body := fmt.Sprintf("<p>Hi %s,</p>%s", html.EscapeString(recipientName), bodyHTML)
	if ctaLabel != "" && ctaLink != "" {
		body += fmt.Sprintf(`<p><a href="%s">%s</a></p>`,
			html.EscapeString(ctaLink), html.EscapeString(ctaLabel))
	}
	return body
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(recipientName, recipientEmail, subject, bodyHTML, ctaLabel, ctaLink string) {
}
