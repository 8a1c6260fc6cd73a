package mail

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"spendwatch/internal/config"
)

// Sender delivers a plain-text email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a configured SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender builds a sender from the application configuration.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// Send delivers a single message. Authentication is skipped when no username
// is configured, which covers local relays in development.
func (s *SMTPSender) Send(to, subject, body string) error {
	addr := net.JoinHostPort(s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg.String()))
}
