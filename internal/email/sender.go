package email

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"social-go/internal/config"
)

// Sender delivers a single plain-text email.
type Sender interface {
	Send(to, subject, body string) error
}

// NewSenderFromConfig picks the backend named in the configuration.
func NewSenderFromConfig(cfg config.EmailConfig) (Sender, error) {
	switch cfg.Backend {
	case "console":
		return &ConsoleSender{from: cfg.From}, nil
	case "smtp":
		return &SMTPSender{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported email backend: %s", cfg.Backend)
	}
}

// ConsoleSender writes outgoing mail to the process log. Used in
// development, where no SMTP server is around.
type ConsoleSender struct {
	from string
}

func (s *ConsoleSender) Send(to, subject, body string) error {
	log.Printf("Email (console backend) From: %s To: %s Subject: %q\n%s", s.from, to, subject, body)
	return nil
}

// SMTPSender delivers mail through a plain SMTP server.
type SMTPSender struct {
	cfg config.EmailConfig
}

func (s *SMTPSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s via %s: %w", to, addr, err)
	}
	return nil
}
