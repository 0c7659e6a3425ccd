package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/eol-ict/onlyoo-backend/internal/config"
	"github.com/eol-ict/onlyoo-backend/internal/logger"
)

// Message is one outbound email with both bodies attached.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer is the delivery boundary the quote service depends on; tests
// substitute a recording fake.
type Mailer interface {
	Send(msg Message) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, from string, log *logger.Logger) (Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST manquant")
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &smtpMailer{
		dialer: d,
		from:   from,
		log:    log.With("service", "SMTPMailer"),
	}, nil
}

func (m *smtpMailer) Send(msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		mail.SetHeader("Reply-To", msg.ReplyTo)
	}
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		mail.AddAlternative("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(mail); err != nil {
		m.log.Error("SMTP delivery failed", "error", err, "subject", msg.Subject)
		return fmt.Errorf("smtp send: %w", err)
	}
	m.log.Info("Email delivered", "subject", msg.Subject, "recipients", len(msg.To))
	return nil
}
