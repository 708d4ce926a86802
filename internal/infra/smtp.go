package infra

import (
	"fmt"
	"net/smtp"

	"sproutplan/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for ops notifications.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	opsEmail string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		opsEmail: cfg.OpsEmail,
	}
}

// SendNotification mails the configured ops address. A missing OPS_EMAIL
// disables notifications without failing the caller.
func (m *Mailer) SendNotification(subject, body string) error {
	if m.opsEmail == "" {
		return nil
	}

	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.opsEmail}
	e.Subject = subject
	e.Text = []byte(body)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
