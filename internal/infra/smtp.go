package infra

import (
	"fmt"
	"net/smtp"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends closure reports through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     cfg.SMTPUser,
		send:     func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// Configured reports whether an SMTP host was set. Without it reports are
// only written to disk.
func (m *Mailer) Configured() bool { return m.host != "" }

// SendCierre mails the closure ticket at pdfPath to the given recipients.
func (m *Mailer) SendCierre(to []string, subject, body, pdfPath string) error {
	if len(to) == 0 {
		return fmt.Errorf("mailer: no recipients")
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.send(e, m.addr, auth)
}
