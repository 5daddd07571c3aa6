package infra

import (
	"fmt"
	"net/smtp"

	"rutaventas/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends receipt emails through SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configured reports whether an SMTP host was provided.
func (m *Mailer) Configured() bool { return m.host != "" }

// SendComprobante sends a public-sale receipt, attaching the PDF when pdfPath
// is set.
func (m *Mailer) SendComprobante(to, subject, body, pdfPath string) error {
	if !m.Configured() {
		return fmt.Errorf("mailer: SMTP_HOST no configurado")
	}

	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
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
	return e.Send(m.addr, auth)
}
