package email

import (
	"fmt"

	"github.com/wneessen/go-mail"

	"applygate/internal/config"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer validates the SMTP config and returns a mailer.
func NewMailer(cfg config.SMTPConfig) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}
	return &Mailer{cfg: cfg}, nil
}

// SendVerificationCode mails a one-time registration code.
func (m *Mailer) SendVerificationCode(to, code string) error {
	body := fmt.Sprintf("Your verification code is: %s\nIt is valid for 5 minutes.", code)
	return m.send(to, "Verify your email", body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	// Port 465 speaks implicit TLS; everything else STARTTLS.
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
