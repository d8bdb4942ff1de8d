// AngelaMos | 2026
// mailer.go

package outreach

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/carterperez-dev/salescrm/internal/config"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends plain text mail from one account. Port 465 dials with
// implicit TLS.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	port := cfg.SMTPPort
	if port == 0 {
		port = 465
	}

	return &SMTPMailer{
		from:   cfg.Address,
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.Address, cfg.Password),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
