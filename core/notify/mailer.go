package notify

import (
	"context"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

// DeliveryError wraps any transport or auth failure while handing a message
// to the mail relay. Callers decide whether to surface or swallow it.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail delivery to %s failed: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

type SMTPMailer struct {
	cfg config.NotifyConfig
}

func NewSMTPMailer(cfg config.NotifyConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send transmits a single plain-text message and closes the connection.
func (m *SMTPMailer) Send(ctx context.Context, recipient, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return &DeliveryError{Recipient: recipient, Err: err}
	}
	if err := msg.To(recipient); err != nil {
		return &DeliveryError{Recipient: recipient, Err: err}
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.SMTPPort),
		gomail.WithTimeout(timeoutSeconds(m.cfg.TimeoutSec)),
	}
	if strings.TrimSpace(m.cfg.SMTPUser) != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.SMTPUser),
			gomail.WithPassword(m.cfg.SMTPPass),
		)
	}
	client, err := gomail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return &DeliveryError{Recipient: recipient, Err: err}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &DeliveryError{Recipient: recipient, Err: err}
	}
	return nil
}

// LogMailer stands in when SMTP is unconfigured so local runs still show what
// would have been sent.
type LogMailer struct {
	Logger *utils.Logger
}

func (m *LogMailer) Send(_ context.Context, recipient, subject, body string) error {
	m.Logger.Printf("MAIL (disabled) to=%s subject=%q body=%q", recipient, subject, body)
	return nil
}
