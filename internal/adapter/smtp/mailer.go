// Package smtp implements outbound mail delivery over SMTP.
package smtp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/nmueses/secaudit/internal/config"
	"github.com/nmueses/secaudit/internal/domain"
)

// Mailer sends HTML mail through a configured SMTP relay. When no relay
// is configured (empty host) every Send fails with domain.ErrDeliveryFailed;
// callers decide whether that is fatal.
type Mailer struct {
	client *mail.Client
	from   string
	log    *slog.Logger
}

// New builds a Mailer from config. A nil client (unconfigured relay) is
// a valid state, not an error.
func New(cfg config.MailConfig, log *slog.Logger) (*Mailer, error) {
	m := &Mailer{
		from: cfg.From,
		log:  log.With("adapter", "smtp"),
	}

	if cfg.Host == "" {
		m.log.Warn("smtp relay not configured, outbound mail disabled")
		return m, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp.New: %w", err)
	}
	m.client = client
	return m, nil
}

// Send delivers one HTML message. All delivery failures are reported as
// domain.ErrDeliveryFailed with the underlying cause in the message.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.client == nil {
		return fmt.Errorf("smtp.Send: relay not configured: %w", domain.ErrDeliveryFailed)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("smtp.Send: invalid sender %q: %w", m.from, domain.ErrDeliveryFailed)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("smtp.Send: invalid recipient %q: %w", to, domain.ErrDeliveryFailed)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Error("mail delivery failed", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("smtp.Send: %v: %w", err, domain.ErrDeliveryFailed)
	}

	m.log.Debug("mail delivered", "to", to, "subject", subject)
	return nil
}
