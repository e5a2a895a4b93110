package notify

import (
	"context"

	"waterlife-backoffice/internal/config"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type smtpSender struct {
	client *mail.Client
}

// NewSMTPSender dials the configured server for every Send; STARTTLS is used when offered.
func NewSMTPSender(cfg config.SMTPConfig) (Sender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
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
		return nil, err
	}
	return &smtpSender{client: client}, nil
}

func (s *smtpSender) Send(ctx context.Context, msgs ...*mail.Msg) error {
	return s.client.DialAndSendWithContext(ctx, msgs...)
}

// New builds the Notifier described by cfg: SMTP delivery when enabled, log-only otherwise.
func New(cfg config.SMTPConfig, log *zap.Logger) (Notifier, error) {
	if !cfg.Enabled {
		return Disabled(log), nil
	}
	renderer, err := NewRenderer(cfg.SenderName)
	if err != nil {
		return nil, err
	}
	sender, err := NewSMTPSender(cfg)
	if err != nil {
		return nil, err
	}
	return NewMailNotifier(sender, renderer, cfg, log), nil
}
