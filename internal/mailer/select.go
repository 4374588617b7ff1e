package mailer

import (
	"github.com/cardlet/cardlet-invites/pkg/config"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

// FromConfig picks the delivery backend: dev logging, MailerSend when an API
// key is configured, otherwise SMTP.
func FromConfig(cfg config.EmailConfig) Service {
	if cfg.DevMode {
		logger.Info("Mailer running in dev mode, emails are logged only")
		return NewDevMailer()
	}
	if cfg.MailerSendKey != "" {
		return NewMailer(cfg.MailerSendKey, cfg.FromName, cfg.SMTPFrom)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS)
}
