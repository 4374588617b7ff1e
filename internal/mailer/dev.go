package mailer

import "github.com/cardlet/cardlet-invites/pkg/logger"

// DevMailer logs messages instead of delivering them. Used when EMAIL_DEV_MODE
// is set or no provider is configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("DEV mail (not sent)",
		"to", toEmail,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendRSVPNotice(toEmail, toName string, n RSVPNotice) error {
	_, err := d.Send(toEmail, toName, n.subject(), n.text(), n.html())
	return err
}
