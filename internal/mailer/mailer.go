package mailer

import "fmt"

// Service sends transactional mail. Implementations return the provider
// message id when one exists.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendRSVPNotice(toEmail, toName string, n RSVPNotice) error
}

// RSVPNotice carries the fields rendered into the owner notification for a
// new guest response.
type RSVPNotice struct {
	EventTitle string
	GuestName  string
	Attendance string
	Companions int
}

func (n RSVPNotice) subject() string {
	return fmt.Sprintf("New RSVP for %q", n.EventTitle)
}

func (n RSVPNotice) text() string {
	return fmt.Sprintf("%s responded %s to %q (companions: %d).",
		n.GuestName, n.Attendance, n.EventTitle, n.Companions)
}

func (n RSVPNotice) html() string {
	return fmt.Sprintf(`<p><b>%s</b> responded <b>%s</b> to %q.</p><p>Companions: %d</p>`,
		n.GuestName, n.Attendance, n.EventTitle, n.Companions)
}
