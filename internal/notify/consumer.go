package notify

import (
	"encoding/json"
	"strings"

	"github.com/cardlet/cardlet-invites/internal/mailer"
	"github.com/cardlet/cardlet-invites/pkg/events"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

// QueueName groups notify workers so each event is delivered to one of them.
const QueueName = "notify"

// Consumer turns rsvp.created events into owner notifications.
type Consumer struct {
	bus  events.Subscriber
	mail mailer.Service
}

func NewConsumer(bus events.Subscriber, mail mailer.Service) *Consumer {
	return &Consumer{bus: bus, mail: mail}
}

func (c *Consumer) Start() error {
	return c.bus.QueueSubscribe(events.RSVPCreated, QueueName, c.handleRSVPCreated)
}

func (c *Consumer) handleRSVPCreated(msg *events.Message) {
	var ev events.RSVPCreatedEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		logger.Error("Failed to decode rsvp.created event", "error", err)
		return
	}

	// Accounts sign up with a free-form username; only email-shaped ones can
	// receive mail.
	if !strings.Contains(ev.Owner, "@") {
		logger.Debug("Skipping notification, owner username is not an email", "owner", ev.Owner, "rsvp_id", ev.RSVPID)
		return
	}

	notice := mailer.RSVPNotice{
		EventTitle: ev.EventTitle,
		GuestName:  ev.GuestName,
		Attendance: ev.Attendance,
		Companions: ev.Companions,
	}
	if err := c.mail.SendRSVPNotice(ev.Owner, ev.Owner, notice); err != nil {
		logger.Error("Failed to send RSVP notification", "error", err, "rsvp_id", ev.RSVPID)
		return
	}
	logger.Info("RSVP notification sent", "rsvp_id", ev.RSVPID, "event_id", ev.EventID)
}
