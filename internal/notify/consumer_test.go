package notify_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cardlet/cardlet-invites/internal/mailer"
	"github.com/cardlet/cardlet-invites/internal/notify"
	"github.com/cardlet/cardlet-invites/pkg/events"
)

type mockBus struct {
	subject string
	queue   string
	handler func(msg *events.Message)
}

func (m *mockBus) Subscribe(subject string, handler func(msg *events.Message)) error {
	m.subject = subject
	m.handler = handler
	return nil
}

func (m *mockBus) QueueSubscribe(subject, queue string, handler func(msg *events.Message)) error {
	m.subject = subject
	m.queue = queue
	m.handler = handler
	return nil
}

func (m *mockBus) Close() error { return nil }

func (m *mockBus) deliver(t *testing.T, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	m.handler(&events.Message{Subject: m.subject, Data: data, Timestamp: time.Now()})
}

type mockMail struct {
	lastTo     string
	lastNotice mailer.RSVPNotice
	sends      int
}

func (m *mockMail) Send(toEmail, toName, subject, text, html string) (string, error) {
	m.lastTo = toEmail
	m.sends++
	return "mock-id", nil
}

func (m *mockMail) SendRSVPNotice(toEmail, toName string, n mailer.RSVPNotice) error {
	m.lastTo = toEmail
	m.lastNotice = n
	m.sends++
	return nil
}

func TestConsumerSendsOwnerNotice(t *testing.T) {
	bus := &mockBus{}
	mail := &mockMail{}
	if err := notify.NewConsumer(bus, mail).Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if bus.subject != events.RSVPCreated || bus.queue != notify.QueueName {
		t.Fatalf("subscribed to %q queue %q", bus.subject, bus.queue)
	}

	bus.deliver(t, events.RSVPCreatedEvent{
		RSVPID:     11,
		EventID:    7,
		EventTitle: "Housewarming",
		Owner:      "alice@example.com",
		GuestName:  "Dana",
		Attendance: "ATTENDING",
		Companions: 2,
	})

	if mail.sends != 1 {
		t.Fatalf("sends = %d, want 1", mail.sends)
	}
	if mail.lastTo != "alice@example.com" {
		t.Errorf("recipient = %q", mail.lastTo)
	}
	if mail.lastNotice.EventTitle != "Housewarming" || mail.lastNotice.GuestName != "Dana" {
		t.Errorf("notice = %+v", mail.lastNotice)
	}
}

func TestConsumerSkipsNonEmailOwner(t *testing.T) {
	bus := &mockBus{}
	mail := &mockMail{}
	if err := notify.NewConsumer(bus, mail).Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	bus.deliver(t, events.RSVPCreatedEvent{RSVPID: 11, Owner: "alice"})
	if mail.sends != 0 {
		t.Fatalf("sends = %d, want 0", mail.sends)
	}
}

func TestConsumerIgnoresGarbage(t *testing.T) {
	bus := &mockBus{}
	mail := &mockMail{}
	if err := notify.NewConsumer(bus, mail).Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	bus.handler(&events.Message{Subject: events.RSVPCreated, Data: []byte("{not json")})
	if mail.sends != 0 {
		t.Fatalf("sends = %d, want 0", mail.sends)
	}
}
