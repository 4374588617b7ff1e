package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/cardlet/cardlet-invites/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects
const (
	// Invitation lifecycle
	InviteCreated   = "invite.created"
	InviteUpdated   = "invite.updated"
	InviteTrashed   = "invite.trashed"
	InviteRestored  = "invite.restored"
	InviteDestroyed = "invite.destroyed"

	// RSVP lifecycle
	RSVPCreated = "rsvp.created"
	RSVPUpdated = "rsvp.updated"
	RSVPDeleted = "rsvp.deleted"
)

// Event payloads
type InviteCreatedEvent struct {
	EventID   int64     `json:"event_id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	ShareLink string    `json:"share_link"`
	CreatedAt time.Time `json:"created_at"`
}

type InviteUpdatedEvent struct {
	EventID   int64     `json:"event_id"`
	Owner     string    `json:"owner"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InviteTrashedEvent struct {
	EventID   int64     `json:"event_id"`
	Owner     string    `json:"owner"`
	TrashedAt time.Time `json:"trashed_at"`
}

type InviteRestoredEvent struct {
	EventID    int64     `json:"event_id"`
	Owner      string    `json:"owner"`
	RestoredAt time.Time `json:"restored_at"`
}

type InviteDestroyedEvent struct {
	EventID     int64     `json:"event_id"`
	Owner       string    `json:"owner"`
	DestroyedAt time.Time `json:"destroyed_at"`
}

type RSVPCreatedEvent struct {
	RSVPID     int64     `json:"rsvp_id"`
	EventID    int64     `json:"event_id"`
	EventTitle string    `json:"event_title"`
	Owner      string    `json:"owner"`
	GuestName  string    `json:"guest_name"`
	Attendance string    `json:"attendance"`
	Companions int       `json:"companions"`
	CreatedAt  time.Time `json:"created_at"`
}

type RSVPUpdatedEvent struct {
	RSVPID    int64     `json:"rsvp_id"`
	EventID   int64     `json:"event_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RSVPDeletedEvent struct {
	RSVPID    int64     `json:"rsvp_id"`
	EventID   int64     `json:"event_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
