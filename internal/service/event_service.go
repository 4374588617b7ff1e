package service

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/repository"
	"github.com/cardlet/cardlet-invites/pkg/events"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

// ShareLinkLength is the length of the opaque token embedded in a public
// invitation URL.
const ShareLinkLength = 8

type EventService interface {
	CreateEvent(ctx context.Context, username string, req *domain.EventCreateRequest) (*domain.EventResponse, error)
	GetMyEvents(ctx context.Context, username string) ([]domain.EventListItem, error)
	GetEvent(ctx context.Context, username string, eventID int64) (*domain.EventResponse, error)
	GetEventByShareLink(ctx context.Context, shareLink string) (*domain.EventResponse, error)
	UpdateEvent(ctx context.Context, username string, eventID int64, req *domain.EventUpdateRequest) (*domain.EventResponse, error)
	DeleteEvent(ctx context.Context, username string, eventID int64) error
	GetTrashedEvents(ctx context.Context, username string) ([]domain.EventListItem, error)
	RestoreEvent(ctx context.Context, username string, eventID int64) (*domain.EventResponse, error)
	PermanentDeleteEvent(ctx context.Context, username string, eventID int64) error
}

type eventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	eventBus  events.Publisher
}

func NewEventService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	eventBus events.Publisher,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		eventBus:  eventBus,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, username string, req *domain.EventCreateRequest) (*domain.EventResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domain.BadRequest("user not found")
	}

	shareLink, err := s.generateShareLink(ctx)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.Create(ctx, user.ID, shareLink, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	event.Owner = username

	s.publish(ctx, events.InviteCreated, events.InviteCreatedEvent{
		EventID:   event.ID,
		Owner:     username,
		Title:     event.Title,
		ShareLink: event.ShareLink,
		CreatedAt: event.CreatedAt,
	})

	resp := event.ToResponse()
	return &resp, nil
}

// generateShareLink draws random tokens until one is unused. Collisions on an
// 8-character token are vanishingly rare, so the loop carries no retry bound;
// the unique index on share_link turns a lost probe-then-insert race into an
// insert error rather than a duplicate.
func (s *eventService) generateShareLink(ctx context.Context) (string, error) {
	for {
		shareLink, err := gonanoid.New(ShareLinkLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate share link: %w", err)
		}
		exists, err := s.eventRepo.ExistsByShareLink(ctx, shareLink)
		if err != nil {
			return "", fmt.Errorf("failed to check share link: %w", err)
		}
		if !exists {
			return shareLink, nil
		}
		logger.WarnContext(ctx, "Share link collision, drawing a new token", "share_link", shareLink)
	}
}

func (s *eventService) GetMyEvents(ctx context.Context, username string) ([]domain.EventListItem, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domain.BadRequest("user not found")
	}

	items, err := s.eventRepo.ListActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return items, nil
}

func (s *eventService) GetEvent(ctx context.Context, username string, eventID int64) (*domain.EventResponse, error) {
	event, err := s.eventRepo.GetActiveByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if event == nil {
		return nil, domain.BadRequest("invitation not found")
	}
	if !event.IsOwner(username) {
		return nil, domain.Forbidden("access denied")
	}

	resp := event.ToResponse()
	return &resp, nil
}

func (s *eventService) GetEventByShareLink(ctx context.Context, shareLink string) (*domain.EventResponse, error) {
	event, err := s.eventRepo.GetByShareLink(ctx, shareLink)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if event == nil {
		return nil, domain.BadRequest("invitation not found")
	}
	if event.IsDeleted() {
		return nil, domain.BadRequest("this invitation has been deleted")
	}

	count, err := s.eventRepo.IncrementViewCount(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment view count: %w", err)
	}
	event.ViewCount = count

	resp := event.ToResponse()
	return &resp, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, username string, eventID int64, req *domain.EventUpdateRequest) (*domain.EventResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetActiveByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if event == nil {
		return nil, domain.BadRequest("invitation not found")
	}
	if !event.IsOwner(username) {
		return nil, domain.Forbidden("access denied")
	}

	updated, err := s.eventRepo.Update(ctx, eventID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	if updated == nil {
		return nil, domain.BadRequest("invitation not found")
	}

	s.publish(ctx, events.InviteUpdated, events.InviteUpdatedEvent{
		EventID:   updated.ID,
		Owner:     username,
		UpdatedAt: updated.UpdatedAt,
	})

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, username string, eventID int64) error {
	event, err := s.eventRepo.GetActiveByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get invitation: %w", err)
	}
	if event == nil {
		return domain.BadRequest("invitation not found")
	}
	if !event.IsOwner(username) {
		return domain.Forbidden("access denied")
	}

	if err := s.eventRepo.SoftDelete(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	s.publish(ctx, events.InviteTrashed, events.InviteTrashedEvent{
		EventID:   eventID,
		Owner:     username,
		TrashedAt: time.Now(),
	})
	return nil
}

func (s *eventService) GetTrashedEvents(ctx context.Context, username string) ([]domain.EventListItem, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domain.BadRequest("user not found")
	}

	items, err := s.eventRepo.ListTrashedByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed invitations: %w", err)
	}
	return items, nil
}

func (s *eventService) RestoreEvent(ctx context.Context, username string, eventID int64) (*domain.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if event == nil {
		return nil, domain.BadRequest("invitation not found")
	}
	if !event.IsOwner(username) {
		return nil, domain.Forbidden("access denied")
	}
	if !event.IsDeleted() {
		return nil, domain.BadRequest("invitation is already restored")
	}

	restored, err := s.eventRepo.Restore(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore invitation: %w", err)
	}
	if restored == nil {
		return nil, domain.BadRequest("invitation is already restored")
	}

	s.publish(ctx, events.InviteRestored, events.InviteRestoredEvent{
		EventID:    eventID,
		Owner:      username,
		RestoredAt: time.Now(),
	})

	resp := restored.ToResponse()
	return &resp, nil
}

func (s *eventService) PermanentDeleteEvent(ctx context.Context, username string, eventID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get invitation: %w", err)
	}
	if event == nil {
		return domain.BadRequest("invitation not found")
	}
	if !event.IsOwner(username) {
		return domain.Forbidden("access denied")
	}
	if !event.IsDeleted() {
		return domain.BadRequest("only trashed invitations can be permanently deleted")
	}

	if err := s.eventRepo.HardDelete(ctx, eventID); err != nil {
		return fmt.Errorf("failed to permanently delete invitation: %w", err)
	}

	s.publish(ctx, events.InviteDestroyed, events.InviteDestroyedEvent{
		EventID:     eventID,
		Owner:       username,
		DestroyedAt: time.Now(),
	})
	return nil
}

// publish is best-effort; a bus outage never fails the request.
func (s *eventService) publish(ctx context.Context, subject string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, subject, payload); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "error", err, "subject", subject)
	}
}
