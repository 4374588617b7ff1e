package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/repository"
	"github.com/cardlet/cardlet-invites/pkg/events"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

type RSVPService interface {
	CreateRSVP(ctx context.Context, shareLink string, req *domain.RSVPCreateRequest, meta domain.RequestMeta) (*domain.RSVPResponse, error)
	GetRSVPList(ctx context.Context, username string, eventID int64) ([]domain.RSVPResponse, error)
	UpdateRSVP(ctx context.Context, rsvpID int64, req *domain.RSVPCreateRequest) (*domain.RSVPResponse, error)
	DeleteRSVP(ctx context.Context, rsvpID int64) error
}

type rsvpService struct {
	rsvpRepo  repository.RSVPRepository
	eventRepo repository.EventRepository
	eventBus  events.Publisher
}

func NewRSVPService(
	rsvpRepo repository.RSVPRepository,
	eventRepo repository.EventRepository,
	eventBus events.Publisher,
) RSVPService {
	return &rsvpService{
		rsvpRepo:  rsvpRepo,
		eventRepo: eventRepo,
		eventBus:  eventBus,
	}
}

func (s *rsvpService) CreateRSVP(ctx context.Context, shareLink string, req *domain.RSVPCreateRequest, meta domain.RequestMeta) (*domain.RSVPResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

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

	// The submitter IP is recorded for duplicate tracing only; repeats are
	// not rejected.
	rsvp, err := s.rsvpRepo.Create(ctx, event.ID, req, meta.ClientIP())
	if err != nil {
		return nil, fmt.Errorf("failed to create rsvp: %w", err)
	}

	s.publish(ctx, events.RSVPCreated, events.RSVPCreatedEvent{
		RSVPID:     rsvp.ID,
		EventID:    event.ID,
		EventTitle: event.Title,
		Owner:      event.Owner,
		GuestName:  rsvp.GuestName,
		Attendance: string(rsvp.Attendance),
		Companions: rsvp.CompanionCount,
		CreatedAt:  rsvp.CreatedAt,
	})

	resp := rsvp.ToResponse()
	return &resp, nil
}

func (s *rsvpService) GetRSVPList(ctx context.Context, username string, eventID int64) ([]domain.RSVPResponse, error) {
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

	rsvps, err := s.rsvpRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}

	responses := make([]domain.RSVPResponse, 0, len(rsvps))
	for i := range rsvps {
		responses = append(responses, rsvps[i].ToResponse())
	}
	return responses, nil
}

// UpdateRSVP mutates attendance, companion count and message. The rsvp id is
// treated as a capability: no check ties the caller to the parent
// invitation's owner. Guest name and contact details are immutable after
// creation.
func (s *rsvpService) UpdateRSVP(ctx context.Context, rsvpID int64, req *domain.RSVPCreateRequest) (*domain.RSVPResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rsvp: %w", err)
	}
	if rsvp == nil {
		return nil, domain.BadRequest("rsvp not found")
	}

	updated, err := s.rsvpRepo.Update(ctx, rsvpID, req.Attendance, *req.CompanionCount, req.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to update rsvp: %w", err)
	}
	if updated == nil {
		return nil, domain.BadRequest("rsvp not found")
	}

	s.publish(ctx, events.RSVPUpdated, events.RSVPUpdatedEvent{
		RSVPID:    updated.ID,
		EventID:   updated.EventID,
		UpdatedAt: updated.UpdatedAt,
	})

	resp := updated.ToResponse()
	return &resp, nil
}

// DeleteRSVP removes a response. Same capability semantics as UpdateRSVP: no
// owner check.
func (s *rsvpService) DeleteRSVP(ctx context.Context, rsvpID int64) error {
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		return fmt.Errorf("failed to get rsvp: %w", err)
	}
	if rsvp == nil {
		return domain.BadRequest("rsvp not found")
	}

	if err := s.rsvpRepo.Delete(ctx, rsvpID); err != nil {
		return fmt.Errorf("failed to delete rsvp: %w", err)
	}

	s.publish(ctx, events.RSVPDeleted, events.RSVPDeletedEvent{
		RSVPID:    rsvpID,
		EventID:   rsvp.EventID,
		DeletedAt: time.Now(),
	})
	return nil
}

func (s *rsvpService) publish(ctx context.Context, subject string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, subject, payload); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "error", err, "subject", subject)
	}
}
